// Package forms provides per-route form validation. Each form keeps the
// submitted values and a field->message error map so handlers can re-render
// the originating page with what the user typed.
package forms

import (
	"fmt"
	"regexp"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RegisterForm validates the registration page input.
type RegisterForm struct {
	Email    string
	Username string
	Password string
	Confirm  string
	Errors   map[string]string
}

// Validate checks the form and populates Errors. It returns true when the
// form is acceptable.
func (f *RegisterForm) Validate() bool {
	f.Errors = make(map[string]string)

	if f.Email == "" {
		f.Errors["email"] = "Email is required"
	} else if !emailRegex.MatchString(f.Email) {
		f.Errors["email"] = "Invalid email"
	} else if len(f.Email) > 50 {
		f.Errors["email"] = "Email must not exceed 50 characters"
	}

	if f.Username == "" {
		f.Errors["username"] = "Username is required"
	} else if len(f.Username) < 4 || len(f.Username) > 15 {
		f.Errors["username"] = "Username must be between 4 and 15 characters"
	}

	if f.Password == "" {
		f.Errors["password"] = "Password is required"
	} else if len(f.Password) < 8 || len(f.Password) > 80 {
		f.Errors["password"] = "Password must be between 8 and 80 characters"
	}

	if f.Confirm == "" {
		f.Errors["confirm"] = "Password confirmation is required"
	} else if f.Confirm != f.Password {
		f.Errors["confirm"] = "Passwords do not match"
	}

	return len(f.Errors) == 0
}

// LoginForm validates the login page input.
type LoginForm struct {
	Username string
	Password string
	Remember bool
	Errors   map[string]string
}

// Validate checks the form and populates Errors.
func (f *LoginForm) Validate() bool {
	f.Errors = make(map[string]string)

	if f.Username == "" {
		f.Errors["username"] = "Username is required"
	} else if len(f.Username) < 4 || len(f.Username) > 15 {
		f.Errors["username"] = "Username must be between 4 and 15 characters"
	}

	if f.Password == "" {
		f.Errors["password"] = "Password is required"
	} else if len(f.Password) < 8 || len(f.Password) > 80 {
		f.Errors["password"] = "Password must be between 8 and 80 characters"
	}

	return len(f.Errors) == 0
}

// BlogForm validates the post authoring and editing pages.
type BlogForm struct {
	Title    string
	Subtitle string
	Content  string
	Errors   map[string]string
}

// Validate checks the form and populates Errors.
func (f *BlogForm) Validate() bool {
	f.Errors = make(map[string]string)

	if f.Title == "" {
		f.Errors["title"] = "Title is required"
	} else if len(f.Title) > 50 {
		f.Errors["title"] = "Title must not exceed 50 characters"
	}

	if f.Subtitle == "" {
		f.Errors["subtitle"] = "Subtitle is required"
	} else if len(f.Subtitle) > 80 {
		f.Errors["subtitle"] = "Subtitle must not exceed 80 characters"
	}

	if f.Content == "" {
		f.Errors["content"] = "Content is required"
	} else if len(f.Content) < 10 {
		f.Errors["content"] = fmt.Sprintf("Your message is too short (%d characters, minimum 10)", len(f.Content))
	}

	return len(f.Errors) == 0
}
