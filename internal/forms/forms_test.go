package forms

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterForm_Validate(t *testing.T) {
	tests := []struct {
		name      string
		form      RegisterForm
		ok        bool
		errField  string
	}{
		{
			name: "valid",
			form: RegisterForm{Email: "a@example.com", Username: "writer", Password: "password1", Confirm: "password1"},
			ok:   true,
		},
		{
			name:     "missing email",
			form:     RegisterForm{Username: "writer", Password: "password1", Confirm: "password1"},
			errField: "email",
		},
		{
			name:     "bad email syntax",
			form:     RegisterForm{Email: "not-an-email", Username: "writer", Password: "password1", Confirm: "password1"},
			errField: "email",
		},
		{
			name:     "email too long",
			form:     RegisterForm{Email: strings.Repeat("a", 45) + "@example.com", Username: "writer", Password: "password1", Confirm: "password1"},
			errField: "email",
		},
		{
			name:     "username too short",
			form:     RegisterForm{Email: "a@example.com", Username: "abc", Password: "password1", Confirm: "password1"},
			errField: "username",
		},
		{
			name:     "username too long",
			form:     RegisterForm{Email: "a@example.com", Username: strings.Repeat("x", 16), Password: "password1", Confirm: "password1"},
			errField: "username",
		},
		{
			name:     "password too short",
			form:     RegisterForm{Email: "a@example.com", Username: "writer", Password: "short", Confirm: "short"},
			errField: "password",
		},
		{
			name:     "confirm mismatch",
			form:     RegisterForm{Email: "a@example.com", Username: "writer", Password: "password1", Confirm: "password2"},
			errField: "confirm",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.form.Validate()
			assert.Equal(t, tt.ok, got)
			if tt.errField != "" {
				assert.Contains(t, tt.form.Errors, tt.errField)
			}
		})
	}
}

func TestLoginForm_Validate(t *testing.T) {
	tests := []struct {
		name     string
		form     LoginForm
		ok       bool
		errField string
	}{
		{name: "valid", form: LoginForm{Username: "writer", Password: "password1"}, ok: true},
		{name: "valid with remember", form: LoginForm{Username: "writer", Password: "password1", Remember: true}, ok: true},
		{name: "missing username", form: LoginForm{Password: "password1"}, errField: "username"},
		{name: "username too short", form: LoginForm{Username: "ab", Password: "password1"}, errField: "username"},
		{name: "missing password", form: LoginForm{Username: "writer"}, errField: "password"},
		{name: "password too long", form: LoginForm{Username: "writer", Password: strings.Repeat("p", 81)}, errField: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.form.Validate()
			assert.Equal(t, tt.ok, got)
			if tt.errField != "" {
				assert.Contains(t, tt.form.Errors, tt.errField)
			}
		})
	}
}

func TestBlogForm_Validate(t *testing.T) {
	tests := []struct {
		name     string
		form     BlogForm
		ok       bool
		errField string
	}{
		{name: "valid", form: BlogForm{Title: "First", Subtitle: "A beginning", Content: "Hello world, this is long enough."}, ok: true},
		{name: "missing title", form: BlogForm{Subtitle: "s", Content: "long enough content"}, errField: "title"},
		{name: "title too long", form: BlogForm{Title: strings.Repeat("t", 51), Subtitle: "s", Content: "long enough content"}, errField: "title"},
		{name: "subtitle too long", form: BlogForm{Title: "t", Subtitle: strings.Repeat("s", 81), Content: "long enough content"}, errField: "subtitle"},
		{name: "content too short", form: BlogForm{Title: "t", Subtitle: "s", Content: "short"}, errField: "content"},
		{name: "subtitle at limit", form: BlogForm{Title: "t", Subtitle: strings.Repeat("s", 80), Content: "long enough content"}, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.form.Validate()
			assert.Equal(t, tt.ok, got)
			if tt.errField != "" {
				assert.Contains(t, tt.form.Errors, tt.errField)
			}
		})
	}
}
