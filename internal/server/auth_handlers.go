package server

import (
	"inkwell/internal/forms"
	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// RegisterPage handles GET /register
func (s *Server) RegisterPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "register", fiber.Map{
		"Title": "Register",
		"Form":  &forms.RegisterForm{},
	})
}

// Register handles POST /register. On success the new user is redirected to
// the login page; validation failures and duplicate username/email re-render
// the form with the entered values.
func (s *Server) Register(c *fiber.Ctx) error {
	form := &forms.RegisterForm{
		Email:    c.FormValue("email"),
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Confirm:  c.FormValue("confirm"),
	}

	if !form.Validate() {
		return s.render(c, fiber.StatusOK, "register", fiber.Map{
			"Title": "Register",
			"Form":  form,
		})
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.NewInternalError(err)
	}

	user := &models.User{
		Username: form.Username,
		Email:    form.Email,
		Password: string(hashed),
	}
	if err := s.userRepo.Create(c.Context(), user); err != nil {
		if models.IsCode(err, "VALIDATION_ERROR") {
			// Duplicate username/email surfaces on the form instead of
			// propagating a raw store error.
			form.Errors["username"] = err.(*models.AppError).Message
			return s.render(c, fiber.StatusOK, "register", fiber.Map{
				"Title": "Register",
				"Form":  form,
			})
		}
		return err
	}

	return c.Redirect("/login", fiber.StatusFound)
}

// LoginPage handles GET /login
func (s *Server) LoginPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "login", fiber.Map{
		"Title": "Login",
		"Form":  &forms.LoginForm{},
	})
}

// Login handles POST /login. A credential mismatch redirects to the
// registration page rather than re-showing the login form; that quirk is
// kept from the original site.
func (s *Server) Login(c *fiber.Ctx) error {
	form := &forms.LoginForm{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Remember: c.FormValue("remember") != "",
	}

	if !form.Validate() {
		return s.render(c, fiber.StatusOK, "login", fiber.Map{
			"Title": "Login",
			"Form":  form,
		})
	}

	user, err := s.userRepo.GetByUsername(c.Context(), form.Username)
	if err != nil {
		return err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(form.Password)) != nil {
		return c.Redirect("/register", fiber.StatusFound)
	}

	if err := s.sessions.Login(c, user.ID, form.Remember); err != nil {
		return models.NewInternalError(err)
	}

	return c.Redirect("/", fiber.StatusFound)
}

// LogoutPage handles GET /logout with a confirmation page.
func (s *Server) LogoutPage(c *fiber.Ctx) error {
	return s.render(c, fiber.StatusOK, "logout", fiber.Map{"Title": "Log out"})
}

// Logout handles POST /logout
func (s *Server) Logout(c *fiber.Ctx) error {
	s.sessions.Logout(c)
	session.AddFlash(c, "info", "Goodbye!")
	return c.Redirect("/", fiber.StatusFound)
}
