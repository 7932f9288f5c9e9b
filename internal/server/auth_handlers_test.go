package server

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func registerValues(username string) url.Values {
	return url.Values{
		"email":    {username + "@example.com"},
		"username": {username},
		"password": {"password1"},
		"confirm":  {"password1"},
	}
}

func TestRegister_CreatesUserAndRedirects(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.postForm(t, "/register", registerValues("newwriter"))
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	user, err := ts.userRepo.GetByUsername(context.Background(), "newwriter")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "newwriter@example.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("password1")))
}

func TestRegister_InvalidFormReRenders(t *testing.T) {
	ts := newTestServer(t)

	form := registerValues("abc") // username below the 4 character minimum
	resp := ts.postForm(t, "/register", form)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var count int64
	require.NoError(t, ts.db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegister_DuplicateUsernameReRendersForm(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "writer", "password1")

	resp := ts.postForm(t, "/register", registerValues("writer"))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "already taken")

	var count int64
	require.NoError(t, ts.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestLogin_EstablishesSession(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "writer", "password1")

	cookie := ts.login(t, "writer", "password1")

	resp := ts.get(t, "/", cookie)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Logout (writer)")
}

func TestLogin_WrongPasswordRedirectsToRegister(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "writer", "password1")

	resp := ts.postForm(t, "/login", url.Values{
		"username": {"writer"},
		"password": {"wrongpassword"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/register", resp.Header.Get("Location"))
	assert.Empty(t, cookieValue(t, resp, session.CookieName))
}

func TestLogin_UnknownUserRedirectsToRegister(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.postForm(t, "/login", url.Values{
		"username": {"nobody"},
		"password": {"password1"},
	})
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/register", resp.Header.Get("Location"))
	assert.Empty(t, cookieValue(t, resp, session.CookieName))
}

func TestLogout_InvalidatesSession(t *testing.T) {
	ts := newTestServer(t)
	ts.seedUser(t, "writer", "password1")
	cookie := ts.login(t, "writer", "password1")

	resp := ts.postForm(t, "/logout", nil, cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	// The old cookie no longer grants access to protected routes.
	resp = ts.get(t, "/add", cookie)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLogout_RequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.get(t, "/logout")
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestRegisterAndLoginPages_Render(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.get(t, "/register")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.get(t, "/login")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
