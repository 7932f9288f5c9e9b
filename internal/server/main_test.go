package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/models"
	"inkwell/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testServer bundles a Server with its Fiber app and direct DB access so
// tests can drive HTTP flows and then assert on stored state.
type testServer struct {
	*Server
	app *fiber.App
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.CreateSchema(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{
		SessionSecret: "test-secret",
		Port:          "0",
		DBDriver:      "sqlite",
		Env:           "test",
	}

	s := NewServerWithDeps(cfg, db, rdb)
	return &testServer{Server: s, app: s.NewApp()}
}

func (ts *testServer) get(t *testing.T, path string, cookies ...string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(cookies, "; "))
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (ts *testServer) postForm(t *testing.T, path string, form url.Values, cookies ...string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if len(cookies) > 0 {
		req.Header.Set("Cookie", strings.Join(cookies, "; "))
	}
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// cookieValue extracts "name=value" for the given cookie from a response.
func cookieValue(t *testing.T, resp *http.Response, name string) string {
	t.Helper()
	for _, sc := range resp.Header.Values("Set-Cookie") {
		if strings.HasPrefix(sc, name+"=") {
			return strings.SplitN(sc, ";", 2)[0]
		}
	}
	return ""
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

// seedUser inserts a user directly, bypassing the register flow. MinCost
// keeps the hashing cheap for tests; the login handler accepts any cost.
func (ts *testServer) seedUser(t *testing.T, username, password string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Username: username,
		Email:    username + "@example.com",
		Password: string(hashed),
	}
	require.NoError(t, ts.userRepo.Create(context.Background(), user))
	return user
}

// login drives the login form and returns the session cookie.
func (ts *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := ts.postForm(t, "/login", url.Values{
		"username": {username},
		"password": {password},
	})
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
	cookie := cookieValue(t, resp, session.CookieName)
	require.NotEmpty(t, cookie)
	return cookie
}

func (ts *testServer) seedPost(t *testing.T, author, title string) *models.Post {
	t.Helper()
	post := &models.Post{
		Title:      title,
		Subtitle:   "a subtitle",
		Author:     author,
		Content:    "original content of the post",
		DatePosted: time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, ts.postRepo.Create(context.Background(), post))
	return post
}
