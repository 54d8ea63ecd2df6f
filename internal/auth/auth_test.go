package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(t *testing.T) *Authenticator {
	t.Helper()
	a, err := New(Options{
		AdminEmail:    "admin@example.com",
		AdminPassword: "s3cret",
		Secret:        "test-secret",
		TokenTTL:      time.Hour,
	})
	require.NoError(t, err)
	return a
}

func TestNew(t *testing.T) {
	_, err := New(Options{AdminEmail: "a@b.c", AdminPassword: "x"})
	assert.Error(t, err, "missing secret")

	_, err = New(Options{Secret: "k"})
	assert.Error(t, err, "missing credentials")
}

func TestLoginAndVerify(t *testing.T) {
	a := newTestAuth(t)

	t.Run("valid credentials", func(t *testing.T) {
		token, user, err := a.Login("admin@example.com", "s3cret")
		require.NoError(t, err)
		assert.Equal(t, AdminUserID, user.UserID)

		got, err := a.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "admin@example.com", got.Email)
		assert.Equal(t, AdminUserID, got.UserID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := a.Login("admin@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("wrong email", func(t *testing.T) {
		_, _, err := a.Login("other@example.com", "s3cret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("expired token", func(t *testing.T) {
		token, _, err := a.Login("admin@example.com", "s3cret")
		require.NoError(t, err)

		later := *a
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err = later.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("foreign signature", func(t *testing.T) {
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "x", UserID: "admin"}).
			SignedString([]byte("other-secret"))
		require.NoError(t, err)
		_, err = a.Verify(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty token", func(t *testing.T) {
		_, err := a.Verify("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestCookies(t *testing.T) {
	a := newTestAuth(t)
	token, _, err := a.Login("admin@example.com", "s3cret")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.SetCookie(rec, token)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	user, err := a.FromRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)

	_, err = a.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.ErrorIs(t, err, ErrInvalidToken)

	rec = httptest.NewRecorder()
	a.ClearCookie(rec)
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestUserContext(t *testing.T) {
	_, ok := UserFrom(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), &User{Email: "a@b.c", UserID: AdminUserID})
	u, ok := UserFrom(ctx)
	require.True(t, ok)
	assert.Equal(t, "a@b.c", u.Email)
}
