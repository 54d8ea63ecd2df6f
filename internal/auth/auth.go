// Package auth authenticates the single admin user and issues the signed
// session token carried in the auth-token cookie.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the cookie holding the session token.
const CookieName = "auth-token"

// AdminUserID is the user id embedded in admin tokens.
const AdminUserID = "admin"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// User is the identity carried by a token.
type User struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
}

// Claims is the JWT payload.
type Claims struct {
	Email  string `json:"email"`
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Authenticator checks admin credentials and signs/verifies tokens.
type Authenticator struct {
	email        string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	secure       bool
	now          func() time.Time
}

// Options configures an Authenticator.
type Options struct {
	AdminEmail    string
	AdminPassword string
	Secret        string
	TokenTTL      time.Duration
	SecureCookie  bool
}

// New hashes the admin password once so the plain text is not kept around.
func New(opts Options) (*Authenticator, error) {
	if opts.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if opts.AdminEmail == "" || opts.AdminPassword == "" {
		return nil, errors.New("admin credentials are required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(opts.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &Authenticator{
		email:        opts.AdminEmail,
		passwordHash: hash,
		secret:       []byte(opts.Secret),
		ttl:          ttl,
		secure:       opts.SecureCookie,
		now:          time.Now,
	}, nil
}

// Login returns a signed token for valid admin credentials.
func (a *Authenticator) Login(email, password string) (string, *User, error) {
	if email != a.email {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := a.now()
	claims := Claims{
		Email:  email,
		UserID: AdminUserID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, &User{Email: email, UserID: AdminUserID}, nil
}

// Verify parses and validates a token.
func (a *Authenticator) Verify(tokenString string) (*User, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &User{Email: claims.Email, UserID: claims.UserID}, nil
}

// SetCookie writes the session cookie.
func (a *Authenticator) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func (a *Authenticator) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest verifies the session cookie of r.
func (a *Authenticator) FromRequest(r *http.Request) (*User, error) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return a.Verify(c.Value)
}

type userKey struct{}

// WithUser stores the authenticated user in ctx.
func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

// UserFrom returns the user stored by WithUser.
func UserFrom(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userKey{}).(*User)
	return u, ok
}
