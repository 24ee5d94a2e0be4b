package api

import (
	"context"
	"encoding/json"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

// AuthClient talks to the /auth endpoints.
type AuthClient struct {
	c *Client
}

func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// LoginResult is the normalized shape of every auth response that mints a
// session.
type LoginResult struct {
	Token        string
	RefreshToken string
	User         domain.User
}

// Session converts the result into session state. A response without a
// profile still yields a user carrying the known email.
func (r LoginResult) Session(fallbackEmail string) domain.Session {
	user := r.User
	if user.Email == "" {
		user.Email = fallbackEmail
	}
	return domain.Session{
		AuthToken:    r.Token,
		RefreshToken: r.RefreshToken,
		User:         &user,
	}
}

// loginEnvelope tolerates the token field names seen across auth endpoints.
type loginEnvelope struct {
	Token        string      `json:"token"`
	AccessToken  string      `json:"accessToken"`
	AuthToken    string      `json:"authToken"`
	RefreshToken string      `json:"refreshToken"`
	Refresh      string      `json:"refresh_token"`
	User         domain.User `json:"user"`
}

func decodeLoginResult(raw json.RawMessage) (LoginResult, error) {
	env, err := decodeObject[loginEnvelope](raw)
	if err != nil {
		return LoginResult{}, err
	}
	result := LoginResult{
		Token:        env.Token,
		RefreshToken: env.RefreshToken,
		User:         env.User,
	}
	if result.Token == "" {
		result.Token = env.AccessToken
	}
	if result.Token == "" {
		result.Token = env.AuthToken
	}
	if result.RefreshToken == "" {
		result.RefreshToken = env.Refresh
	}
	return result, nil
}

func (a *AuthClient) SendOTP(ctx context.Context, email string) error {
	return a.c.post(ctx, "/auth/send-otp", nil, map[string]string{"email": email}, nil)
}

func (a *AuthClient) VerifyOTP(ctx context.Context, email, otp string) (LoginResult, error) {
	var raw json.RawMessage
	err := a.c.post(ctx, "/auth/verify-otp", nil, map[string]string{"email": email, "otp": otp}, &raw)
	if err != nil {
		return LoginResult{}, err
	}
	return decodeLoginResult(raw)
}

func (a *AuthClient) Login(ctx context.Context, creds Credentials) (LoginResult, error) {
	var raw json.RawMessage
	if err := a.c.post(ctx, "/auth/login", nil, creds, &raw); err != nil {
		return LoginResult{}, err
	}
	return decodeLoginResult(raw)
}

func (a *AuthClient) Signup(ctx context.Context, req SignupRequest) (LoginResult, error) {
	var raw json.RawMessage
	if err := a.c.post(ctx, "/auth/signup", nil, req, &raw); err != nil {
		return LoginResult{}, err
	}
	return decodeLoginResult(raw)
}

func (a *AuthClient) ForgotPassword(ctx context.Context, email string) error {
	return a.c.post(ctx, "/auth/forgot-password", nil, map[string]string{"email": email}, nil)
}

func (a *AuthClient) ResetPassword(ctx context.Context, token, password string) error {
	body := map[string]string{"token": token, "password": password}
	return a.c.post(ctx, "/auth/reset-password", nil, body, nil)
}

// Profile fetches the authenticated shopper's profile. Requires a token
// source on the underlying client.
func (a *AuthClient) Profile(ctx context.Context) (domain.User, error) {
	var raw json.RawMessage
	if err := a.c.get(ctx, "/auth/profile", nil, &raw); err != nil {
		return domain.User{}, err
	}
	return decodeObject[domain.User](raw, "user", "profile")
}
