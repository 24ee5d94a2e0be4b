package domain

import (
	"encoding/json"
	"strings"
)

// User is the authenticated shopper's profile.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// UnmarshalJSON tolerates the two shapes the auth API sends for a user:
// a full profile object, or a bare email string.
func (u *User) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "\"") {
		var email string
		if err := json.Unmarshal(data, &email); err != nil {
			return err
		}
		*u = User{Email: email}
		return nil
	}

	type alias User
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*u = User(a)
	return nil
}

// Session holds the authentication state for one browser tab. Empty tokens
// mean the shopper is anonymous.
type Session struct {
	AuthToken    string `json:"auth_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

func (s Session) Authenticated() bool {
	return s.AuthToken != ""
}
