package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Id             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	PassHash       string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	EmailConfirmed bool      `json:"email_confirmed"`
	AvatarURL      *string   `json:"avatar_url"`
	Role           string    `json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// TokenPair is what a successful login returns. TokenType is always
// "bearer"; kept explicit so clients don't have to assume.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
