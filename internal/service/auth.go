package service

import (
	"context"
	"strings"
	"time"

	"github.com/rolodex-dev/rolodex/internal/cache"
	"github.com/rolodex-dev/rolodex/internal/config"
	"github.com/rolodex-dev/rolodex/internal/domain"
	"github.com/rolodex-dev/rolodex/internal/errors"
	"github.com/rolodex-dev/rolodex/internal/logger"
	"github.com/rolodex-dev/rolodex/internal/token"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (domain.User, error)
	Login(ctx context.Context, username, password string) (domain.TokenPair, error)
	ConfirmEmail(ctx context.Context, tokenStr string) (domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, tokenStr, newPassword string) error
	CurrentUser(ctx context.Context, rawToken string) (domain.User, error)
}

type UserStorage interface {
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByUsername(ctx context.Context, username string) (domain.User, error)
	ConfirmEmail(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, email, passHash string) error
	UpdateAvatar(ctx context.Context, userId int64, avatarURL string) error
}

type Jwt interface {
	NewToken(subject, purpose string, ttl time.Duration) (string, error)
	DecodeToken(jwtStr, purpose string) (*token.Claims, error)
}

type Mail interface {
	SendConfirmationMail(email, username, token string) error
	SendPasswordResetMail(email, username, token string) error
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

type Auth struct {
	storage  UserStorage
	jwt      Jwt
	mail     Mail
	hasher   PasswordHasher
	sessions cache.SessionCache
	cfg      *config.Config
	now      func() time.Time
}

func NewAuth(storage UserStorage, jwt Jwt, mail Mail, hasher PasswordHasher, sessions cache.SessionCache, cfg *config.Config) *Auth {
	return &Auth{
		storage:  storage,
		jwt:      jwt,
		mail:     mail,
		hasher:   hasher,
		sessions: sessions,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Register creates an unconfirmed account and sends the confirmation email
// in the background. A failed send never fails the registration, the user
// can request a new email later.
func (a *Auth) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	username = sanitize(username)
	email = strings.ToLower(email)

	passHash, err := a.hasher.Hash(password)
	if err != nil {
		return domain.User{}, err
	}

	user, err := a.storage.SaveUser(ctx, domain.User{
		Username: username,
		Email:    email,
		PassHash: passHash,
		Role:     domain.RoleUser,
	})
	if err != nil {
		return domain.User{}, err
	}

	go a.sendConfirmationMail(user)

	return user, nil
}

func (a *Auth) sendConfirmationMail(user domain.User) {
	confirmToken, err := a.jwt.NewToken(user.Email, token.PurposeConfirm, a.cfg.ConfirmTTL())
	if err != nil {
		logger.Log.Error("failed to create confirmation token", "email", user.Email, "error", err)
		return
	}
	if err := a.mail.SendConfirmationMail(user.Email, user.Username, confirmToken); err != nil {
		logger.Log.Error("failed to send confirmation email", "email", user.Email, "error", err)
	}
}

// Login exchanges credentials for an access token. Unknown username and
// wrong password both map to the same 401 so callers cannot probe which
// part was wrong. Confirmation status does not gate login.
func (a *Auth) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	user, err := a.storage.UserByUsername(ctx, username)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.TokenPair{}, errors.Unauthorized("Invalid credentials")
		}
		return domain.TokenPair{}, err
	}

	if !a.hasher.Verify(user.PassHash, password) {
		return domain.TokenPair{}, errors.Unauthorized("Invalid credentials")
	}

	accessToken, err := a.jwt.NewToken(user.Username, token.PurposeAccess, a.cfg.AccessTTL())
	if err != nil {
		return domain.TokenPair{}, err
	}

	return domain.TokenPair{AccessToken: accessToken, TokenType: "bearer"}, nil
}

// ConfirmEmail marks the account behind a confirmation token as confirmed
// and returns it. Confirming an already confirmed account succeeds. A valid
// token whose subject no longer exists is a 404, not a token failure.
func (a *Auth) ConfirmEmail(ctx context.Context, tokenStr string) (domain.User, error) {
	claims, err := a.jwt.DecodeToken(tokenStr, token.PurposeConfirm)
	if err != nil {
		return domain.User{}, errors.InvalidToken("Invalid confirmation token")
	}

	if err := a.storage.ConfirmEmail(ctx, claims.Subject); err != nil {
		return domain.User{}, err
	}

	return a.storage.UserByEmail(ctx, claims.Subject)
}

// RequestPasswordReset sends a reset email if the address has an account.
// The outcome is identical either way so addresses cannot be enumerated.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(email)

	user, err := a.storage.UserByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			logger.Log.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	go a.sendPasswordResetMail(user)

	return nil
}

func (a *Auth) sendPasswordResetMail(user domain.User) {
	resetToken, err := a.jwt.NewToken(user.Email, token.PurposeReset, a.cfg.ResetTTL())
	if err != nil {
		logger.Log.Error("failed to create reset token", "email", user.Email, "error", err)
		return
	}
	if err := a.mail.SendPasswordResetMail(user.Email, user.Username, resetToken); err != nil {
		logger.Log.Error("failed to send password reset email", "email", user.Email, "error", err)
	}
}

// ResetPassword stores a new password hash for the token's subject. The
// 404 from the directory passes through when the user vanished between
// token issuance and redemption.
func (a *Auth) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	claims, err := a.jwt.DecodeToken(tokenStr, token.PurposeReset)
	if err != nil {
		return errors.InvalidToken("Invalid reset token")
	}

	passHash, err := a.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	return a.storage.UpdatePassword(ctx, claims.Subject, passHash)
}

// CurrentUser resolves the raw access token to a user, serving repeat
// lookups from the session cache. Cache entries never outlive the token.
func (a *Auth) CurrentUser(ctx context.Context, rawToken string) (domain.User, error) {
	if user, err := a.sessions.Get(ctx, rawToken); err == nil {
		return *user, nil
	}

	claims, err := a.jwt.DecodeToken(rawToken, token.PurposeAccess)
	if err != nil {
		return domain.User{}, errors.Unauthorized("Invalid access token")
	}

	user, err := a.storage.UserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.IsNotFound(err) {
			return domain.User{}, errors.Unauthorized("Invalid access token")
		}
		return domain.User{}, err
	}

	ttl := a.cfg.SessionCacheTTL()
	if remaining := claims.ExpiresAt.Sub(a.now()); remaining < ttl {
		ttl = remaining
	}
	if err := a.sessions.Set(ctx, rawToken, &user, ttl); err != nil {
		logger.Log.Error("failed to cache session", "error", err)
	}

	return user, nil
}
