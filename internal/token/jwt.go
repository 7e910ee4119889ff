package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rolodex-dev/rolodex/internal/logger"
)

// A token is only ever valid for the purpose it was minted with. An access
// token can never confirm an email, a reset token can never authenticate.
const (
	PurposeAccess  = "access"
	PurposeConfirm = "confirm"
	PurposeReset   = "reset"
)

var (
	ErrMalformed        = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrExpired          = errors.New("token expired")
	ErrWrongPurpose     = errors.New("token used for wrong purpose")
)

// Claims is the decoded payload the rest of the app works with. Subject is
// the username for access tokens and the email for confirm/reset tokens.
type Claims struct {
	Subject   string
	Purpose   string
	ExpiresAt time.Time
}

type JwtService interface {
	NewToken(subject, purpose string, ttl time.Duration) (string, error)
	DecodeToken(jwtStr, purpose string) (*Claims, error)
}

type Jwt struct {
	secretKey []byte
	now       func() time.Time
}

func New(secretKey []byte) *Jwt {
	return &Jwt{secretKey: secretKey, now: time.Now}
}

// NewWithClock is used by tests to control token timestamps.
func NewWithClock(secretKey []byte, now func() time.Time) *Jwt {
	return &Jwt{secretKey: secretKey, now: now}
}

func (j *Jwt) NewToken(subject, purpose string, ttl time.Duration) (string, error) {
	issuedAt := j.now()

	claims := jwt.MapClaims{}
	claims["sub"] = subject
	claims["purpose"] = purpose
	claims["iat"] = issuedAt.Unix()
	claims["exp"] = issuedAt.Add(ttl).Unix()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		logger.Log.Error("signing token", "err", err)
		return "", errors.New("can't create token")
	}

	return tokenString, nil
}

func (j *Jwt) DecodeToken(jwtStr, purpose string) (*Claims, error) {
	token, err := jwt.Parse(jwtStr, func(token *jwt.Token) (interface{}, error) {
		// Verify signing algorithm
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	}, jwt.WithTimeFunc(j.now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformed
		}
	}
	if !token.Valid {
		return nil, ErrMalformed
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformed
	}

	sub, _ := mapClaims["sub"].(string)
	if sub == "" {
		return nil, ErrMalformed
	}
	tokenPurpose, _ := mapClaims["purpose"].(string)
	if tokenPurpose != purpose {
		return nil, ErrWrongPurpose
	}

	exp, err := mapClaims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, ErrMalformed
	}

	return &Claims{
		Subject:   sub,
		Purpose:   tokenPurpose,
		ExpiresAt: exp.Time,
	}, nil
}
