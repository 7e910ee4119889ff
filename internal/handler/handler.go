package handler

import (
	"github.com/rolodex-dev/rolodex/internal/config"
	"github.com/rolodex-dev/rolodex/internal/service"
)

type Handler struct {
	auth     service.AuthService
	contacts service.ContactService
	users    service.UserService
	cfg      *config.Config
}

func New(auth service.AuthService, contacts service.ContactService, users service.UserService, cfg *config.Config) *Handler {
	return &Handler{auth, contacts, users, cfg}
}
