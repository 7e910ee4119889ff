package handler

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"

	"github.com/rolodex-dev/rolodex/internal/config"
	"github.com/rolodex-dev/rolodex/internal/domain"
	internal_errors "github.com/rolodex-dev/rolodex/internal/errors"
	"github.com/rolodex-dev/rolodex/internal/middleware"
)

// --- Mocks ---

type MockAuthService struct {
	RegisterFunc             func(username, email, password string) (domain.User, error)
	LoginFunc                func(username, password string) (domain.TokenPair, error)
	ConfirmEmailFunc         func(tokenStr string) (domain.User, error)
	RequestPasswordResetFunc func(email string) error
	ResetPasswordFunc        func(tokenStr, newPassword string) error
	CurrentUserFunc          func(rawToken string) (domain.User, error)
}

func (m *MockAuthService) Register(ctx context.Context, username, email, password string) (domain.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(username, email, password)
	}
	return domain.User{Id: 1, Username: username, Email: email}, nil
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (domain.TokenPair, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(username, password)
	}
	return domain.TokenPair{AccessToken: "token", TokenType: "bearer"}, nil
}

func (m *MockAuthService) ConfirmEmail(ctx context.Context, tokenStr string) (domain.User, error) {
	if m.ConfirmEmailFunc != nil {
		return m.ConfirmEmailFunc(tokenStr)
	}
	return domain.User{Id: 1, Username: "alice", Email: "alice@example.com", EmailConfirmed: true}, nil
}

func (m *MockAuthService) RequestPasswordReset(ctx context.Context, email string) error {
	if m.RequestPasswordResetFunc != nil {
		return m.RequestPasswordResetFunc(email)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(tokenStr, newPassword)
	}
	return nil
}

func (m *MockAuthService) CurrentUser(ctx context.Context, rawToken string) (domain.User, error) {
	if m.CurrentUserFunc != nil {
		return m.CurrentUserFunc(rawToken)
	}
	if rawToken == "valid-token" {
		return domain.User{Id: 42, Username: "alice", Email: "alice@example.com", Role: domain.RoleUser}, nil
	}
	return domain.User{}, internal_errors.Unauthorized("Invalid access token")
}

type MockContactService struct {
	CreateFunc            func(userId int64, draft domain.ContactDraft) (domain.Contact, error)
	ListFunc              func(userId int64, filter domain.ContactFilter) ([]domain.Contact, error)
	GetFunc               func(userId, contactId int64) (domain.Contact, error)
	UpdateFunc            func(userId, contactId int64, patch domain.ContactPatch) (domain.Contact, error)
	DeleteFunc            func(userId, contactId int64) (domain.Contact, error)
	UpcomingBirthdaysFunc func(userId int64) ([]domain.Contact, error)
}

func (m *MockContactService) Create(ctx context.Context, userId int64, draft domain.ContactDraft) (domain.Contact, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(userId, draft)
	}
	return domain.Contact{Id: 1, UserId: userId}, nil
}

func (m *MockContactService) List(ctx context.Context, userId int64, filter domain.ContactFilter) ([]domain.Contact, error) {
	if m.ListFunc != nil {
		return m.ListFunc(userId, filter)
	}
	return []domain.Contact{}, nil
}

func (m *MockContactService) Get(ctx context.Context, userId, contactId int64) (domain.Contact, error) {
	if m.GetFunc != nil {
		return m.GetFunc(userId, contactId)
	}
	return domain.Contact{}, internal_errors.NotFound("Contact not found")
}

func (m *MockContactService) Update(ctx context.Context, userId, contactId int64, patch domain.ContactPatch) (domain.Contact, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(userId, contactId, patch)
	}
	return domain.Contact{}, internal_errors.NotFound("Contact not found")
}

func (m *MockContactService) Delete(ctx context.Context, userId, contactId int64) (domain.Contact, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(userId, contactId)
	}
	return domain.Contact{Id: contactId, UserId: userId}, nil
}

func (m *MockContactService) UpcomingBirthdays(ctx context.Context, userId int64) ([]domain.Contact, error) {
	if m.UpcomingBirthdaysFunc != nil {
		return m.UpcomingBirthdaysFunc(userId)
	}
	return []domain.Contact{}, nil
}

type MockUserService struct {
	ChangeAvatarFunc func(user domain.User, file io.Reader) (domain.User, error)
}

func (m *MockUserService) ChangeAvatar(ctx context.Context, user domain.User, file io.Reader) (domain.User, error) {
	if m.ChangeAvatarFunc != nil {
		return m.ChangeAvatarFunc(user, file)
	}
	url := "https://cdn.example.com/bucket/user_avatars/new-id"
	user.AvatarURL = &url
	return user, nil
}

// --- Helpers ---

type testDeps struct {
	auth     *MockAuthService
	contacts *MockContactService
	users    *MockUserService
}

func newTestDeps() *testDeps {
	return &testDeps{
		auth:     &MockAuthService{},
		contacts: &MockContactService{},
		users:    &MockUserService{},
	}
}

func testHandlerConfig() *config.Config {
	return &config.Config{
		Public: config.Public{MaxAvatarSizeBytes: 1 << 20},
	}
}

// newTestRouter mounts the handlers the way the real router does, with
// authentication but without rate limiting.
func newTestRouter(deps *testDeps) *chi.Mux {
	h := New(deps.auth, deps.contacts, deps.users, testHandlerConfig())

	r := chi.NewRouter()
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Get("/auth/confirm/{token}", h.ConfirmEmail)
	r.Post("/auth/password-reset/request", h.RequestPasswordReset)
	r.Post("/auth/password-reset/confirm", h.ResetPassword)
	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(deps.auth))
		r.Get("/users/me", h.Me)
		r.Post("/users/me/avatar", h.UploadAvatar)
		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", h.CreateContact)
			r.Get("/", h.ListContacts)
			r.Get("/upcoming_birthdays", h.UpcomingBirthdays)
			r.Get("/{contactId}", h.GetContact)
			r.Patch("/{contactId}", h.UpdateContact)
			r.Delete("/{contactId}", h.DeleteContact)
		})
	})

	return r
}

func doRequest(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func authed(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer valid-token")
	return req
}
