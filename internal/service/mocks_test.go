package service

import (
	"context"
	"io"

	"github.com/rolodex-dev/rolodex/internal/domain"
	internal_errors "github.com/rolodex-dev/rolodex/internal/errors"
)

// --- Mocks ---

type MockUserStorage struct {
	SaveUserFunc       func(user domain.User) (domain.User, error)
	UserByEmailFunc    func(email string) (domain.User, error)
	UserByUsernameFunc func(username string) (domain.User, error)
	ConfirmEmailFunc   func(email string) error
	UpdatePasswordFunc func(email, passHash string) error
	UpdateAvatarFunc   func(userId int64, avatarURL string) error

	UserByUsernameCalls int
}

func (m *MockUserStorage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(user)
	}
	user.Id = 1
	return user, nil
}

func (m *MockUserStorage) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.UserByEmailFunc != nil {
		return m.UserByEmailFunc(email)
	}
	return domain.User{}, internal_errors.NotFound("User not found")
}

func (m *MockUserStorage) UserByUsername(ctx context.Context, username string) (domain.User, error) {
	m.UserByUsernameCalls++
	if m.UserByUsernameFunc != nil {
		return m.UserByUsernameFunc(username)
	}
	return domain.User{}, internal_errors.NotFound("User not found")
}

func (m *MockUserStorage) ConfirmEmail(ctx context.Context, email string) error {
	if m.ConfirmEmailFunc != nil {
		return m.ConfirmEmailFunc(email)
	}
	return nil
}

func (m *MockUserStorage) UpdatePassword(ctx context.Context, email, passHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(email, passHash)
	}
	return nil
}

func (m *MockUserStorage) UpdateAvatar(ctx context.Context, userId int64, avatarURL string) error {
	if m.UpdateAvatarFunc != nil {
		return m.UpdateAvatarFunc(userId, avatarURL)
	}
	return nil
}

type sentMail struct {
	Email    string
	Username string
	Token    string
	Kind     string
}

// MockMail records sends on a channel so tests can wait for the background
// goroutines that deliver mail.
type MockMail struct {
	Sent chan sentMail
	Err  error
}

func NewMockMail() *MockMail {
	return &MockMail{Sent: make(chan sentMail, 8)}
}

func (m *MockMail) SendConfirmationMail(email, username, token string) error {
	m.Sent <- sentMail{Email: email, Username: username, Token: token, Kind: "confirm"}
	return m.Err
}

func (m *MockMail) SendPasswordResetMail(email, username, token string) error {
	m.Sent <- sentMail{Email: email, Username: username, Token: token, Kind: "reset"}
	return m.Err
}

type MockContactStorage struct {
	SaveContactFunc           func(contact domain.Contact) (domain.Contact, error)
	ContactsFunc              func(userId int64, filter domain.ContactFilter) ([]domain.Contact, error)
	ContactFunc               func(userId, contactId int64) (domain.Contact, error)
	UpdateContactFunc         func(userId, contactId int64, patch domain.ContactPatch) (domain.Contact, error)
	DeleteContactFunc         func(userId, contactId int64) (domain.Contact, error)
	ContactsWithBirthdaysFunc func(userId int64, days []domain.MonthDay) ([]domain.Contact, error)
}

func (m *MockContactStorage) SaveContact(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	if m.SaveContactFunc != nil {
		return m.SaveContactFunc(contact)
	}
	contact.Id = 1
	return contact, nil
}

func (m *MockContactStorage) Contacts(ctx context.Context, userId int64, filter domain.ContactFilter) ([]domain.Contact, error) {
	if m.ContactsFunc != nil {
		return m.ContactsFunc(userId, filter)
	}
	return []domain.Contact{}, nil
}

func (m *MockContactStorage) Contact(ctx context.Context, userId, contactId int64) (domain.Contact, error) {
	if m.ContactFunc != nil {
		return m.ContactFunc(userId, contactId)
	}
	return domain.Contact{}, internal_errors.NotFound("Contact not found")
}

func (m *MockContactStorage) UpdateContact(ctx context.Context, userId, contactId int64, patch domain.ContactPatch) (domain.Contact, error) {
	if m.UpdateContactFunc != nil {
		return m.UpdateContactFunc(userId, contactId, patch)
	}
	return domain.Contact{}, internal_errors.NotFound("Contact not found")
}

func (m *MockContactStorage) DeleteContact(ctx context.Context, userId, contactId int64) (domain.Contact, error) {
	if m.DeleteContactFunc != nil {
		return m.DeleteContactFunc(userId, contactId)
	}
	return domain.Contact{Id: contactId, UserId: userId}, nil
}

func (m *MockContactStorage) ContactsWithBirthdays(ctx context.Context, userId int64, days []domain.MonthDay) ([]domain.Contact, error) {
	if m.ContactsWithBirthdaysFunc != nil {
		return m.ContactsWithBirthdaysFunc(userId, days)
	}
	return []domain.Contact{}, nil
}

type MockImageStore struct {
	UploadFunc func(key, contentType string, body io.Reader) (string, error)
	DeleteFunc func(key string) error

	Deleted chan string
}

func NewMockImageStore() *MockImageStore {
	return &MockImageStore{Deleted: make(chan string, 8)}
}

func (m *MockImageStore) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(key, contentType, body)
	}
	return "https://cdn.example.com/avatars/" + key, nil
}

func (m *MockImageStore) Delete(ctx context.Context, key string) error {
	m.Deleted <- key
	if m.DeleteFunc != nil {
		return m.DeleteFunc(key)
	}
	return nil
}
