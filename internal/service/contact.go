package service

import (
	"context"
	"strings"
	"time"

	"github.com/rolodex-dev/rolodex/internal/domain"
)

type ContactService interface {
	Create(ctx context.Context, userId int64, draft domain.ContactDraft) (domain.Contact, error)
	List(ctx context.Context, userId int64, filter domain.ContactFilter) ([]domain.Contact, error)
	Get(ctx context.Context, userId, contactId int64) (domain.Contact, error)
	Update(ctx context.Context, userId, contactId int64, patch domain.ContactPatch) (domain.Contact, error)
	Delete(ctx context.Context, userId, contactId int64) (domain.Contact, error)
	UpcomingBirthdays(ctx context.Context, userId int64) ([]domain.Contact, error)
}

type ContactStorage interface {
	SaveContact(ctx context.Context, contact domain.Contact) (domain.Contact, error)
	Contacts(ctx context.Context, userId int64, filter domain.ContactFilter) ([]domain.Contact, error)
	Contact(ctx context.Context, userId, contactId int64) (domain.Contact, error)
	UpdateContact(ctx context.Context, userId, contactId int64, patch domain.ContactPatch) (domain.Contact, error)
	DeleteContact(ctx context.Context, userId, contactId int64) (domain.Contact, error)
	ContactsWithBirthdays(ctx context.Context, userId int64, days []domain.MonthDay) ([]domain.Contact, error)
}

// birthdayWindowDays is today plus the next six days.
const birthdayWindowDays = 7

type Contacts struct {
	storage ContactStorage
	now     func() time.Time
}

func NewContacts(storage ContactStorage) *Contacts {
	return &Contacts{storage: storage, now: time.Now}
}

func (c *Contacts) Create(ctx context.Context, userId int64, draft domain.ContactDraft) (domain.Contact, error) {
	return c.storage.SaveContact(ctx, domain.Contact{
		UserId:         userId,
		FirstName:      sanitize(draft.FirstName),
		LastName:       sanitize(draft.LastName),
		Email:          strings.ToLower(draft.Email),
		PhoneNumber:    draft.PhoneNumber,
		Birthday:       draft.Birthday,
		AdditionalData: sanitizePtr(draft.AdditionalData),
	})
}

func (c *Contacts) List(ctx context.Context, userId int64, filter domain.ContactFilter) ([]domain.Contact, error) {
	return c.storage.Contacts(ctx, userId, filter)
}

func (c *Contacts) Get(ctx context.Context, userId, contactId int64) (domain.Contact, error) {
	return c.storage.Contact(ctx, userId, contactId)
}

func (c *Contacts) Update(ctx context.Context, userId, contactId int64, patch domain.ContactPatch) (domain.Contact, error) {
	patch.FirstName = sanitizePtr(patch.FirstName)
	patch.LastName = sanitizePtr(patch.LastName)
	patch.AdditionalData = sanitizePtr(patch.AdditionalData)
	if patch.Email != nil {
		lower := strings.ToLower(*patch.Email)
		patch.Email = &lower
	}
	return c.storage.UpdateContact(ctx, userId, contactId, patch)
}

// Delete removes the contact and returns its last state.
func (c *Contacts) Delete(ctx context.Context, userId, contactId int64) (domain.Contact, error) {
	return c.storage.DeleteContact(ctx, userId, contactId)
}

// UpcomingBirthdays returns contacts whose birthday falls within the next
// seven calendar days. Days are anchored to UTC so the window does not
// depend on server timezone, and the year wraps cleanly in late December.
func (c *Contacts) UpcomingBirthdays(ctx context.Context, userId int64) ([]domain.Contact, error) {
	today := c.now().UTC()

	days := make([]domain.MonthDay, 0, birthdayWindowDays)
	for i := 0; i < birthdayWindowDays; i++ {
		day := today.AddDate(0, 0, i)
		days = append(days, domain.MonthDay{Month: day.Month(), Day: day.Day()})
	}

	return c.storage.ContactsWithBirthdays(ctx, userId, days)
}
