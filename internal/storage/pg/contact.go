package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/rolodex-dev/rolodex/internal/domain"
	internal_errors "github.com/rolodex-dev/rolodex/internal/errors"
)

const contactColumns = "id, user_id, first_name, last_name, email, phone_number, birthday, additional_data"

// =========================================================================
// Public Methods (satisfy the service.ContactStorage interface)
// =========================================================================

// SaveContact inserts a new contact. Email and phone number collide across
// all users, so either being taken anywhere maps to a 409.
func (s *Storage) SaveContact(ctx context.Context, contact domain.Contact) (domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var saved domain.Contact
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		saved, err = s.saveContact(tx, contact)
		return err
	})
	return saved, err
}

func (s *Storage) Contacts(ctx context.Context, userId int64, filter domain.ContactFilter) ([]domain.Contact, error) {
	return s.contacts(s.db, userId, filter)
}

func (s *Storage) Contact(ctx context.Context, userId, contactId int64) (domain.Contact, error) {
	return s.contact(s.db, userId, contactId)
}

// UpdateContact applies a partial update inside a transaction so a
// concurrent write cannot interleave between read and write.
func (s *Storage) UpdateContact(ctx context.Context, userId, contactId int64, patch domain.ContactPatch) (domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var updated domain.Contact
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		updated, err = s.updateContact(tx, userId, contactId, patch)
		return err
	})
	return updated, err
}

// DeleteContact removes the contact and returns its last state.
func (s *Storage) DeleteContact(ctx context.Context, userId, contactId int64) (domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var deleted domain.Contact
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		deleted, err = s.deleteContact(tx, userId, contactId)
		return err
	})
	return deleted, err
}

// ContactsWithBirthdays returns the user's contacts whose birthday falls on
// any of the given calendar days, year ignored.
func (s *Storage) ContactsWithBirthdays(ctx context.Context, userId int64, days []domain.MonthDay) ([]domain.Contact, error) {
	return s.contactsWithBirthdays(s.db, userId, days)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveContact(q Querier, contact domain.Contact) (domain.Contact, error) {
	err := q.QueryRow(`
        INSERT INTO contacts(user_id, first_name, last_name, email, phone_number, birthday, additional_data)
        VALUES($1, $2, $3, $4, $5, $6, $7)
        RETURNING id`,
		contact.UserId, contact.FirstName, contact.LastName, contact.Email,
		contact.PhoneNumber, contact.Birthday, contact.AdditionalData,
	).Scan(&contact.Id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Contact{}, internal_errors.Conflict("Contact with this email or phone number already exists")
		}
		return domain.Contact{}, fmt.Errorf("failed to insert contact: %w", err)
	}
	return contact, nil
}

func (s *Storage) contacts(q Querier, userId int64, filter domain.ContactFilter) ([]domain.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM contacts WHERE user_id = $1", contactColumns)
	args := []interface{}{userId}

	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, "%"+value+"%")
		query += fmt.Sprintf(" AND %s ILIKE $%d", column, len(args))
	}
	addFilter("first_name", filter.FirstName)
	addFilter("last_name", filter.LastName)
	addFilter("email", filter.Email)

	query += " ORDER BY id"

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func (s *Storage) contact(q Querier, userId, contactId int64) (domain.Contact, error) {
	var contact domain.Contact
	query := fmt.Sprintf("SELECT %s FROM contacts WHERE id = $1 AND user_id = $2", contactColumns)
	err := q.QueryRow(query, contactId, userId).Scan(
		&contact.Id, &contact.UserId, &contact.FirstName, &contact.LastName,
		&contact.Email, &contact.PhoneNumber, &contact.Birthday, &contact.AdditionalData,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contact{}, internal_errors.NotFound("Contact not found")
		}
		return domain.Contact{}, fmt.Errorf("failed to query contact: %w", err)
	}
	return contact, nil
}

func (s *Storage) updateContact(q Querier, userId, contactId int64, patch domain.ContactPatch) (domain.Contact, error) {
	contact, err := s.contact(q, userId, contactId)
	if err != nil {
		return domain.Contact{}, err
	}

	if patch.FirstName != nil {
		contact.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		contact.LastName = *patch.LastName
	}
	if patch.Email != nil {
		contact.Email = *patch.Email
	}
	if patch.PhoneNumber != nil {
		contact.PhoneNumber = *patch.PhoneNumber
	}
	if patch.Birthday != nil {
		contact.Birthday = *patch.Birthday
	}
	if patch.AdditionalData != nil {
		contact.AdditionalData = patch.AdditionalData
	}

	_, err = q.Exec(`
        UPDATE contacts
        SET first_name = $1, last_name = $2, email = $3, phone_number = $4, birthday = $5, additional_data = $6
        WHERE id = $7 AND user_id = $8`,
		contact.FirstName, contact.LastName, contact.Email, contact.PhoneNumber,
		contact.Birthday, contact.AdditionalData, contactId, userId,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Contact{}, internal_errors.Conflict("Contact with this email or phone number already exists")
		}
		return domain.Contact{}, fmt.Errorf("failed to update contact: %w", err)
	}
	return contact, nil
}

func (s *Storage) deleteContact(q Querier, userId, contactId int64) (domain.Contact, error) {
	var contact domain.Contact
	query := fmt.Sprintf("DELETE FROM contacts WHERE id = $1 AND user_id = $2 RETURNING %s", contactColumns)
	err := q.QueryRow(query, contactId, userId).Scan(
		&contact.Id, &contact.UserId, &contact.FirstName, &contact.LastName,
		&contact.Email, &contact.PhoneNumber, &contact.Birthday, &contact.AdditionalData,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Contact{}, internal_errors.NotFound("Contact not found")
		}
		return domain.Contact{}, fmt.Errorf("failed to delete contact: %w", err)
	}
	return contact, nil
}

func (s *Storage) contactsWithBirthdays(q Querier, userId int64, days []domain.MonthDay) ([]domain.Contact, error) {
	if len(days) == 0 {
		return []domain.Contact{}, nil
	}

	args := []interface{}{userId}
	clauses := make([]string, 0, len(days))
	for _, day := range days {
		args = append(args, int(day.Month), day.Day)
		clauses = append(clauses, fmt.Sprintf(
			"(EXTRACT(MONTH FROM birthday) = $%d AND EXTRACT(DAY FROM birthday) = $%d)",
			len(args)-1, len(args)))
	}

	query := fmt.Sprintf(
		"SELECT %s FROM contacts WHERE user_id = $1 AND (%s) ORDER BY EXTRACT(MONTH FROM birthday), EXTRACT(DAY FROM birthday)",
		contactColumns, strings.Join(clauses, " OR "))

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query birthdays: %w", err)
	}
	defer rows.Close()

	return scanContacts(rows)
}

func scanContacts(rows *sql.Rows) ([]domain.Contact, error) {
	contacts := []domain.Contact{}
	for rows.Next() {
		var contact domain.Contact
		if err := rows.Scan(
			&contact.Id, &contact.UserId, &contact.FirstName, &contact.LastName,
			&contact.Email, &contact.PhoneNumber, &contact.Birthday, &contact.AdditionalData,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contacts: %w", err)
	}
	return contacts, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
