package domain

// Contact belongs to exactly one user. Reads and writes are always scoped
// by (Id, UserId) so a contact is never visible outside its owner.
// Email and PhoneNumber are unique across ALL users, not per owner.
type Contact struct {
	Id             int64   `json:"id"`
	UserId         int64   `json:"user_id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	Birthday       Date    `json:"birthday"`
	AdditionalData *string `json:"additional_data"`
}

// ContactDraft carries the fields a caller supplies when creating a contact.
type ContactDraft struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	PhoneNumber    string  `json:"phone_number"`
	Birthday       Date    `json:"birthday"`
	AdditionalData *string `json:"additional_data"`
}

// ContactFilter narrows a contact listing. Empty fields do not filter;
// set fields match case-insensitively as substrings.
type ContactFilter struct {
	FirstName string
	LastName  string
	Email     string
}

// ContactPatch is a partial update: nil fields are left untouched.
type ContactPatch struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Email          *string `json:"email"`
	PhoneNumber    *string `json:"phone_number"`
	Birthday       *Date   `json:"birthday"`
	AdditionalData *string `json:"additional_data"`
}
