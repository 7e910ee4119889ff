package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rolodex-dev/rolodex/internal/domain"
	internal_errors "github.com/rolodex-dev/rolodex/internal/errors"
	"github.com/rolodex-dev/rolodex/internal/middleware"
)

type contactRequest struct {
	FirstName      string      `validate:"required,max=64" json:"first_name"`
	LastName       string      `validate:"required,max=64" json:"last_name"`
	Email          string      `validate:"required,email" json:"email"`
	PhoneNumber    string      `validate:"required,max=32" json:"phone_number"`
	Birthday       domain.Date `json:"birthday"`
	AdditionalData *string     `json:"additional_data"`
}

type contactPatchRequest struct {
	FirstName      *string      `validate:"omitempty,max=64" json:"first_name"`
	LastName       *string      `validate:"omitempty,max=64" json:"last_name"`
	Email          *string      `validate:"omitempty,email" json:"email"`
	PhoneNumber    *string      `validate:"omitempty,max=32" json:"phone_number"`
	Birthday       *domain.Date `json:"birthday"`
	AdditionalData *string      `json:"additional_data"`
}

func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	var req contactRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}
	if req.Birthday.IsZero() {
		writeErrorAndStatusCode(w, internal_errors.BadRequest("Birthday is required"))
		return
	}

	contact, err := h.contacts.Create(r.Context(), user.Id, domain.ContactDraft{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       req.Birthday,
		AdditionalData: req.AdditionalData,
	})
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, contact)
}

func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	filter := domain.ContactFilter{
		FirstName: query.Get("first_name"),
		LastName:  query.Get("last_name"),
		Email:     query.Get("email"),
	}

	contacts, err := h.contacts.List(r.Context(), user.Id, filter)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func (h *Handler) GetContact(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	contactId, err := contactIdParam(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	contact, err := h.contacts.Get(r.Context(), user.Id, contactId)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	contactId, err := contactIdParam(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	var req contactPatchRequest
	if err := decodeValidate(r.Body, &req); err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	contact, err := h.contacts.Update(r.Context(), user.Id, contactId, domain.ContactPatch{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		PhoneNumber:    req.PhoneNumber,
		Birthday:       req.Birthday,
		AdditionalData: req.AdditionalData,
	})
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	contactId, err := contactIdParam(r)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	contact, err := h.contacts.Delete(r.Context(), user.Id, contactId)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contact)
}

func (h *Handler) UpcomingBirthdays(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		http.Error(w, "Please sign-in", http.StatusUnauthorized)
		return
	}

	contacts, err := h.contacts.UpcomingBirthdays(r.Context(), user.Id)
	if err != nil {
		writeErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func contactIdParam(r *http.Request) (int64, error) {
	contactId, err := strconv.ParseInt(chi.URLParam(r, "contactId"), 10, 64)
	if err != nil {
		return 0, internal_errors.BadRequest("Invalid contact id: must be an integer")
	}
	return contactId, nil
}
