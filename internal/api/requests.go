package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"unicode"

	"carehub/internal/domain"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// profileUpdate carries the writable profile sections. Pointer fields
// distinguish "absent" from "set to zero value"; absent sections keep their
// stored contents.
type profileUpdate struct {
	Bio              *string                      `json:"bio"`
	Address          *domain.Address              `json:"address"`
	EmergencyContact *domain.EmergencyContact     `json:"emergencyContact"`
	Preferences      *domain.Preferences          `json:"preferences"`
	Caregiver        *domain.CaregiverDetails     `json:"caregiverDetails"`
	CareRecipient    *domain.CareRecipientDetails `json:"careRecipientDetails"`
}

var errBadJSON = errors.New("malformed request body")

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return errBadJSON
	}
	return nil
}

const passwordSpecials = "@$!%*?&#^()-_=+[]{};:,.<>"

// validPassword enforces the minimum password policy: at least 8 characters
// with an upper case letter, a lower case letter, a digit and a special
// character.
func validPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(passwordSpecials, r):
			special = true
		}
	}
	return upper && lower && digit && special
}
