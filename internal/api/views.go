package api

import (
	"time"

	"carehub/internal/domain"
)

// accountView is the secret-free account representation returned by /me and
// the admin listing.
type accountView struct {
	ID        string               `json:"id"`
	Email     string               `json:"email"`
	FirstName string               `json:"firstName"`
	LastName  string               `json:"lastName"`
	Role      domain.Role          `json:"role"`
	Status    domain.AccountStatus `json:"status"`
	LastLogin *time.Time           `json:"lastLogin,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

func viewOf(a domain.Account) accountView {
	return accountView{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
		Status:    a.Status,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
