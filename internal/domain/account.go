package domain

import "time"

// AccountStatus is the lifecycle state of an account.
type AccountStatus string

const (
	StatusActive    AccountStatus = "active"
	StatusPending   AccountStatus = "pending"
	StatusSuspended AccountStatus = "suspended"
)

// Account is the persisted user document. PasswordHash and the reset-token
// fields never leave the service; API responses use Summary.
type Account struct {
	ID           string        `json:"id"`
	Email        string        `json:"email"`
	PasswordHash string        `json:"password_hash"`
	FirstName    string        `json:"first_name"`
	LastName     string        `json:"last_name"`
	Role         Role          `json:"role"`
	Status       AccountStatus `json:"status"`

	LastLogin *time.Time `json:"last_login,omitempty"`

	// Password-reset state. The stored value is a sha256 hash of the token
	// mailed to the user; the plaintext token is never persisted.
	ResetTokenHash    string     `json:"reset_token_hash,omitempty"`
	ResetTokenExpires *time.Time `json:"reset_token_expires,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Active reports whether the account may authenticate.
func (a Account) Active() bool { return a.Status == StatusActive }

// UserSummary is the caller-facing view of an account.
type UserSummary struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"firstName"`
	LastName  string     `json:"lastName"`
	Role      Role       `json:"role"`
	Status    AccountStatus `json:"status"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// Summary strips credentials and reset state from the account.
func (a Account) Summary() UserSummary {
	return UserSummary{
		ID:        a.ID,
		Email:     a.Email,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Role:      a.Role,
		Status:    a.Status,
		LastLogin: a.LastLogin,
	}
}

// Caller is the verified, request-scoped identity extracted from a
// credential after the auth gate succeeds. It proves role-level possession
// only: self/assigned-scope checks remain the handler's responsibility
// (compare Caller.ID against the resource owner).
type Caller struct {
	ID    string
	Email string
	Role  Role
}

// Address is a postal address inside a profile document.
type Address struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country,omitempty"`
}

// EmergencyContact is the person to reach in an emergency.
type EmergencyContact struct {
	Name         string `json:"name,omitempty"`
	Relationship string `json:"relationship,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// NotificationPreferences selects delivery channels.
type NotificationPreferences struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Push  bool `json:"push"`
}

// Preferences holds per-user display and notification settings.
type Preferences struct {
	Notifications NotificationPreferences `json:"notifications"`
	Timezone      string                  `json:"timezone,omitempty"`
	Language      string                  `json:"language,omitempty"`
}

// CaregiverDetails is the caregiver-specific profile section.
type CaregiverDetails struct {
	Certifications    []string `json:"certifications,omitempty"`
	Specialties       []string `json:"specialties,omitempty"`
	YearsOfExperience int      `json:"yearsOfExperience,omitempty"`
}

// CareRecipientDetails is the care-recipient-specific profile section.
// Mobility is one of: independent, assistive_device, wheelchair, bedbound.
type CareRecipientDetails struct {
	PrimaryConditions  []string   `json:"primaryConditions,omitempty"`
	PrimaryCaregiverID string     `json:"primaryCaregiver,omitempty"`
	DateOfBirth        *time.Time `json:"dateOfBirth,omitempty"`
	Mobility           string     `json:"mobility,omitempty"`
}

// Profile is the per-account profile document, keyed by AccountID.
type Profile struct {
	AccountID        string               `json:"accountId"`
	Bio              string               `json:"bio,omitempty"`
	Address          Address              `json:"address"`
	EmergencyContact EmergencyContact     `json:"emergencyContact"`
	Preferences      Preferences          `json:"preferences"`
	Caregiver        CaregiverDetails     `json:"caregiverDetails"`
	CareRecipient    CareRecipientDetails `json:"careRecipientDetails"`
	CreatedAt        time.Time            `json:"createdAt"`
	UpdatedAt        time.Time            `json:"updatedAt"`
}

// DefaultPreferences are applied when a profile is first created.
func DefaultPreferences() Preferences {
	return Preferences{
		Notifications: NotificationPreferences{Email: true, SMS: false, Push: true},
		Timezone:      "America/New_York",
		Language:      "en",
	}
}
