package domain

import "time"

// DefaultSenderName is used on outgoing documents when an owner has not configured a name.
const DefaultSenderName = "Your Business"

// User represents an owner account: the business issuing invoices.
type User struct {
	UserID       string `json:"userID"` // Primary Key (e.g., UUID)
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	BusinessSettings
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"` // Used for soft delete
}

// BusinessSettings is the sender profile printed on invoices and emails.
type BusinessSettings struct {
	CompanyName *string `json:"companyName,omitempty"`
	Address     *string `json:"address,omitempty"`
	City        *string `json:"city,omitempty"`
	State       *string `json:"state,omitempty"`
	ZipCode     *string `json:"zipCode,omitempty"`
	Country     *string `json:"country,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	TaxID       *string `json:"taxId,omitempty"`
	Currency    string  `json:"currency"`
}

// SenderName returns the company name, then the user's name, then DefaultSenderName.
func (u *User) SenderName() string {
	if u == nil {
		return DefaultSenderName
	}
	if u.CompanyName != nil && *u.CompanyName != "" {
		return *u.CompanyName
	}
	if u.Name != "" {
		return u.Name
	}
	return DefaultSenderName
}

// SenderInfo is the snapshot of the owner used when rendering documents.
type SenderInfo struct {
	Name     string           `json:"name"`
	Email    string           `json:"email"`
	Settings BusinessSettings `json:"settings"`
}

// ToSenderInfo snapshots the owner for rendering.
func (u *User) ToSenderInfo() SenderInfo {
	if u == nil {
		return SenderInfo{Name: DefaultSenderName}
	}
	return SenderInfo{Name: u.SenderName(), Email: u.Email, Settings: u.BusinessSettings}
}

// GoogleIdentity is the verified profile from a Google ID token.
type GoogleIdentity struct {
	Subject       string
	Email         string
	Name          string
	EmailVerified bool
}
