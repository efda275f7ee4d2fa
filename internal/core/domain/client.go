package domain

// DefaultClientCountry is applied when a client is created without a country.
const DefaultClientCountry = "US"

// Client is a customer of an owner that invoices are billed to.
type Client struct {
	ClientID string  `json:"clientID"` // Primary Key (UUID)
	OwnerID  string  `json:"ownerID"`  // FK -> users.user_id, immutable
	Name     string  `json:"name"`
	Email    string  `json:"email"` // Unique per owner
	Phone    *string `json:"phone,omitempty"`
	Company  *string `json:"company,omitempty"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	ZipCode  *string `json:"zipCode,omitempty"`
	Country  string  `json:"country"`
	Notes    *string `json:"notes,omitempty"`
	AuditFields
}

// DisplayName prefers the company name when present.
func (c Client) DisplayName() string {
	if c.Company != nil && *c.Company != "" {
		return *c.Company
	}
	return c.Name
}
