package models

// Client is a row of the clients table.
type Client struct {
	ClientID string  `db:"client_id"`
	OwnerID  string  `db:"owner_id"`
	Name     string  `db:"name"`
	Email    string  `db:"email"`
	Phone    *string `db:"phone"`
	Company  *string `db:"company"`
	Address  *string `db:"address"`
	City     *string `db:"city"`
	State    *string `db:"state"`
	ZipCode  *string `db:"zip_code"`
	Country  string  `db:"country"`
	Notes    *string `db:"notes"`
	AuditFields
}
