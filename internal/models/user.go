package models

import (
	"time"
)

// User is a row of the users table: an owner account and its business settings.
type User struct {
	UserID       string  `db:"user_id"`
	Name         string  `db:"name"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	CompanyName  *string `db:"company_name"`
	Address      *string `db:"address"`
	City         *string `db:"city"`
	State        *string `db:"state"`
	ZipCode      *string `db:"zip_code"`
	Country      *string `db:"country"`
	Phone        *string `db:"phone"`
	TaxID        *string `db:"tax_id"`
	Currency     string  `db:"currency"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
