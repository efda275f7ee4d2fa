package dto

// RegisterRequest defines the data needed to create an owner account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// LoginRequest defines the credentials used to obtain an access token.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleExchangeRequest carries the authorization code from Google's consent screen.
type GoogleExchangeRequest struct {
	Code string `json:"code" binding:"required"`
}

// UpdateSettingsRequest defines the business settings an owner may change.
// Use pointers to distinguish between zero-value updates and fields not provided.
type UpdateSettingsRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	CompanyName *string `json:"companyName"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zipCode"`
	Country     *string `json:"country"`
	Phone       *string `json:"phone"`
	TaxID       *string `json:"taxId"`
	Currency    *string `json:"currency"` // One of domain.SupportedCurrencies
}
