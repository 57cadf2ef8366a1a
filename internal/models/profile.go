package models

import "time"

// CompanyProfile holds the issuer identity printed on invoices.
// One per user, created lazily on first access; never deleted.
// InvoiceCounter backs sequential numbering and is only ever incremented.
type CompanyProfile struct {
	UserID         int       `json:"user_id"`
	Name           string    `json:"name"`
	Address        string    `json:"address"`
	LogoURL        *string   `json:"logo_url"`
	InvoiceCounter int       `json:"invoice_counter"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Default placeholders shown until the user edits their profile
const (
	DefaultProfileName    = "Votre Nom / Nom de l'entreprise"
	DefaultProfileAddress = "123 Votre Rue, 75000 Votre Ville"
)

// UpdateProfileRequest represents the request body for editing the profile
type UpdateProfileRequest struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	LogoURL *string `json:"logo_url"`
}
