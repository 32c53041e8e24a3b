package model

import "github.com/llNABSll/customer-api/internal/apperrors"

// Customer is customer model entity
type Customer struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Company *string `json:"company"`
	Phone   *string `json:"phone"`
}

// Validate verifies invariants which must hold for any persisted customer,
// independently of the transport which delivered it
func (c *Customer) Validate() error {
	if c.Name == "" {
		return apperrors.NewValidationErr("name", "name is mandatory")
	}
	if c.Email == "" {
		return apperrors.NewValidationErr("email", "email is mandatory")
	}
	return nil
}
