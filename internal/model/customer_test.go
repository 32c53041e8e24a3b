package model

import (
	"testing"

	"github.com/llNABSll/customer-api/internal/apperrors"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	company := "Initech"

	tests := []struct {
		name     string
		customer Customer
		valid    bool
	}{
		{name: "complete customer", customer: Customer{Name: "A", Email: "a@x.com", Company: &company}, valid: true},
		{name: "optional fields absent", customer: Customer{Name: "A", Email: "a@x.com"}, valid: true},
		{name: "missing name", customer: Customer{Email: "a@x.com"}},
		{name: "missing email", customer: Customer{Name: "A"}},
		{name: "empty customer", customer: Customer{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.customer.Validate()
			if tt.valid {
				require.NoError(t, err, "customer must be valid")
				return
			}

			var vldErr *apperrors.ValidationErr
			require.ErrorAs(t, err, &vldErr, "validation error must be raised")
		})
	}
}
