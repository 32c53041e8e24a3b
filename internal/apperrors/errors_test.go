package apperrors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidationErrMarshalsTargetAndMessage(t *testing.T) {
	err := NewValidationErr("email", "email is mandatory")
	require.Equal(t, "email is mandatory", err.Error())

	encoded, mErr := json.Marshal(err)
	require.NoError(t, mErr)
	require.JSONEq(t, `{"target":"email","message":"email is mandatory"}`, string(encoded))
}

func TestEntryNotFoundErrMessage(t *testing.T) {
	err := NewEntryNotFoundErr("customer with id 42 doesn't exist")
	require.Equal(t, "customer with id 42 doesn't exist", err.Error())
}

func TestEventPublicationErrWrapsReason(t *testing.T) {
	reason := errors.New("broker is unreachable")
	err := NewEventPublicationErr("customer.created", reason)

	require.Contains(t, err.Error(), "customer.created")
	require.Contains(t, err.Error(), "broker is unreachable")
	require.ErrorIs(t, err, reason, "underlying reason must be reachable via unwrap")
}
