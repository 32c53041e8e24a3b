package infra

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/labstack/echo/v4"
	"github.com/llNABSll/customer-api/internal/apperrors"
	"github.com/llNABSll/customer-api/internal/validation"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func payloadError(t *testing.T) error {
	t.Helper()

	enLocale := en.New()
	trans, ok := ut.New(enLocale, enLocale).GetTranslator("en")
	require.True(t, ok, "en translator must be present")

	validate := validator.New()
	require.NoError(t, enTranslations.RegisterDefaultTranslations(validate, trans))

	err := validation.Echo(validate, trans).Validate(&struct {
		Name string `validate:"required"`
	}{})
	require.Error(t, err, "empty struct must violate required tag")
	return err
}

func TestHTTPErrorHandlerMapping(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e := echo.New()
	handler := NewHTTPErrorHandler(e, logger)

	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			name:   "payload violations respond 422",
			err:    payloadError(t),
			status: http.StatusUnprocessableEntity,
			body:   "errors",
		},
		{
			name:   "business validation responds 422",
			err:    apperrors.NewValidationErr("email", "email is mandatory"),
			status: http.StatusUnprocessableEntity,
			body:   "email is mandatory",
		},
		{
			name:   "missing entry responds 404",
			err:    apperrors.NewEntryNotFoundErr("customer with id 42 doesn't exist"),
			status: http.StatusNotFound,
			body:   "doesn't exist",
		},
		{
			name:   "failed event publication responds 503",
			err:    apperrors.NewEventPublicationErr("customer.created", errors.New("broker is unreachable")),
			status: http.StatusServiceUnavailable,
			body:   "changes are saved",
		},
		{
			name:   "echo http error passes through",
			err:    echo.NewHTTPError(http.StatusTeapot, "short and stout"),
			status: http.StatusTeapot,
			body:   "short and stout",
		},
		{
			name:   "unclassified error responds 500 without internals",
			err:    errors.New("pq: relation customers does not exist"),
			status: http.StatusInternalServerError,
			body:   http.StatusText(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/clients", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tt.err, c)

			require.Equal(t, tt.status, rec.Code, "unexpected response status")
			require.Contains(t, rec.Body.String(), tt.body, "unexpected response body")
		})
	}
}

func TestHTTPErrorHandlerDoesNotLeakStorageDetails(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	e := echo.New()
	handler := NewHTTPErrorHandler(e, logger)

	req := httptest.NewRequest(http.MethodPost, "/api/clients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.New("connect: connection refused on 10.0.0.5:5432"), c)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "5432", "storage details must not leak to the caller")
}
