package infra

import (
	"errors"
	"net/http"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/llNABSll/customer-api/internal/apperrors"
	"github.com/llNABSll/customer-api/internal/config"
	"github.com/llNABSll/customer-api/internal/event"
	"github.com/llNABSll/customer-api/internal/handlers"
	"github.com/llNABSll/customer-api/internal/repository"
	"github.com/llNABSll/customer-api/internal/service"
	"github.com/llNABSll/customer-api/internal/validation"
	"github.com/llNABSll/customer-api/pkg/db/transactor"
	"github.com/sirupsen/logrus"
)

// Router builds echo application with all routes and middleware wired
func Router(pgPool *pgxpool.Pool, publisher event.Publisher, cfg config.EventsCfg, logger *logrus.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true

	enLocale := en.New()
	unvTranslator := ut.New(enLocale, enLocale)
	trans, ok := unvTranslator.GetTranslator("en")
	if !ok {
		return nil, errors.New("failed to build echo validator because of missing en translations")
	}

	validate := validator.New()
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	e.Validator = validation.Echo(validate, trans)
	e.HTTPErrorHandler = NewHTTPErrorHandler(e, logger)

	// Middleware
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string {
			return uuid.NewString()
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.WithFields(logrus.Fields{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency":    v.Latency.String(),
				"request_id": v.RequestID,
			}).Info("request handled")
			return nil
		},
	}))

	// Transactors
	trx := transactor.NewPgxTransactor(pgPool)
	txExecutor := transactor.NewPgxWithinTransactionExecutor(pgPool)

	// Repositories
	customerRps := repository.NewPostgresCustomerRepository(txExecutor)

	// Services
	customerSvc := service.NewCustomerService(customerRps, publisher, trx, cfg.Strict, logger)

	// Handlers
	customerHandler := handlers.NewCustomerHTTPHandler(customerSvc)
	healthHandler := handlers.NewHealthHTTPHandler(pgPool, publisher)

	// API routes
	e.GET("/health", healthHandler.Get)

	api := e.Group("/api")

	clientsAPI := api.Group("/clients")
	clientsAPI.GET("", customerHandler.GetAll)
	clientsAPI.GET("/:id", customerHandler.Get)
	clientsAPI.POST("", customerHandler.Post)
	clientsAPI.PUT("/:id", customerHandler.Put)
	clientsAPI.DELETE("/:id", customerHandler.DeleteByID)

	return e, nil
}

// NewHTTPErrorHandler maps service error taxonomy to http statuses: payload
// and business validation to 422, missing entries to 404, failed event
// publication in strict mode to 503, anything unclassified to 500 without
// leaking internals
func NewHTTPErrorHandler(e *echo.Echo, logger logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var pldErr *validation.PayloadError
		var vldErr *apperrors.ValidationErr
		var notFoundErr *apperrors.EntryNotFoundErr
		var pubErr *apperrors.EventPublicationErr
		var httpErr *echo.HTTPError

		switch {
		case errors.As(err, &pldErr):
			err = echo.NewHTTPError(http.StatusUnprocessableEntity, pldErr)
		case errors.As(err, &vldErr):
			err = echo.NewHTTPError(http.StatusUnprocessableEntity, vldErr)
		case errors.As(err, &notFoundErr):
			err = echo.NewHTTPError(http.StatusNotFound, notFoundErr.Error())
		case errors.As(err, &pubErr):
			logger.Errorf("strict events mode rejected committed write - %v", pubErr)
			err = echo.NewHTTPError(http.StatusServiceUnavailable, "event publication failed, changes are saved")
		case errors.As(err, &httpErr):
		default:
			logger.Errorf("unexpected error on %s %s - %v", c.Request().Method, c.Request().RequestURI, err)
			err = echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		}

		e.DefaultHTTPErrorHandler(err, c)
	}
}
