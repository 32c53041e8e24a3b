package service

import (
	"context"
	"fmt"

	"github.com/llNABSll/customer-api/internal/apperrors"
	"github.com/llNABSll/customer-api/internal/event"
	"github.com/llNABSll/customer-api/internal/model"
	"github.com/llNABSll/customer-api/internal/repository"
	"github.com/llNABSll/customer-api/pkg/db/transactor"
	"github.com/sirupsen/logrus"
)

// CustomerService represents behavior for customer services
type CustomerService interface {
	FindAll(context.Context) ([]*model.Customer, error)
	FindByID(context.Context, int64) (*model.Customer, error)
	Create(context.Context, *model.Customer) (*model.Customer, error)
	Update(context.Context, *model.Customer) (*model.Customer, error)
	DeleteByID(context.Context, int64) error
}

// customerService orchestrates store mutations with domain event publication.
// Every mutation commits first, then exactly one publish attempt follows. In
// non-strict mode a failed publish is only logged and the committed write
// stands. In strict mode a failed publish surfaces EventPublicationErr to the
// caller even though the write has already been committed - deliberately, the
// write is never rolled back to match the failed response
type customerService struct {
	customerRepo repository.CustomerRepository
	publisher    event.Publisher
	trx          transactor.Transactor
	strict       bool
	logger       logrus.FieldLogger
}

// NewCustomerService builds new customerService
func NewCustomerService(
	customerRepo repository.CustomerRepository,
	publisher event.Publisher,
	trx transactor.Transactor,
	strict bool,
	logger logrus.FieldLogger,
) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		publisher:    publisher,
		trx:          trx,
		strict:       strict,
		logger:       logger,
	}
}

func (s *customerService) FindAll(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.customerRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *customerService) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if c == nil {
		return nil, apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %d doesn't exist", id))
	}
	return c, nil
}

func (s *customerService) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if err := s.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Infof("customer %d has been created", c.ID)

	if err := s.publish(ctx, event.New(event.TypeCustomerCreated, c)); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) Update(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	// find and update run within single transaction to serialize
	// conflicting mutations on the same customer
	err := s.trx.WithinTransaction(ctx, func(txCtx context.Context) error {
		existing, err := s.customerRepo.FindByID(txCtx, c.ID)
		if err != nil {
			return err
		}

		if existing == nil {
			return apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %d doesn't exist", c.ID))
		}

		affected, err := s.customerRepo.Update(txCtx, c)
		if err != nil {
			return err
		}

		// row may vanish between find and update under a concurrent delete
		if !affected {
			return apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %d doesn't exist", c.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Infof("customer %d has been updated", c.ID)

	if err := s.publish(ctx, event.New(event.TypeCustomerUpdated, c)); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) DeleteByID(ctx context.Context, id int64) error {
	c, err := s.customerRepo.DeleteByID(ctx, id)
	if err != nil {
		return err
	}

	if c == nil {
		return apperrors.NewEntryNotFoundErr(fmt.Sprintf("customer with id %d doesn't exist", id))
	}
	s.logger.Infof("customer %d has been deleted", id)

	return s.publish(ctx, event.New(event.TypeCustomerDeleted, c))
}

// publish attempts event publication once per committed mutation. Caller
// cancellation never suppresses the attempt - the write is already durable,
// so the event is published on a detached context
func (s *customerService) publish(ctx context.Context, e event.Event) error {
	outcome := s.publisher.Publish(context.WithoutCancel(ctx), e)
	if outcome.Delivered() {
		return nil
	}

	if !s.strict {
		s.logger.WithError(outcome.Reason).Warnf("publish of %s event %s, write is kept", e.Type, outcome.Status)
		return nil
	}
	return apperrors.NewEventPublicationErr(e.Type, outcome.Reason)
}
