package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/llNABSll/customer-api/internal/model"
	"github.com/llNABSll/customer-api/pkg/db/transactor"
)

// CustomerRepository represents behavior for customer repositories
type CustomerRepository interface {
	Create(context.Context, *model.Customer) error
	FindByID(context.Context, int64) (*model.Customer, error)
	FindAll(context.Context) ([]*model.Customer, error)
	Update(context.Context, *model.Customer) (bool, error)
	DeleteByID(context.Context, int64) (*model.Customer, error)
}

type postgresCustomerRepository struct {
	trx transactor.PgxWithinTransactionExecutor
}

// NewPostgresCustomerRepository builds new postgresCustomerRepository
func NewPostgresCustomerRepository(trx transactor.PgxWithinTransactionExecutor) CustomerRepository {
	return &postgresCustomerRepository{trx: trx}
}

func (r *postgresCustomerRepository) Create(ctx context.Context, c *model.Customer) error {
	q := "INSERT INTO customers(name, email, company, phone) VALUES($1, $2, $3, $4) RETURNING id"
	row := r.trx.Executor(ctx).QueryRow(ctx, q, c.Name, c.Email, c.Company, c.Phone)
	if err := row.Scan(&c.ID); err != nil {
		return err
	}
	return nil
}

func (r *postgresCustomerRepository) FindByID(ctx context.Context, id int64) (*model.Customer, error) {
	q := "SELECT id, name, email, company, phone FROM customers WHERE id = $1"
	row := r.trx.Executor(ctx).QueryRow(ctx, q, id)
	return r.scanRow(row)
}

func (r *postgresCustomerRepository) FindAll(ctx context.Context) ([]*model.Customer, error) {
	customers := make([]*model.Customer, 0)
	q := "SELECT id, name, email, company, phone FROM customers ORDER BY id"

	rows, err := r.trx.Executor(ctx).Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone); err != nil {
			return nil, err
		}
		customers = append(customers, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}

func (r *postgresCustomerRepository) Update(ctx context.Context, c *model.Customer) (bool, error) {
	q := "UPDATE customers SET name = $1, email = $2, company = $3, phone = $4 WHERE id = $5"
	comm, err := r.trx.Executor(ctx).Exec(ctx, q, c.Name, c.Email, c.Company, c.Phone, c.ID)
	if err != nil {
		return false, err
	}
	return comm.RowsAffected() > 0, nil
}

func (r *postgresCustomerRepository) DeleteByID(ctx context.Context, id int64) (*model.Customer, error) {
	q := "DELETE FROM customers WHERE id = $1 RETURNING id, name, email, company, phone"
	row := r.trx.Executor(ctx).QueryRow(ctx, q, id)
	return r.scanRow(row)
}

func (r *postgresCustomerRepository) scanRow(row pgx.Row) (*model.Customer, error) {
	var c model.Customer
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.Phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
