package product

import (
	"context"
	"database/sql"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository persists products
type Repository interface {
	FindAll(ctx context.Context) ([]*Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	Create(ctx context.Context, record *Product) (*Product, error)
	Update(ctx context.Context, record *Product) (*Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type products struct {
	repository.Repository[*Product]
	db *bun.DB
}

var _ Repository = (*products)(nil)

// NewRepository builds the bun-backed products repository
func NewRepository(db *bun.DB) Repository {
	repo := repository.NewRepository[*Product](db, repository.ModelHandlers[*Product]{
		NewRecord: func() *Product { return &Product{} },
		GetID: func(p *Product) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Product, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "name"
		},
	})

	return &products{
		Repository: repo,
		db:         db,
	}
}

// ErrProductNotFound is returned for lookups that miss
var ErrProductNotFound = errors.New("product not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound).
	WithTextCode("PRODUCT_NOT_FOUND")

// IsNotFound reports whether err is the repository's miss error
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, sql.ErrNoRows) || repository.IsRecordNotFound(err) {
		return true
	}

	var richErr *errors.Error
	return errors.As(err, &richErr) && richErr.TextCode == "PRODUCT_NOT_FOUND"
}

// FindAll returns every product ordered by creation time
func (r *products) FindAll(ctx context.Context) ([]*Product, error) {
	var records []*Product

	err := r.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to list products")
	}

	if records == nil {
		records = []*Product{}
	}

	return records, nil
}

// FindByID returns the product or ErrProductNotFound
func (r *products) FindByID(ctx context.Context, id uuid.UUID) (*Product, error) {
	record, err := r.Repository.GetByID(ctx, id.String())
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to load product")
	}

	return record, nil
}

// Create inserts a new product
func (r *products) Create(ctx context.Context, record *Product) (*Product, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	created, err := r.Repository.Create(ctx, record)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create product")
	}

	return created, nil
}

// Update persists changes to an existing product
func (r *products) Update(ctx context.Context, record *Product) (*Product, error) {
	now := time.Now()
	record.UpdatedAt = &now

	updated, err := r.Repository.Update(ctx, record, repository.UpdateByID(record.ID.String()))
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update product")
	}

	return updated, nil
}

// Delete removes the product by id. The generic surface deletes by record,
// so this drops to bun the way the users repository does for its
// username lookup.
func (r *products) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.NewDelete().
		Model((*Product)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete product")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrProductNotFound
	}

	return nil
}
