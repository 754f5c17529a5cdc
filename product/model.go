// Package product is the CRUD surface guarded by the auth core. The
// business fields carry no auth semantics; the interesting part is that
// every route is gated by the access policy.
package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Product is the protected resource entity
type Product struct {
	bun.BaseModel `bun:"table:products,alias:prd"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name"`
	Description   string     `bun:"description" json:"description"`
	Price         float64    `bun:"price,notnull" json:"price"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}
