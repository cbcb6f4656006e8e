// internal/domain/menu/entity.go
package menu

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
)

type MenuItem struct {
	ID          string         `json:"id" db:"id"`
	MerchantID  int64          `json:"merchant_id" db:"merchant_id"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	Price       float64        `json:"price" db:"price"`
	Category    sql.NullString `json:"category,omitempty" db:"category"`
	ImageURL    sql.NullString `json:"image_url,omitempty" db:"image_url"`
	IsAvailable bool           `json:"is_available" db:"is_available"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}

// MenuCollection is a merchant-curated group of menu items that can be
// attached to a deal in one step.
type MenuCollection struct {
	ID          string         `json:"id" db:"id"`
	MerchantID  int64          `json:"merchant_id" db:"merchant_id"`
	Name        string         `json:"name" db:"name"`
	Description sql.NullString `json:"description,omitempty" db:"description"`
	ItemIDs     pq.StringArray `json:"menu_item_ids" db:"menu_item_ids"`
	Items       []MenuItem     `json:"items,omitempty" db:"-"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at" db:"updated_at"`
}
