// internal/domain/menu/dto.go
package menu

type CreateMenuItemRequest struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
	Category    string  `json:"category" binding:"omitempty,max=100"`
	ImageURL    string  `json:"image_url" binding:"omitempty,url"`
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	Category    *string  `json:"category" binding:"omitempty,max=100"`
	IsAvailable *bool    `json:"is_available"`
}

type CreateCollectionRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Description string   `json:"description"`
	MenuItemIDs []string `json:"menu_item_ids" binding:"required,min=1"`
}

type MenuItemFilters struct {
	Category      string `form:"category"`
	Search        string `form:"search"`
	AvailableOnly bool   `form:"available_only"`
}
