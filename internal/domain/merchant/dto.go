// internal/domain/merchant/dto.go
package merchant

import "time"

type RegisterRequest struct {
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required,min=8"`
	BusinessName string `json:"business_name" binding:"omitempty,max=255"`
}

type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	IPAddress string `json:"-"`
}

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int       `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
	Merchant    *Merchant `json:"merchant"`
}

type BusinessProfileRequest struct {
	BusinessName string `json:"business_name" binding:"required,max=255"`
	Category     string `json:"category" binding:"required,max=100"`
	Phone        string `json:"phone" binding:"omitempty,max=20"`
	Description  string `json:"description" binding:"omitempty,max=1000"`
}

type LocationRequest struct {
	Address   string   `json:"address" binding:"required"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude" binding:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" binding:"required,gte=-180,lte=180"`
}

type MerchantListFilters struct {
	Status   *Status `form:"status"`
	Search   string  `form:"search"`
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}

type MerchantListResponse struct {
	Merchants  []Merchant `json:"merchants"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}
