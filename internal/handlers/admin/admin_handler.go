// internal/handlers/admin/admin_handler.go
package admin

import (
	"net/http"
	"strconv"

	"dealdesk-service/internal/domain/merchant"
	"dealdesk-service/internal/middleware"
	"dealdesk-service/internal/pkg/response"
	dealsvc "dealdesk-service/internal/service/deal"
	merchantsvc "dealdesk-service/internal/service/merchant"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves merchant review and platform analytics.
type AdminHandler struct {
	merchantService *merchantsvc.MerchantService
	dealService     *dealsvc.DealService
}

func NewAdminHandler(merchantService *merchantsvc.MerchantService, dealService *dealsvc.DealService) *AdminHandler {
	return &AdminHandler{
		merchantService: merchantService,
		dealService:     dealService,
	}
}

func (h *AdminHandler) ListMerchants(c *gin.Context) {
	var filters merchant.MerchantListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	resp, err := h.merchantService.ListMerchants(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list merchants", err)
		return
	}

	response.Success(c, http.StatusOK, "merchants retrieved", resp)
}

func (h *AdminHandler) ApproveMerchant(c *gin.Context) {
	adminID := middleware.MustGetMerchantID(c)

	merchantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid merchant id", err)
		return
	}

	m, err := h.merchantService.ApproveMerchant(c.Request.Context(), adminID, merchantID)
	if err != nil {
		response.FromError(c, "failed to approve merchant", err)
		return
	}

	response.Success(c, http.StatusOK, "merchant approved", m)
}

func (h *AdminHandler) SuspendMerchant(c *gin.Context) {
	adminID := middleware.MustGetMerchantID(c)

	merchantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid merchant id", err)
		return
	}

	m, err := h.merchantService.SuspendMerchant(c.Request.Context(), adminID, merchantID)
	if err != nil {
		response.FromError(c, "failed to suspend merchant", err)
		return
	}

	response.Success(c, http.StatusOK, "merchant suspended", m)
}

// DealAnalytics returns platform wide deal statistics
func (h *AdminHandler) DealAnalytics(c *gin.Context) {
	stats, err := h.dealService.Stats(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to load deal analytics", err)
		return
	}

	response.Success(c, http.StatusOK, "deal analytics", stats)
}
