// internal/handlers/deal/deal_handler.go
package deal

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"dealdesk-service/internal/domain/deal"
	"dealdesk-service/internal/middleware"
	xerrors "dealdesk-service/internal/pkg/errors"
	"dealdesk-service/internal/pkg/response"
	dealsvc "dealdesk-service/internal/service/deal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Service is the part of the deal service the handler drives.
type Service interface {
	CreateDraft(ctx context.Context, merchantID int64, req *deal.CreateDraftRequest) (*deal.DealDraft, error)
	GetDraft(ctx context.Context, merchantID int64, draftID string) (*deal.DealDraft, error)
	ListDrafts(ctx context.Context, merchantID int64) ([]deal.DealDraft, error)
	UpdateDraft(ctx context.Context, merchantID int64, draftID string, req *deal.UpdateDraftRequest) (*deal.DealDraft, error)
	AddItems(ctx context.Context, merchantID int64, draftID string, req *deal.AddItemsRequest) (*deal.DealDraft, error)
	AddCollection(ctx context.Context, merchantID int64, draftID, collectionID string) (*deal.DealDraft, error)
	RemoveItem(ctx context.Context, merchantID int64, draftID, itemID string) (*deal.DealDraft, error)
	SetItemPricing(ctx context.Context, merchantID int64, draftID, itemID string, req *deal.ItemPricingRequest) (*deal.DealDraft, error)
	ClearItemPricing(ctx context.Context, merchantID int64, draftID, itemID string) (*deal.DealDraft, error)
	DeleteDraft(ctx context.Context, merchantID int64, draftID string) error
	Summary(ctx context.Context, merchantID int64, draftID string) (*deal.DraftSummary, error)

	PreviewPricing(req *deal.PricingPreviewRequest) deal.PricingPreviewResponse
	Occurrences(req *deal.OccurrencesRequest) (int, error)
	ValidatePayload(ctx context.Context, merchantID int64, req *deal.PublishDealRequest) (*deal.DraftSummary, error)
	PublishDraft(ctx context.Context, merchantID int64, draftID string) (*deal.Deal, error)
	PublishPayload(ctx context.Context, merchantID int64, req *deal.PublishDealRequest) (*deal.Deal, error)

	GetDeal(ctx context.Context, merchantID, dealID int64) (*deal.Deal, error)
	ListDeals(ctx context.Context, merchantID int64, filters *deal.DealListFilters) (*deal.DealListResponse, error)
	PauseDeal(ctx context.Context, merchantID, dealID int64) (*deal.Deal, error)
	ActivateDeal(ctx context.Context, merchantID, dealID int64) (*deal.Deal, error)
	CancelDeal(ctx context.Context, merchantID, dealID int64) (*deal.Deal, error)
}

type DealHandler struct {
	dealService Service
	logger      *zap.Logger
}

func NewDealHandler(dealService Service, logger *zap.Logger) *DealHandler {
	return &DealHandler{
		dealService: dealService,
		logger:      logger,
	}
}

// ========== Drafts ==========

func (h *DealHandler) CreateDraft(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req deal.CreateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	draft, err := h.dealService.CreateDraft(c.Request.Context(), merchantID, &req)
	if err != nil {
		response.FromError(c, "failed to create draft", err)
		return
	}

	response.Success(c, http.StatusCreated, "draft created", draft)
}

func (h *DealHandler) ListDrafts(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	drafts, err := h.dealService.ListDrafts(c.Request.Context(), merchantID)
	if err != nil {
		response.FromError(c, "failed to list drafts", err)
		return
	}

	response.Success(c, http.StatusOK, "drafts retrieved", drafts)
}

func (h *DealHandler) GetDraft(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	draft, err := h.dealService.GetDraft(c.Request.Context(), merchantID, c.Param("id"))
	if err != nil {
		response.FromError(c, "draft not found", err)
		return
	}

	response.Success(c, http.StatusOK, "draft retrieved", draft)
}

func (h *DealHandler) UpdateDraft(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req deal.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	draft, err := h.dealService.UpdateDraft(c.Request.Context(), merchantID, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update draft", err)
		return
	}

	response.Success(c, http.StatusOK, "draft updated", draft)
}

func (h *DealHandler) DeleteDraft(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	if err := h.dealService.DeleteDraft(c.Request.Context(), merchantID, c.Param("id")); err != nil {
		response.FromError(c, "failed to delete draft", err)
		return
	}

	response.Success(c, http.StatusOK, "draft deleted", nil)
}

func (h *DealHandler) AddItems(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req deal.AddItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	draft, err := h.dealService.AddItems(c.Request.Context(), merchantID, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to add menu items", err)
		return
	}

	response.Success(c, http.StatusOK, "menu items added", draft)
}

func (h *DealHandler) AddCollection(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	draft, err := h.dealService.AddCollection(c.Request.Context(), merchantID, c.Param("id"), c.Param("collection_id"))
	if err != nil {
		response.FromError(c, "failed to add menu collection", err)
		return
	}

	response.Success(c, http.StatusOK, "menu collection added", draft)
}

func (h *DealHandler) RemoveItem(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	draft, err := h.dealService.RemoveItem(c.Request.Context(), merchantID, c.Param("id"), c.Param("item_id"))
	if err != nil {
		response.FromError(c, "failed to remove menu item", err)
		return
	}

	response.Success(c, http.StatusOK, "menu item removed", draft)
}

func (h *DealHandler) SetItemPricing(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req deal.ItemPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	draft, err := h.dealService.SetItemPricing(c.Request.Context(), merchantID, c.Param("id"), c.Param("item_id"), &req)
	if err != nil {
		response.FromError(c, "failed to save item pricing", err)
		return
	}

	response.Success(c, http.StatusOK, "item pricing saved", draft)
}

func (h *DealHandler) ClearItemPricing(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	draft, err := h.dealService.ClearItemPricing(c.Request.Context(), merchantID, c.Param("id"), c.Param("item_id"))
	if err != nil {
		response.FromError(c, "failed to clear item pricing", err)
		return
	}

	response.Success(c, http.StatusOK, "item pricing cleared", draft)
}

// Summary returns the pricing and validation of a draft as the review step shows it
func (h *DealHandler) Summary(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	summary, err := h.dealService.Summary(c.Request.Context(), merchantID, c.Param("id"))
	if err != nil {
		response.FromError(c, "failed to summarize draft", err)
		return
	}

	response.Success(c, http.StatusOK, "draft summary", summary)
}

// ========== Publishing ==========

func (h *DealHandler) PublishDraft(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	published, err := h.dealService.PublishDraft(c.Request.Context(), merchantID, c.Param("id"))
	if err != nil {
		h.publishFailed(c, merchantID, err)
		return
	}

	response.Success(c, http.StatusCreated, "deal published", published)
}

// PublishPayload publishes a complete deal in one request
func (h *DealHandler) PublishPayload(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req deal.PublishDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	published, err := h.dealService.PublishPayload(c.Request.Context(), merchantID, &req)
	if err != nil {
		h.publishFailed(c, merchantID, err)
		return
	}

	response.Success(c, http.StatusCreated, "deal published", published)
}

// publishFailed reports a failed publish. Validation failures carry the
// full result; everything else gets a merchant friendly message.
func (h *DealHandler) publishFailed(c *gin.Context, merchantID int64, err error) {
	var verr *deal.ValidationError
	if errors.As(err, &verr) {
		response.Error(c, http.StatusUnprocessableEntity, "deal validation failed", err, verr.Result)
		return
	}

	status := response.StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("failed to publish deal", zap.Int64("merchant_id", merchantID), zap.Error(err))
		response.Error(c, status, deal.DefaultPublishErrorMessage, xerrors.ErrInternal)
		return
	}
	response.Error(c, status, deal.PublishErrorMessage(err.Error()), err)
}

func (h *DealHandler) ValidatePayload(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req deal.PublishDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	summary, err := h.dealService.ValidatePayload(c.Request.Context(), merchantID, &req)
	if err != nil {
		response.FromError(c, "failed to validate deal", err)
		return
	}

	response.Success(c, http.StatusOK, "deal validated", summary)
}

func (h *DealHandler) PreviewPricing(c *gin.Context) {
	var req deal.PricingPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	response.Success(c, http.StatusOK, "pricing preview", h.dealService.PreviewPricing(&req))
}

func (h *DealHandler) Occurrences(c *gin.Context) {
	var req deal.OccurrencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	n, err := h.dealService.Occurrences(&req)
	if err != nil {
		response.FromError(c, "failed to count occurrences", err)
		return
	}

	response.Success(c, http.StatusOK, "occurrences counted", gin.H{"occurrences": n})
}

// DealTypes lists the supported deal types and the Redeem Now presets
func (h *DealHandler) DealTypes(c *gin.Context) {
	response.Success(c, http.StatusOK, "deal types", gin.H{
		"deal_types":         deal.DealTypes,
		"redeem_now_presets": dealsvc.RedeemNowPresets,
	})
}

// ========== Published deals ==========

func (h *DealHandler) ListDeals(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var filters deal.DealListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	resp, err := h.dealService.ListDeals(c.Request.Context(), merchantID, &filters)
	if err != nil {
		response.FromError(c, "failed to list deals", err)
		return
	}

	response.Success(c, http.StatusOK, "deals retrieved", resp)
}

func (h *DealHandler) GetDeal(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	dealID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid deal id", err)
		return
	}

	d, err := h.dealService.GetDeal(c.Request.Context(), merchantID, dealID)
	if err != nil {
		response.FromError(c, "deal not found", err)
		return
	}

	response.Success(c, http.StatusOK, "deal retrieved", d)
}

func (h *DealHandler) PauseDeal(c *gin.Context) {
	h.changeStatus(c, "deal paused", h.dealService.PauseDeal)
}

func (h *DealHandler) ActivateDeal(c *gin.Context) {
	h.changeStatus(c, "deal activated", h.dealService.ActivateDeal)
}

func (h *DealHandler) CancelDeal(c *gin.Context) {
	h.changeStatus(c, "deal cancelled", h.dealService.CancelDeal)
}

func (h *DealHandler) changeStatus(c *gin.Context, message string, fn func(context.Context, int64, int64) (*deal.Deal, error)) {
	merchantID := middleware.MustGetMerchantID(c)

	dealID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ValidationError(c, "invalid deal id", err)
		return
	}

	d, err := fn(c.Request.Context(), merchantID, dealID)
	if err != nil {
		response.FromError(c, "failed to change deal status", err)
		return
	}

	response.Success(c, http.StatusOK, message, d)
}
