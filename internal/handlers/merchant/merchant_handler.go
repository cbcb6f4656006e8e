// internal/handlers/merchant/merchant_handler.go
package merchant

import (
	"net/http"

	"dealdesk-service/internal/domain/merchant"
	"dealdesk-service/internal/middleware"
	"dealdesk-service/internal/pkg/response"
	merchantsvc "dealdesk-service/internal/service/merchant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MerchantHandler struct {
	merchantService *merchantsvc.MerchantService
	logger          *zap.Logger
}

func NewMerchantHandler(merchantService *merchantsvc.MerchantService, logger *zap.Logger) *MerchantHandler {
	return &MerchantHandler{
		merchantService: merchantService,
		logger:          logger,
	}
}

// ========== Registration & Login ==========

// Register handles merchant sign up (public endpoint)
func (h *MerchantHandler) Register(c *gin.Context) {
	var req merchant.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	m, err := h.merchantService.Register(c.Request.Context(), &req)
	if err != nil {
		h.logger.Warn("registration failed", zap.String("email", req.Email), zap.Error(err))
		response.FromError(c, "registration failed", err)
		return
	}

	response.Success(c, http.StatusCreated, "registration successful", m)
}

func (h *MerchantHandler) Login(c *gin.Context) {
	var req merchant.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}
	req.IPAddress = c.ClientIP()

	resp, err := h.merchantService.Login(c.Request.Context(), &req, c.GetHeader("User-Agent"))
	if err != nil {
		h.logger.Warn("login failed",
			zap.String("email", req.Email),
			zap.String("ip", req.IPAddress),
			zap.Error(err),
		)
		response.FromError(c, "login failed", err)
		return
	}

	h.logger.Info("merchant logged in", zap.Int64("merchant_id", resp.Merchant.ID))
	response.Success(c, http.StatusOK, "login successful", resp)
}

// Logout handles merchant logout (requires auth)
func (h *MerchantHandler) Logout(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.merchantService.Logout(c.Request.Context(), merchantID, jti); err != nil {
		h.logger.Error("logout failed", zap.Int64("merchant_id", merchantID), zap.Error(err))
		response.FromError(c, "logout failed", err)
		return
	}

	response.Success(c, http.StatusOK, "logout successful", nil)
}

// ========== Profile & Onboarding ==========

func (h *MerchantHandler) GetMe(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	m, err := h.merchantService.GetProfile(c.Request.Context(), merchantID)
	if err != nil {
		response.FromError(c, "failed to get profile", err)
		return
	}

	response.Success(c, http.StatusOK, "profile retrieved", m)
}

func (h *MerchantHandler) UpdateBusinessProfile(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req merchant.BusinessProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	m, err := h.merchantService.UpdateBusinessProfile(c.Request.Context(), merchantID, &req)
	if err != nil {
		response.FromError(c, "failed to update business profile", err)
		return
	}

	response.Success(c, http.StatusOK, "business profile updated", m)
}

func (h *MerchantHandler) UpdateLocation(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req merchant.LocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	m, err := h.merchantService.UpdateLocation(c.Request.Context(), merchantID, &req)
	if err != nil {
		response.FromError(c, "failed to update location", err)
		return
	}

	response.Success(c, http.StatusOK, "location updated", m)
}

func (h *MerchantHandler) CompleteOnboarding(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	m, err := h.merchantService.CompleteOnboarding(c.Request.Context(), merchantID)
	if err != nil {
		response.FromError(c, "failed to complete onboarding", err)
		return
	}

	response.Success(c, http.StatusOK, "onboarding submitted for review", m)
}
