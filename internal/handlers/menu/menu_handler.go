// internal/handlers/menu/menu_handler.go
package menu

import (
	"net/http"

	"dealdesk-service/internal/domain/menu"
	"dealdesk-service/internal/middleware"
	"dealdesk-service/internal/pkg/response"
	menusvc "dealdesk-service/internal/service/menu"

	"github.com/gin-gonic/gin"
)

type MenuHandler struct {
	menuService *menusvc.MenuService
}

func NewMenuHandler(menuService *menusvc.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// ========== Items ==========

func (h *MenuHandler) CreateItem(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req menu.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	item, err := h.menuService.CreateItem(c.Request.Context(), merchantID, &req)
	if err != nil {
		response.FromError(c, "failed to create menu item", err)
		return
	}

	response.Success(c, http.StatusCreated, "menu item created", item)
}

func (h *MenuHandler) UpdateItem(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req menu.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	item, err := h.menuService.UpdateItem(c.Request.Context(), merchantID, c.Param("id"), &req)
	if err != nil {
		response.FromError(c, "failed to update menu item", err)
		return
	}

	response.Success(c, http.StatusOK, "menu item updated", item)
}

func (h *MenuHandler) ListItems(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var filters menu.MenuItemFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	items, err := h.menuService.ListItems(c.Request.Context(), merchantID, &filters)
	if err != nil {
		response.FromError(c, "failed to list menu items", err)
		return
	}

	response.Success(c, http.StatusOK, "menu items retrieved", items)
}

// ========== Collections ==========

func (h *MenuHandler) CreateCollection(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	var req menu.CreateCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	col, err := h.menuService.CreateCollection(c.Request.Context(), merchantID, &req)
	if err != nil {
		response.FromError(c, "failed to create menu collection", err)
		return
	}

	response.Success(c, http.StatusCreated, "menu collection created", col)
}

func (h *MenuHandler) GetCollection(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	col, err := h.menuService.GetCollection(c.Request.Context(), merchantID, c.Param("id"))
	if err != nil {
		response.FromError(c, "menu collection not found", err)
		return
	}

	response.Success(c, http.StatusOK, "menu collection retrieved", col)
}

func (h *MenuHandler) ListCollections(c *gin.Context) {
	merchantID := middleware.MustGetMerchantID(c)

	cols, err := h.menuService.ListCollections(c.Request.Context(), merchantID)
	if err != nil {
		response.FromError(c, "failed to list menu collections", err)
		return
	}

	response.Success(c, http.StatusOK, "menu collections retrieved", cols)
}
