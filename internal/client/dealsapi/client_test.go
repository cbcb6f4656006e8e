package dealsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dealdesk-service/internal/domain/deal"

	"github.com/gin-gonic/gin"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/deals", func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer tok" {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "missing authorization token"})
			return
		}
		var req deal.PublishDealRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request"})
			return
		}
		if req.Title == "" {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "deal validation failed",
				"error":   "deal validation failed: Title is required",
				"data":    deal.ValidationResult{Errors: []string{"Title is required"}, Warnings: []string{}},
			})
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success": true,
			"message": "deal published",
			"data": gin.H{
				"id": 9, "deal_code": "DL-1", "title": req.Title, "deal_type": "STANDARD",
				"status": "active", "final_value": 12.5, "terms": gin.H{},
			},
		})
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestPublish(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := New(srv.URL, "tok", 5*time.Second)
		got, err := c.Publish(ctx, &deal.PublishDealRequest{Title: "Lunch"})
		if err != nil {
			t.Fatal(err)
		}
		if got.ID != 9 || got.DealCode != "DL-1" || got.FinalValue != 12.5 || got.Status != deal.DealStatusActive {
			t.Fatalf("deal = %+v", got)
		}
	})

	t.Run("validation failure", func(t *testing.T) {
		c := New(srv.URL, "tok", 5*time.Second)
		_, err := c.Publish(ctx, &deal.PublishDealRequest{})
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("err = %v, want *APIError", err)
		}
		if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Validation == nil || len(apiErr.Validation.Errors) != 1 {
			t.Fatalf("apiErr = %+v", apiErr)
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		c := New(srv.URL, "", 5*time.Second)
		_, err := c.Publish(ctx, &deal.PublishDealRequest{Title: "Lunch"})
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
			t.Fatalf("err = %v", err)
		}
		if msg := deal.PublishErrorMessage(apiErr.Error()); msg != "Your session has expired. Please sign in again." {
			t.Errorf("mapped message = %q", msg)
		}
	})
}
