// internal/service/merchant/onboarding.go
package merchant

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dealdesk-service/internal/domain/merchant"
	xerrors "dealdesk-service/internal/pkg/errors"

	"go.uber.org/zap"
)

func (s *MerchantService) GetProfile(ctx context.Context, merchantID int64) (*merchant.Merchant, error) {
	m, err := s.repo.FindByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return m, nil
}

// UpdateBusinessProfile saves the business details step
func (s *MerchantService) UpdateBusinessProfile(ctx context.Context, merchantID int64, req *merchant.BusinessProfileRequest) (*merchant.Merchant, error) {
	m, err := s.editable(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	m.BusinessName = nullString(req.BusinessName)
	m.Category = nullString(req.Category)
	m.Phone = nullString(req.Phone)
	m.Description = nullString(req.Description)

	if err := s.repo.UpdateProfile(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update business profile: %w", err)
	}
	return m, nil
}

// UpdateLocation saves the location step
func (s *MerchantService) UpdateLocation(ctx context.Context, merchantID int64, req *merchant.LocationRequest) (*merchant.Merchant, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, fmt.Errorf("%w: latitude and longitude are required", xerrors.ErrInvalidInput)
	}

	m, err := s.editable(ctx, merchantID)
	if err != nil {
		return nil, err
	}

	m.Address = nullString(req.Address)
	m.City = nullString(req.City)
	m.Latitude = sql.NullFloat64{Float64: *req.Latitude, Valid: true}
	m.Longitude = sql.NullFloat64{Float64: *req.Longitude, Valid: true}

	if err := s.repo.UpdateProfile(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return m, nil
}

// CompleteOnboarding submits the account for admin review. Both the
// business profile and the location must be filled in.
func (s *MerchantService) CompleteOnboarding(ctx context.Context, merchantID int64) (*merchant.Merchant, error) {
	m, err := s.repo.FindByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}

	if m.Status != merchant.StatusOnboarding {
		return nil, fmt.Errorf("%w: onboarding already completed", xerrors.ErrConflict)
	}

	var missing []string
	if !m.HasProfile() {
		missing = append(missing, "business profile")
	}
	if !m.HasLocation() {
		missing = append(missing, "location")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", xerrors.ErrInvalidInput, strings.Join(missing, " and "))
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, merchant.StatusPendingReview); err != nil {
		return nil, fmt.Errorf("failed to submit onboarding: %w", err)
	}
	m.Status = merchant.StatusPendingReview

	s.logger.Info("merchant submitted for review", zap.Int64("merchant_id", m.ID))
	s.notify(ctx, m)
	return m, nil
}

// EnsureCanPublish returns ErrForbidden unless the merchant is active
func (s *MerchantService) EnsureCanPublish(ctx context.Context, merchantID int64) error {
	m, err := s.repo.FindByID(ctx, merchantID)
	if err != nil {
		return fmt.Errorf("failed to get merchant: %w", err)
	}
	if !m.CanPublish() {
		return fmt.Errorf("%w: merchant account is not active", xerrors.ErrForbidden)
	}
	return nil
}

func (s *MerchantService) editable(ctx context.Context, merchantID int64) (*merchant.Merchant, error) {
	m, err := s.repo.FindByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	if m.Status == merchant.StatusSuspended {
		return nil, fmt.Errorf("%w: account is suspended", xerrors.ErrForbidden)
	}
	return m, nil
}

func nullString(s string) sql.NullString {
	s = strings.TrimSpace(s)
	return sql.NullString{String: s, Valid: s != ""}
}
