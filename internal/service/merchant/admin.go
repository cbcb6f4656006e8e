// internal/service/merchant/admin.go
package merchant

import (
	"context"
	"fmt"

	"dealdesk-service/internal/domain/merchant"
	xerrors "dealdesk-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// ListMerchants lists merchant accounts for admins
func (s *MerchantService) ListMerchants(ctx context.Context, filters *merchant.MerchantListFilters) (*merchant.MerchantListResponse, error) {
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 {
		filters.PageSize = 20
	}
	if filters.PageSize > 100 {
		filters.PageSize = 100
	}

	merchants, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}

	totalPages := int(total) / filters.PageSize
	if int(total)%filters.PageSize > 0 {
		totalPages++
	}

	return &merchant.MerchantListResponse{
		Merchants:  merchants,
		Total:      total,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
		TotalPages: totalPages,
	}, nil
}

// ApproveMerchant activates a merchant under review or reinstates a
// suspended one.
func (s *MerchantService) ApproveMerchant(ctx context.Context, adminID, merchantID int64) (*merchant.Merchant, error) {
	m, err := s.repo.FindByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	if m.Role == merchant.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot be reviewed", xerrors.ErrForbidden)
	}
	if m.Status != merchant.StatusPendingReview && m.Status != merchant.StatusSuspended {
		return nil, fmt.Errorf("%w: cannot approve a merchant in status %s", xerrors.ErrConflict, m.Status)
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, merchant.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to approve merchant: %w", err)
	}
	m.Status = merchant.StatusActive

	s.logger.Info("merchant approved", zap.Int64("merchant_id", m.ID), zap.Int64("admin_id", adminID))
	s.notify(ctx, m)
	return m, nil
}

// SuspendMerchant blocks a merchant and revokes all of its sessions
func (s *MerchantService) SuspendMerchant(ctx context.Context, adminID, merchantID int64) (*merchant.Merchant, error) {
	m, err := s.repo.FindByID(ctx, merchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	if m.Role == merchant.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot be suspended", xerrors.ErrForbidden)
	}
	if m.Status == merchant.StatusSuspended {
		return nil, fmt.Errorf("%w: merchant is already suspended", xerrors.ErrConflict)
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, merchant.StatusSuspended); err != nil {
		return nil, fmt.Errorf("failed to suspend merchant: %w", err)
	}
	m.Status = merchant.StatusSuspended

	if err := s.sessions.InvalidateAll(ctx, m.ID); err != nil {
		s.logger.Error("failed to revoke sessions of suspended merchant", zap.Error(err), zap.Int64("merchant_id", m.ID))
	}

	s.logger.Info("merchant suspended", zap.Int64("merchant_id", m.ID), zap.Int64("admin_id", adminID))
	s.notify(ctx, m)
	return m, nil
}
