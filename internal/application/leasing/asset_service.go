package leasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/identity"
	"github.com/hirepurchase/backend/internal/domain/leasing"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AssetService manages an owner's assets
type AssetService struct {
	repos  Repositories
	logger *zap.Logger
}

// NewAssetService creates a new AssetService
func NewAssetService(repos Repositories, logger *zap.Logger) *AssetService {
	return &AssetService{repos: repos, logger: nopIfNil(logger)}
}

// Create registers a new available asset for the owner
func (s *AssetService) Create(ctx context.Context, actor identity.Actor, req CreateAssetRequest) (*AssetResponse, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, err
	}
	asset, err := leasing.NewAsset(actor.UserID, req.Name, req.Description, req.Price)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Assets.Save(ctx, asset); err != nil {
		return nil, err
	}

	s.logger.Info("asset created",
		zap.String("asset_id", asset.ID.String()),
		zap.String("owner_id", actor.UserID.String()),
	)
	resp := ToAssetResponse(asset)
	return &resp, nil
}

// Get returns one asset. Owners see their own assets, admins every asset.
func (s *AssetService) Get(ctx context.Context, actor identity.Actor, id uuid.UUID) (*AssetResponse, error) {
	asset, err := s.repos.Assets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch actor.Role {
	case identity.RoleAdmin:
	case identity.RoleOwner:
		if !asset.IsOwnedBy(actor.UserID) {
			return nil, forbidden("You do not own this asset")
		}
	case identity.RoleCustomer:
		return nil, forbidden("Customers cannot view assets")
	default:
		return nil, forbidden("Unknown role")
	}
	resp := ToAssetResponse(asset)
	return &resp, nil
}

// List returns the owner's assets
func (s *AssetService) List(ctx context.Context, actor identity.Actor, filter AssetListFilter) ([]AssetResponse, int64, error) {
	if err := actor.RequireOwner(); err != nil {
		return nil, 0, err
	}
	ownerID := actor.UserID
	domainFilter := leasing.AssetFilter{
		Filter:  toFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search),
		OwnerID: &ownerID,
	}
	if filter.Status != "" {
		status := leasing.AssetStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown asset status")
		}
		domainFilter.Status = &status
	}

	assets, err := s.repos.Assets.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Assets.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	items := make([]AssetResponse, len(assets))
	for i := range assets {
		items[i] = ToAssetResponse(&assets[i])
	}
	return items, total, nil
}
