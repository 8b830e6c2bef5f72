package leasing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AssetStatus represents the availability of an asset
type AssetStatus string

const (
	AssetStatusAvailable AssetStatus = "available"
	AssetStatusLeased    AssetStatus = "leased" // Under a hire-purchase contract
	AssetStatusRented    AssetStatus = "rented" // Under an installment contract
	AssetStatusSold      AssetStatus = "sold"
)

// IsValid checks if the status is a valid AssetStatus
func (s AssetStatus) IsValid() bool {
	switch s {
	case AssetStatusAvailable, AssetStatusLeased, AssetStatusRented, AssetStatusSold:
		return true
	}
	return false
}

// String returns the string representation of AssetStatus
func (s AssetStatus) String() string {
	return string(s)
}

// Asset is an item an owner finances to customers
type Asset struct {
	shared.OwnedAggregateRoot
	Name        string
	Description string
	Price       decimal.Decimal
	Status      AssetStatus
}

// NewAsset creates an available asset
func NewAsset(ownerID uuid.UUID, name, description string, price decimal.Decimal) (*Asset, error) {
	if ownerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OWNER", "Owner ID cannot be empty")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Asset name cannot exceed 200 characters")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Asset price cannot be negative")
	}

	return &Asset{
		OwnedAggregateRoot: shared.NewOwnedAggregateRoot(ownerID),
		Name:               name,
		Description:        description,
		Price:              price,
		Status:             AssetStatusAvailable,
	}, nil
}

// MarkFinanced records that a contract of the given type now covers the asset
func (a *Asset) MarkFinanced(contractType ContractType) error {
	if a.Status == AssetStatusSold {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Asset %s has been sold", a.Name))
	}
	switch contractType {
	case ContractTypeHirePurchase:
		a.Status = AssetStatusLeased
	case ContractTypeInstallment:
		a.Status = AssetStatusRented
	default:
		return shared.NewDomainError("INVALID_CONTRACT_TYPE", fmt.Sprintf("Unknown contract type %q", contractType))
	}
	a.IncrementVersion()
	return nil
}

// Release makes a leased or rented asset available again
func (a *Asset) Release() {
	if a.Status == AssetStatusLeased || a.Status == AssetStatusRented {
		a.Status = AssetStatusAvailable
		a.IncrementVersion()
	}
}
