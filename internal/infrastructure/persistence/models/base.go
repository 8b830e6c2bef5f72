package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hirepurchase/backend/internal/domain/shared"
)

// BaseModel provides common persistence fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// AggregateModel adds the aggregate version
type AggregateModel struct {
	BaseModel
	Version int `gorm:"not null;default:1"`
}

// OwnedModel provides the persistence fields of owner-scoped aggregates
type OwnedModel struct {
	AggregateModel
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// FromDomainOwned populates OwnedModel from a domain OwnedAggregateRoot
func (m *OwnedModel) FromDomainOwned(o shared.OwnedAggregateRoot) {
	m.ID = o.ID
	m.CreatedAt = o.CreatedAt
	m.UpdatedAt = o.UpdatedAt
	m.Version = o.Version
	m.OwnerID = o.OwnerID
}

// PopulateOwned copies the persisted fields into a domain OwnedAggregateRoot
func (m *OwnedModel) PopulateOwned(o *shared.OwnedAggregateRoot) {
	o.ID = m.ID
	o.CreatedAt = m.CreatedAt
	o.UpdatedAt = m.UpdatedAt
	o.Version = m.Version
	o.OwnerID = m.OwnerID
}
