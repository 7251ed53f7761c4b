package shared

import (
	"github.com/google/uuid"
)

// AggregateRoot is the base interface for all aggregate roots
type AggregateRoot interface {
	Entity
	GetVersion() int
	IncrementVersion()
}

// BaseAggregateRoot provides common fields for aggregate roots
type BaseAggregateRoot struct {
	BaseEntity
	Version int `json:"version" gorm:"not null;default:1"`
}

// GetVersion returns the aggregate version for optimistic locking
func (a *BaseAggregateRoot) GetVersion() int {
	return a.Version
}

// IncrementVersion increments the version number
func (a *BaseAggregateRoot) IncrementVersion() {
	a.Version++
}

// NewBaseAggregateRoot creates a new base aggregate root
func NewBaseAggregateRoot() BaseAggregateRoot {
	return BaseAggregateRoot{
		BaseEntity: NewBaseEntity(),
		Version:    1,
	}
}

// CompanyAggregateRoot extends BaseAggregateRoot with company (branch) scoping.
// Every financial record belongs to exactly one company.
type CompanyAggregateRoot struct {
	BaseAggregateRoot
	CompanyID uuid.UUID  `json:"company_id" gorm:"type:uuid;not null;index"`
	CreatedBy *uuid.UUID `json:"created_by,omitempty" gorm:"type:uuid;index"`
}

// NewCompanyAggregateRoot creates a new company-scoped aggregate root
func NewCompanyAggregateRoot(companyID uuid.UUID) CompanyAggregateRoot {
	return CompanyAggregateRoot{
		BaseAggregateRoot: NewBaseAggregateRoot(),
		CompanyID:         companyID,
	}
}

// SetCreatedBy sets the creator user ID
func (c *CompanyAggregateRoot) SetCreatedBy(userID uuid.UUID) {
	c.CreatedBy = &userID
}
