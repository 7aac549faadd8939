package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a catalog row. Cantidad is mutated exclusively through the
// inventory ledger (conditional UPDATE), never by assigning the field.
type Producto struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Codigo    string          `gorm:"uniqueIndex;not null" json:"codigo"`
	Nombre    string          `gorm:"index;not null" json:"nombre"`
	PrecioBs  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"precio_bs"`
	PrecioUsd decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"precio_usd"`
	Cantidad  int             `gorm:"not null;default:0" json:"cantidad"`
	Activo    bool            `gorm:"not null;default:true" json:"activo"`
	CreatedAt time.Time       `json:"-"`
	UpdatedAt time.Time       `json:"-"`
}

func (p *Producto) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
