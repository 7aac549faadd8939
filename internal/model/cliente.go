package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Cliente is a registry entry used to head invoices.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nombre    string    `gorm:"not null" json:"nombre"`
	Apellido  string    `json:"apellido"`
	Cedula    string    `gorm:"uniqueIndex" json:"cedula"`
	Telefono  string    `json:"telefono"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (c *Cliente) BeforeCreate(_ *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
