package repository

import (
	"context"
	"strconv"

	"ventapos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettingsRepository is the persisted key/value store the operator edits from
// the configuration window. Core components consume these values read-only
// with safe fallbacks; they never validate beyond type coercion.
type SettingsRepository interface {
	Get(ctx context.Context, clave, fallback string) string
	Set(ctx context.Context, clave, valor string) error

	GetDecimal(ctx context.Context, clave string, fallback decimal.Decimal) decimal.Decimal
	GetBool(ctx context.Context, clave string, fallback bool) bool
}

type settingsRepo struct{ db *gorm.DB }

func NewSettingsRepository(db *gorm.DB) SettingsRepository { return &settingsRepo{db: db} }

func (r *settingsRepo) Get(ctx context.Context, clave, fallback string) string {
	var s model.Setting
	err := r.db.WithContext(ctx).Where("clave = ?", clave).First(&s).Error
	if err != nil {
		// Missing key and query failure both fall back; callers treat
		// settings as advisory.
		return fallback
	}
	return s.Valor
}

func (r *settingsRepo) Set(ctx context.Context, clave, valor string) error {
	s := model.Setting{Clave: clave, Valor: valor}
	return r.db.WithContext(ctx).Save(&s).Error
}

func (r *settingsRepo) GetDecimal(ctx context.Context, clave string, fallback decimal.Decimal) decimal.Decimal {
	raw := r.Get(ctx, clave, "")
	if raw == "" {
		return fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return fallback
	}
	return d
}

func (r *settingsRepo) GetBool(ctx context.Context, clave string, fallback bool) bool {
	raw := r.Get(ctx, clave, "")
	if raw == "" {
		return fallback
	}
	// The settings window historically stored "1"/"0".
	if raw == "1" {
		return true
	}
	if raw == "0" {
		return false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}

// Setting keys consumed by the core.
const (
	SettingTasaCambio   = "exchange_rate"
	SettingMoneda       = "currency"
	SettingIvaActivo    = "vat_enabled"
	SettingIvaPorciento = "vat_percent"
	SettingNombreTienda = "shop_title"
	SettingRif          = "shop_rif"
)
