package infra

import (
	"context"
	"time"

	"ventapos/internal/repository"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const tasaCacheKey = "tasa_cambio"

// TasaProvider serves the current BS/USD exchange rate. The value lives in
// settings; a short TTL cache keeps the cart hot path off the database. A
// missing or unparsable setting falls back to 1, never an error: the terminal
// must keep selling.
type TasaProvider struct {
	settings repository.SettingsRepository
	cache    *gocache.Cache
}

func NewTasaProvider(settings repository.SettingsRepository) *TasaProvider {
	return &TasaProvider{
		settings: settings,
		cache:    gocache.New(30*time.Second, time.Minute),
	}
}

// Actual returns the effective exchange rate.
func (p *TasaProvider) Actual(ctx context.Context) decimal.Decimal {
	if v, ok := p.cache.Get(tasaCacheKey); ok {
		return v.(decimal.Decimal)
	}
	tasa := p.settings.GetDecimal(ctx, repository.SettingTasaCambio, decimal.NewFromInt(1))
	if tasa.Sign() <= 0 {
		tasa = decimal.NewFromInt(1)
	}
	p.cache.Set(tasaCacheKey, tasa, gocache.DefaultExpiration)
	return tasa
}

// Actualizar persists a new rate and refreshes the cache immediately so the
// next sale already uses it.
func (p *TasaProvider) Actualizar(ctx context.Context, tasa decimal.Decimal) error {
	if err := p.settings.Set(ctx, repository.SettingTasaCambio, tasa.String()); err != nil {
		return err
	}
	p.cache.Set(tasaCacheKey, tasa, gocache.DefaultExpiration)
	return nil
}
