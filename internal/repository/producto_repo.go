package repository

import (
	"context"
	"errors"

	"ventapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductoRepository is the data-access contract for the catalog. Services
// depend on this interface, not on the GORM implementation, so unit tests can
// swap in an in-memory double.
//
// DescontarStock and ReponerStock are the ONLY ways Cantidad changes.
type ProductoRepository interface {
	Create(ctx context.Context, p *model.Producto) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error)
	FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error)
	List(ctx context.Context, incluirInactivos bool) ([]model.Producto, error)
	Update(ctx context.Context, p *model.Producto) error
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// DescontarStock runs the check-and-decrement as one conditional UPDATE
	// (cantidad >= ? guard), never read-then-write. Returns
	// ErrStockInsuficiente with no mutation when stock does not cover it.
	DescontarStock(ctx context.Context, id uuid.UUID, cantidad int) error

	// ReponerStock unconditionally adds cantidad. Used for restocking and for
	// releasing reservations (remove-from-cart, clear, paused-delete).
	ReponerStock(ctx context.Context, id uuid.UUID, cantidad int) error

	// RepreciarPorTasa rewrites every precio_bs as precio_usd * tasa.
	RepreciarPorTasa(ctx context.Context, tasa decimal.Decimal) error
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *model.Producto) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductoNoEncontrado
	}
	return &p, err
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo string) (*model.Producto, error) {
	var p model.Producto
	err := r.db.WithContext(ctx).Where("codigo = ? AND activo = true", codigo).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductoNoEncontrado
	}
	return &p, err
}

func (r *productoRepo) List(ctx context.Context, incluirInactivos bool) ([]model.Producto, error) {
	var productos []model.Producto
	q := r.db.WithContext(ctx).Model(&model.Producto{})
	if !incluirInactivos {
		q = q.Where("activo = true")
	}
	err := q.Order("nombre ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *model.Producto) error {
	// Cantidad is owned by the ledger; exclude it from blanket saves.
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"codigo":     p.Codigo,
			"nombre":     p.Nombre,
			"precio_bs":  p.PrecioBs,
			"precio_usd": p.PrecioUsd,
			"activo":     p.Activo,
		}).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ?", id).Update("activo", false).Error
}

func (r *productoRepo) DescontarStock(ctx context.Context, id uuid.UUID, cantidad int) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ? AND cantidad >= ?", id, cantidad).
		Update("cantidad", gorm.Expr("cantidad - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Distinguish "not found" from "not enough".
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrStockInsuficiente
	}
	return nil
}

func (r *productoRepo) ReponerStock(ctx context.Context, id uuid.UUID, cantidad int) error {
	res := r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("id = ?", id).
		Update("cantidad", gorm.Expr("cantidad + ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrProductoNoEncontrado
	}
	return nil
}

func (r *productoRepo) RepreciarPorTasa(ctx context.Context, tasa decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&model.Producto{}).
		Where("activo = true").
		Update("precio_bs", gorm.Expr("precio_usd * ?", tasa)).Error
}
