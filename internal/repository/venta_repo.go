package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mostrador/internal/dto"
	"mostrador/internal/model"
)

type VentaRepository interface {
	// DB exposes the underlying handle for transaction scoping; nil in unit
	// tests backed by in-memory fakes.
	DB() *gorm.DB
	Create(ctx context.Context, tx *gorm.DB, venta *model.VentaCompletada) error
	NextNumeroFactura(ctx context.Context, tx *gorm.DB) (int, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.VentaCompletada, int64, error)
	// ListBySesion returns the full completed-sales log of one register
	// session, in invoice order. Used to rebuild the shift log on hydration.
	ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.VentaCompletada, error)
}

type ventaRepository struct {
	db *gorm.DB
}

func NewVentaRepository(db *gorm.DB) VentaRepository {
	return &ventaRepository{db: db}
}

func (r *ventaRepository) DB() *gorm.DB { return r.db }

func (r *ventaRepository) Create(ctx context.Context, tx *gorm.DB, venta *model.VentaCompletada) error {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	return tx.Create(venta).Error
}

// NextNumeroFactura allocates the next invoice number. MAX+1 under the
// enclosing transaction; the unique index on numero_factura backstops any
// race between terminals sharing a database.
func (r *ventaRepository) NextNumeroFactura(ctx context.Context, tx *gorm.DB) (int, error) {
	if tx == nil {
		tx = r.db.WithContext(ctx)
	}
	var next int
	err := tx.Raw("SELECT COALESCE(MAX(numero_factura), 0) + 1 FROM venta_completadas").Scan(&next).Error
	return next, err
}

func (r *ventaRepository) List(ctx context.Context, filter dto.VentaFilter) ([]model.VentaCompletada, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.VentaCompletada{})
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha_venta) = ?", filter.Fecha)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo_pos = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ventas []model.VentaCompletada
	err := q.Preload("Items").Preload("Pagos").
		Order("fecha_venta DESC").
		Offset((filter.Page - 1) * filter.Limit).
		Limit(filter.Limit).
		Find(&ventas).Error
	return ventas, total, err
}

func (r *ventaRepository) ListBySesion(ctx context.Context, sesionID uuid.UUID) ([]model.VentaCompletada, error) {
	var ventas []model.VentaCompletada
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Pagos").
		Where("sesion_caja_id = ?", sesionID).
		Order("numero_factura ASC").
		Find(&ventas).Error
	return ventas, err
}
