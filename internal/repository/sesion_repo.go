package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"mostrador/internal/model"
)

type SesionRepository interface {
	Create(ctx context.Context, sesion *model.SesionCaja) error
	Update(ctx context.Context, sesion *model.SesionCaja) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error)
	// FindAbiertaPorTerminal returns gorm.ErrRecordNotFound when the terminal
	// has no open session — used both as the duplicate-open guard and for
	// hydration on startup.
	FindAbiertaPorTerminal(ctx context.Context, terminalID string) (*model.SesionCaja, error)
	ListCerradas(ctx context.Context, terminalID string, page, limit int) ([]model.SesionCaja, int64, error)
}

type sesionRepository struct {
	db *gorm.DB
}

func NewSesionRepository(db *gorm.DB) SesionRepository {
	return &sesionRepository{db: db}
}

func (r *sesionRepository) Create(ctx context.Context, sesion *model.SesionCaja) error {
	if sesion.OpenedAt.IsZero() {
		sesion.OpenedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(sesion).Error
}

func (r *sesionRepository) Update(ctx context.Context, sesion *model.SesionCaja) error {
	return r.db.WithContext(ctx).Save(sesion).Error
}

func (r *sesionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.SesionCaja, error) {
	var sesion model.SesionCaja
	if err := r.db.WithContext(ctx).First(&sesion, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sesion, nil
}

func (r *sesionRepository) FindAbiertaPorTerminal(ctx context.Context, terminalID string) (*model.SesionCaja, error) {
	var sesion model.SesionCaja
	err := r.db.WithContext(ctx).
		Where("terminal_id = ? AND estado = ?", terminalID, model.SesionAbierta).
		Order("opened_at DESC").
		First(&sesion).Error
	if err != nil {
		return nil, err
	}
	return &sesion, nil
}

func (r *sesionRepository) ListCerradas(ctx context.Context, terminalID string, page, limit int) ([]model.SesionCaja, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.SesionCaja{}).
		Where("terminal_id = ? AND estado = ?", terminalID, model.SesionCerrada)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sesiones []model.SesionCaja
	err := q.Order("closed_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sesiones).Error
	return sesiones, total, err
}
