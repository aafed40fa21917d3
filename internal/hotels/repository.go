package hotels

import (
	"context"
	"errors"

	"homestay/internal/shared/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	GetHotelByID(ctx context.Context, id uuid.UUID) (*Hotel, error)
	GetHotelsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Hotel, error)
	GetHotelIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error)
	CreateHotel(ctx context.Context, hotel *Hotel) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetHotelByID(ctx context.Context, id uuid.UUID) (*Hotel, error) {
	var hotel Hotel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&hotel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("hotel not found")
		}
		return nil, apperr.Dependency(err, "failed to load hotel")
	}
	return &hotel, nil
}

func (r *repository) GetHotelsByOwner(ctx context.Context, ownerID uuid.UUID) ([]Hotel, error) {
	var hotels []Hotel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&hotels).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to load owner hotels")
	}
	return hotels, nil
}

func (r *repository) GetHotelIDsByOwner(ctx context.Context, ownerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&Hotel{}).
		Where("owner_id = ?", ownerID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, apperr.Dependency(err, "failed to load owner hotels")
	}
	return ids, nil
}

func (r *repository) CreateHotel(ctx context.Context, hotel *Hotel) error {
	if err := r.db.WithContext(ctx).Create(hotel).Error; err != nil {
		return apperr.Dependency(err, "failed to create hotel")
	}
	return nil
}
