package repository

import (
	"context"
	"errors"

	"restaurant_pos/internal/catalog"
	"restaurant_pos/internal/database"
	"restaurant_pos/internal/models"

	"gorm.io/gorm"
)

// ProductRepository reads the local products table. It satisfies catalog.Lookup.
type ProductRepository interface {
	catalog.Lookup
	GetByID(ctx context.Context, id uint) (*models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := database.Conn(ctx, r.db).First(&product, id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Lookup(ctx context.Context, productID uint) (catalog.Entry, error) {
	product, err := r.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalog.Entry{}, catalog.ErrNotFound
		}
		return catalog.Entry{}, err
	}

	return catalog.Entry{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Available: product.IsAvailable,
	}, nil
}
