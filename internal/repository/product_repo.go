package repository

import (
	"errors"

	"softcart/internal/models"

	"gorm.io/gorm"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) WithTx(tx *gorm.DB) *ProductRepository {
	return &ProductRepository{db: tx}
}

func (r *ProductRepository) GetByID(id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var p models.Product
	if err := r.db.Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ListActive(limit, offset int) ([]models.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 24
	}
	var products []models.Product
	err := r.db.Where("is_active = ?", true).
		Order("id DESC").Limit(limit).Offset(offset).Find(&products).Error
	return products, err
}

func (r *ProductRepository) List(limit, offset int) ([]models.Product, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var products []models.Product
	err := r.db.Order("id DESC").Limit(limit).Offset(offset).Find(&products).Error
	return products, err
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) Update(p *models.Product) error {
	return r.db.Save(p).Error
}

func (r *ProductRepository) Delete(id uint) error {
	return r.db.Delete(&models.Product{}, id).Error
}

// DecrementStock takes qty units off stock with a conditional UPDATE so
// two concurrent checkouts cannot both take the last unit. Returns
// ErrInsufficientStock when not enough remains.
func (r *ProductRepository) DecrementStock(productID uint, qty int) error {
	res := r.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}
