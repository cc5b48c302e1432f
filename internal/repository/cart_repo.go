package repository

import (
	"errors"

	"softcart/internal/domain"
	"softcart/internal/models"

	"gorm.io/gorm"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) WithTx(tx *gorm.DB) *CartRepository {
	return &CartRepository{db: tx}
}

func cartScope(db *gorm.DB, id domain.Identity) *gorm.DB {
	switch id.Kind {
	case domain.IdentityUser:
		return db.Where("user_id = ?", id.UserID)
	case domain.IdentitySession:
		return db.Where("session_id = ?", id.SessionID)
	default:
		return db.Where("1 = 0")
	}
}

func (r *CartRepository) List(id domain.Identity) ([]models.CartItem, error) {
	var items []models.CartItem
	err := cartScope(r.db.Preload("Product"), id).Order("id ASC").Find(&items).Error
	return items, err
}

// AddItem upserts by product: adding an already-carted product bumps its
// quantity instead of duplicating the row.
func (r *CartRepository) AddItem(id domain.Identity, productID uint, qty int) (*models.CartItem, error) {
	var item models.CartItem
	err := cartScope(r.db.Where("product_id = ?", productID), id).First(&item).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		item = models.CartItem{ProductID: productID, Quantity: qty}
		item.SetIdentity(id)
		if err := r.db.Create(&item).Error; err != nil {
			return nil, err
		}
		return &item, nil
	}
	item.Quantity += qty
	if err := r.db.Model(&item).Update("quantity", item.Quantity).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *CartRepository) UpdateQuantity(id domain.Identity, itemID uint, qty int) error {
	res := cartScope(r.db.Model(&models.CartItem{}).Where("id = ?", itemID), id).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CartRepository) Remove(id domain.Identity, itemID uint) error {
	return cartScope(r.db.Where("id = ?", itemID), id).Delete(&models.CartItem{}).Error
}

func (r *CartRepository) Clear(id domain.Identity) error {
	return cartScope(r.db, id).Delete(&models.CartItem{}).Error
}

// Merge moves a session cart onto a user after login.
func (r *CartRepository) Merge(sessionID string, userID uint) error {
	return r.db.Model(&models.CartItem{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{"user_id": userID, "session_id": nil}).Error
}
