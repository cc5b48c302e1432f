package service

import (
	"errors"

	"softcart/internal/apperr"
	"softcart/internal/domain"
	"softcart/internal/models"
	"softcart/internal/repository"

	"gorm.io/gorm"
)

// CartService works for both logged-in users and anonymous sessions; the
// identity decides which cart the caller sees.
type CartService struct {
	cartRepo    *repository.CartRepository
	productRepo *repository.ProductRepository
}

func NewCartService(cartRepo *repository.CartRepository, productRepo *repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

type CartView struct {
	Items         []models.CartItem `json:"items"`
	SubtotalCents int64             `json:"subtotal_cents"`
}

func (s *CartService) View(id domain.Identity) (*CartView, error) {
	if id.IsAnonymous() {
		return nil, apperr.New(apperr.Invalid, "a session id or login is required for carts")
	}
	items, err := s.cartRepo.List(id)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list cart", err)
	}
	view := &CartView{Items: items}
	for _, it := range items {
		view.SubtotalCents += it.Product.PriceCents * int64(it.Quantity)
	}
	return view, nil
}

func (s *CartService) Add(id domain.Identity, productID uint, qty int) (*models.CartItem, error) {
	if id.IsAnonymous() {
		return nil, apperr.New(apperr.Invalid, "a session id or login is required for carts")
	}
	if qty <= 0 {
		return nil, apperr.New(apperr.Invalid, "quantity must be positive")
	}
	p, err := s.productRepo.GetByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load product", err)
	}
	if !p.IsActive {
		return nil, apperr.New(apperr.Invalid, "product is unavailable")
	}
	if !p.IsDigital && p.Stock < qty {
		return nil, apperr.New(apperr.Invalid, "insufficient stock").WithMeta("remaining", p.Stock)
	}
	item, err := s.cartRepo.AddItem(id, productID, qty)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "add cart item", err)
	}
	item.Product = *p
	return item, nil
}

func (s *CartService) UpdateQuantity(id domain.Identity, itemID uint, qty int) error {
	if id.IsAnonymous() {
		return apperr.New(apperr.Invalid, "a session id or login is required for carts")
	}
	if qty <= 0 {
		return apperr.New(apperr.Invalid, "quantity must be positive; use remove instead")
	}
	if err := s.cartRepo.UpdateQuantity(id, itemID, qty); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.NotFound, "cart item not found")
		}
		return apperr.Wrap(apperr.Internal, "update cart item", err)
	}
	return nil
}

func (s *CartService) Remove(id domain.Identity, itemID uint) error {
	if id.IsAnonymous() {
		return apperr.New(apperr.Invalid, "a session id or login is required for carts")
	}
	if err := s.cartRepo.Remove(id, itemID); err != nil {
		return apperr.Wrap(apperr.Internal, "remove cart item", err)
	}
	return nil
}

func (s *CartService) Clear(id domain.Identity) error {
	if id.IsAnonymous() {
		return apperr.New(apperr.Invalid, "a session id or login is required for carts")
	}
	if err := s.cartRepo.Clear(id); err != nil {
		return apperr.Wrap(apperr.Internal, "clear cart", err)
	}
	return nil
}
