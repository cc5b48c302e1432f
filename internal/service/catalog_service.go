package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"softcart/internal/apperr"
	"softcart/internal/models"
	"softcart/internal/repository"
	"softcart/pkg/cloudinary"

	"gorm.io/gorm"
)

type CatalogService struct {
	productRepo *repository.ProductRepository
	images      cloudinary.Client
}

func NewCatalogService(productRepo *repository.ProductRepository, images cloudinary.Client) *CatalogService {
	return &CatalogService{productRepo: productRepo, images: images}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify normalizes a product name into a URL slug.
func Slugify(name string) string {
	s := slugStrip.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

type ProductInput struct {
	Name                   string `json:"name" binding:"required"`
	Description            string `json:"description"`
	PriceCents             int64  `json:"price_cents" binding:"required,min=1"`
	Stock                  int    `json:"stock"`
	IsDigital              bool   `json:"is_digital"`
	IsActive               *bool  `json:"is_active"`
	LicenseActivationLimit int    `json:"license_activation_limit"`
	LicenseValidityDays    int    `json:"license_validity_days"`
}

func (s *CatalogService) ListActive(limit, offset int) ([]models.Product, error) {
	products, err := s.productRepo.ListActive(limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list products", err)
	}
	return products, nil
}

func (s *CatalogService) ListAll(limit, offset int) ([]models.Product, error) {
	products, err := s.productRepo.List(limit, offset)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "list products", err)
	}
	return products, nil
}

func (s *CatalogService) GetBySlug(slug string) (*models.Product, error) {
	p, err := s.productRepo.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load product", err)
	}
	return p, nil
}

func (s *CatalogService) Create(in ProductInput) (*models.Product, error) {
	p := &models.Product{
		Name:        in.Name,
		Slug:        Slugify(in.Name),
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Stock:       in.Stock,
		IsDigital:   in.IsDigital,
		IsActive:    true,
	}
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.LicenseActivationLimit > 0 {
		p.LicenseActivationLimit = in.LicenseActivationLimit
	} else {
		p.LicenseActivationLimit = 3
	}
	if in.LicenseValidityDays > 0 {
		p.LicenseValidityDays = in.LicenseValidityDays
	} else {
		p.LicenseValidityDays = 365
	}
	if err := s.productRepo.Create(p); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "Duplicate entry") {
			return nil, apperr.Newf(apperr.Conflict, "product slug %q already exists", p.Slug)
		}
		return nil, apperr.Wrap(apperr.Internal, "create product", err)
	}
	log.Printf("[catalog] product %q created (id %d)", p.Name, p.ID)
	return p, nil
}

func (s *CatalogService) Update(id uint, in ProductInput) (*models.Product, error) {
	p, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load product", err)
	}
	p.Name = in.Name
	p.Description = in.Description
	p.PriceCents = in.PriceCents
	p.Stock = in.Stock
	p.IsDigital = in.IsDigital
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
	if in.LicenseActivationLimit > 0 {
		p.LicenseActivationLimit = in.LicenseActivationLimit
	}
	if in.LicenseValidityDays > 0 {
		p.LicenseValidityDays = in.LicenseValidityDays
	}
	if err := s.productRepo.Update(p); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "update product", err)
	}
	return p, nil
}

func (s *CatalogService) Delete(id uint) error {
	if err := s.productRepo.Delete(id); err != nil {
		return apperr.Wrap(apperr.Internal, "delete product", err)
	}
	return nil
}

// AttachImage uploads product imagery to Cloudinary and stores the
// delivery URLs on the product.
func (s *CatalogService) AttachImage(ctx context.Context, id uint, file io.Reader) (*models.Product, error) {
	if s.images == nil {
		return nil, apperr.New(apperr.Invalid, "image uploads are not configured")
	}
	p, err := s.productRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.NotFound, "product not found")
		}
		return nil, apperr.Wrap(apperr.Internal, "load product", err)
	}
	publicID := fmt.Sprintf("%s-%d", p.Slug, time.Now().Unix())
	url, thumb, err := s.images.UploadImage(ctx, file, "products", publicID)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "upload image", err)
	}
	p.ImageURL = url
	p.ThumbnailURL = thumb
	if err := s.productRepo.Update(p); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "save image urls", err)
	}
	return p, nil
}
