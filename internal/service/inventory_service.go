package service

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/repository"
	"github.com/albadr/lighting-pos/pkg/validator"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrQRCodeTaken      = errors.New("qr code already assigned to another product")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryTaken    = errors.New("category name already exists")
)

type InventoryService interface {
	CreateProduct(product *model.Product, actor string) error
	GetProducts(filter repository.ProductFilter) ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
	GetProductByQRCode(code string) (*model.Product, error)
	UpdateProduct(id uuid.UUID, updates *model.Product, actor string) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	AdjustStock(id uuid.UUID, delta int, actor string) (*model.Product, error)

	CreateCategory(category *model.Category, actor string) error
	GetCategories() ([]model.Category, error)
	UpdateCategory(id uuid.UUID, updates *model.Category, actor string) (*model.Category, error)
	DeleteCategory(id uuid.UUID) error
}

type inventoryService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	db           *gorm.DB
	log          zerolog.Logger
}

func NewInventoryService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	db *gorm.DB,
	log zerolog.Logger,
) InventoryService {
	return &inventoryService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		db:           db,
		log:          log.With().Str("service", "inventory").Logger(),
	}
}

func (s *inventoryService) CreateProduct(product *model.Product, actor string) error {
	// 1. Basic validation
	if errs := validator.ValidateStruct(product); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	// 2. QR codes are unique across products
	if product.QRCode != "" {
		existing, err := s.productRepo.FindByQRCode(product.QRCode)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if existing != nil {
			return ErrQRCodeTaken
		}
	}

	product.CreatedBy = actor
	product.UpdatedBy = actor
	return s.productRepo.Create(product)
}

func (s *inventoryService) GetProducts(filter repository.ProductFilter) ([]model.Product, error) {
	return s.productRepo.FindAll(filter)
}

func (s *inventoryService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) GetProductByQRCode(code string) (*model.Product, error) {
	product, err := s.productRepo.FindByQRCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) UpdateProduct(id uuid.UUID, updates *model.Product, actor string) (*model.Product, error) {
	var updated *model.Product

	// Updates run under a row lock so a concurrent sale cannot interleave
	// its stock decrement with the field rewrite.
	err := s.db.Transaction(func(tx *gorm.DB) error {
		product, err := s.productRepo.LockForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if updates.QRCode != "" && updates.QRCode != product.QRCode {
			existing, err := s.productRepo.FindByQRCode(updates.QRCode)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if existing != nil && existing.ID != id {
				return ErrQRCodeTaken
			}
		}

		product.Name = updates.Name
		product.Description = updates.Description
		product.CostPrice = updates.CostPrice
		product.SellingPrice = updates.SellingPrice
		product.Quantity = updates.Quantity
		product.QRCode = updates.QRCode
		product.Currency = updates.Currency
		product.Category = updates.Category
		product.Brand = updates.Brand
		product.Model = updates.Model
		product.Color = updates.Color
		product.Size = updates.Size
		product.MinStockLevel = updates.MinStockLevel
		product.MaxStockLevel = updates.MaxStockLevel
		product.ReorderPoint = updates.ReorderPoint
		product.IsActive = updates.IsActive
		product.IsFeatured = updates.IsFeatured
		product.UpdatedBy = actor

		if errs := validator.ValidateStruct(product); len(errs) > 0 {
			firstErr := errs[0]
			return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
		}

		if err := tx.Save(product).Error; err != nil {
			return err
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *inventoryService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.productRepo.Delete(id)
}

// AdjustStock applies a manual correction outside the sales flow, for
// deliveries and stocktake fixes.
func (s *inventoryService) AdjustStock(id uuid.UUID, delta int, actor string) (*model.Product, error) {
	var product *model.Product
	err := s.db.Transaction(func(tx *gorm.DB) error {
		p, err := s.productRepo.LockForUpdate(tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}
		if err := s.productRepo.AdjustQuantity(tx, id, delta, actor); err != nil {
			return err
		}
		p.Quantity += delta
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (s *inventoryService) CreateCategory(category *model.Category, actor string) error {
	if errs := validator.ValidateStruct(category); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}

	existing, err := s.categoryRepo.FindByName(category.Name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	if existing != nil {
		return ErrCategoryTaken
	}

	category.CreatedBy = actor
	category.UpdatedBy = actor
	return s.categoryRepo.Create(category)
}

func (s *inventoryService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

func (s *inventoryService) UpdateCategory(id uuid.UUID, updates *model.Category, actor string) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if updates.Name != "" && updates.Name != category.Name {
		existing, err := s.categoryRepo.FindByName(updates.Name)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrCategoryTaken
		}
		category.Name = updates.Name
	}
	category.Description = updates.Description
	category.UpdatedBy = actor

	if err := s.categoryRepo.Update(category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *inventoryService) DeleteCategory(id uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.categoryRepo.Delete(id)
}
