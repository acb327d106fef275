package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/notify"
	"github.com/albadr/lighting-pos/internal/repository"
	"github.com/albadr/lighting-pos/pkg/validator"
)

var (
	ErrSaleNotFound = errors.New("sale not found")
	ErrEmptySale    = errors.New("sale must contain at least one item")
)

type SaleService interface {
	CreateSale(req *model.Sale, actor string) error
	DeleteSale(id uuid.UUID, actor string) error
	GetAllSales() ([]model.Sale, error)
	GetSaleByID(id uuid.UUID) (*model.Sale, error)
	Report(start, end time.Time) (*SalesReport, error)
	SendDailySummary() error
}

type SalesReport struct {
	Summary *repository.SalesSummary `json:"summary"`
	Sales   []model.Sale             `json:"sales"`
}

type saleService struct {
	saleRepo     repository.SaleRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	warrantyRepo repository.WarrantyRepository
	expenseRepo  repository.ExpenseRepository
	db           *gorm.DB
	notifier     notify.Notifier
	log          zerolog.Logger
}

func NewSaleService(
	saleRepo repository.SaleRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	warrantyRepo repository.WarrantyRepository,
	expenseRepo repository.ExpenseRepository,
	db *gorm.DB,
	notifier notify.Notifier,
	log zerolog.Logger,
) SaleService {
	return &saleService{
		saleRepo:     saleRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		warrantyRepo: warrantyRepo,
		expenseRepo:  expenseRepo,
		db:           db,
		notifier:     notifier,
		log:          log.With().Str("service", "sale").Logger(),
	}
}

// lowStockHit is collected during the transaction and dispatched after
// commit, so a slow notification endpoint can never hold the write.
type lowStockHit struct {
	name     string
	quantity int
	minLevel int
}

func (s *saleService) CreateSale(req *model.Sale, actor string) error {
	// 1. Basic validation
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		firstErr := errs[0]
		return fmt.Errorf("validation failed: field '%s' failed on tag '%s'", firstErr.FailedField, firstErr.Tag)
	}
	if len(req.Items) == 0 {
		return ErrEmptySale
	}
	for i := range req.Items {
		if errs := validator.ValidateStruct(&req.Items[i]); len(errs) > 0 {
			firstErr := errs[0]
			return fmt.Errorf("validation failed: item %d field '%s' failed on tag '%s'", i, firstErr.FailedField, firstErr.Tag)
		}
	}

	now := time.Now()
	req.SaleDate = now
	req.CreatedBy = actor
	req.UpdatedBy = actor

	var lowStock []lowStockHit

	// 2. Atomic: header + items + stock decrements + warranties
	err := s.db.Transaction(func(tx *gorm.DB) error {
		items := req.Items
		req.Items = nil
		if err := tx.Create(req).Error; err != nil {
			return err
		}

		for i := range items {
			item := &items[i]
			item.SaleID = req.ID
			item.CreatedBy = actor
			item.UpdatedBy = actor
			if err := tx.Create(item).Error; err != nil {
				return err
			}

			product, err := s.productRepo.LockForUpdate(tx, item.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					// Known integrity gap: the line is kept, only the
					// stock mutation and alerting are skipped.
					s.log.Warn().
						Str("sale_id", req.ID.String()).
						Str("product_id", item.ProductID.String()).
						Msg("sale line references missing product")
					continue
				}
				return err
			}

			// No floor check: stock may go negative, matching the
			// recorded behavior of the ledger.
			if err := s.productRepo.AdjustQuantity(tx, product.ID, -item.Quantity, actor); err != nil {
				return err
			}

			remaining := product.Quantity - item.Quantity
			if remaining <= product.MinStockLevel {
				lowStock = append(lowStock, lowStockHit{
					name:     product.Name,
					quantity: remaining,
					minLevel: product.MinStockLevel,
				})
			}

			if item.WarrantyMonths > 0 {
				warranty := &model.Warranty{
					SaleID:        &req.ID,
					SaleItemID:    &item.ID,
					ProductID:     product.ID,
					CustomerID:    req.CustomerID,
					WarrantyType:  model.WarrantyTypeStore,
					Months:        item.WarrantyMonths,
					StartDate:     now,
					EndDate:       model.CoverageEnd(now, item.WarrantyMonths),
					Status:        model.WarrantyStatusActive,
					PurchasePrice: item.Price,
				}
				warranty.CreatedBy = actor
				warranty.UpdatedBy = actor
				if err := s.warrantyRepo.Create(tx, warranty); err != nil {
					return err
				}
			}
		}

		req.Items = items
		return nil
	})
	if err != nil {
		return err
	}

	// 3. Side effects only after the commit, fire-and-forget
	go func() {
		for _, hit := range lowStock {
			s.notifier.NotifyLowStock(hit.name, hit.quantity, hit.minLevel)
		}

		customerName := model.WalkInCustomerName
		if req.CustomerID != nil {
			if customer, err := s.customerRepo.FindByID(*req.CustomerID); err == nil {
				customerName = customer.Name
			}
		}
		s.notifier.NotifySale(customerName, req.TotalAmount, req.Currency, len(req.Items))
	}()

	return nil
}

// DeleteSale restores each recorded line quantity onto its product and
// removes the sale. The restore is a blind compensating credit: if the
// product was edited in the interim the recorded quantity is added back
// regardless, and lines whose product is gone are skipped.
func (s *saleService) DeleteSale(id uuid.UUID, actor string) error {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSaleNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range sale.Items {
			if _, err := s.productRepo.LockForUpdate(tx, item.ProductID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return err
			}
			if err := s.productRepo.AdjustQuantity(tx, item.ProductID, item.Quantity, actor); err != nil {
				return err
			}
		}

		if err := tx.Delete(&model.SaleItem{}, "sale_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Sale{}, "id = ?", id).Error
	})
}

func (s *saleService) GetAllSales() ([]model.Sale, error) {
	return s.saleRepo.FindAll()
}

func (s *saleService) GetSaleByID(id uuid.UUID) (*model.Sale, error) {
	sale, err := s.saleRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSaleNotFound
		}
		return nil, err
	}
	return sale, nil
}

func (s *saleService) Report(start, end time.Time) (*SalesReport, error) {
	summary, err := s.saleRepo.Summarize(start, end)
	if err != nil {
		return nil, err
	}
	sales, err := s.saleRepo.FindBetween(start, end)
	if err != nil {
		return nil, err
	}
	return &SalesReport{Summary: summary, Sales: sales}, nil
}

func (s *saleService) SendDailySummary() error {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sales, err := s.saleRepo.Summarize(start, now)
	if err != nil {
		return err
	}
	expenses, err := s.expenseRepo.Summarize(start, now)
	if err != nil {
		return err
	}

	s.notifier.NotifyDailySummary(sales.TotalRevenue, sales.TotalSales, expenses.TotalAmount)
	return nil
}
