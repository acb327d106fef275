package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
)

type WarrantyRepository interface {
	Create(tx *gorm.DB, warranty *model.Warranty) error
	FindAll() ([]model.Warranty, error)
	FindByID(id uuid.UUID) (*model.Warranty, error)
	FindByCustomer(customerID uuid.UUID) ([]model.Warranty, error)
	FindByProduct(productID uuid.UUID) ([]model.Warranty, error)
	// FindEndingBetween returns stored-active warranties whose coverage
	// window ends inside [start, end].
	FindEndingBetween(start, end time.Time) ([]model.Warranty, error)
	Update(warranty *model.Warranty) error
	AppendClaim(tx *gorm.DB, claim *model.WarrantyClaim) error
	AppendExtension(tx *gorm.DB, ext *model.WarrantyExtension) error
	CountByStatus() (map[model.WarrantyStatus]int64, error)
}

type warrantyRepo struct {
	db *gorm.DB
}

func NewWarrantyRepo(db *gorm.DB) WarrantyRepository {
	return &warrantyRepo{db}
}

func (r *warrantyRepo) Create(tx *gorm.DB, warranty *model.Warranty) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(warranty).Error
}

func (r *warrantyRepo) FindAll() ([]model.Warranty, error) {
	var warranties []model.Warranty
	err := r.db.Preload("Product").Preload("Customer").
		Order("end_date ASC").Find(&warranties).Error
	return warranties, err
}

func (r *warrantyRepo) FindByID(id uuid.UUID) (*model.Warranty, error) {
	var warranty model.Warranty
	err := r.db.Preload("Product").Preload("Customer").
		Preload("Claims", func(db *gorm.DB) *gorm.DB {
			return db.Order("claim_number ASC")
		}).
		Preload("Extensions").
		First(&warranty, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &warranty, nil
}

func (r *warrantyRepo) FindByCustomer(customerID uuid.UUID) ([]model.Warranty, error) {
	var warranties []model.Warranty
	err := r.db.Preload("Product").Where("customer_id = ?", customerID).
		Order("end_date ASC").Find(&warranties).Error
	return warranties, err
}

func (r *warrantyRepo) FindByProduct(productID uuid.UUID) ([]model.Warranty, error) {
	var warranties []model.Warranty
	err := r.db.Preload("Customer").Where("product_id = ?", productID).
		Order("end_date ASC").Find(&warranties).Error
	return warranties, err
}

func (r *warrantyRepo) FindEndingBetween(start, end time.Time) ([]model.Warranty, error) {
	var warranties []model.Warranty
	err := r.db.Preload("Product").Preload("Customer").
		Where("status = ?", model.WarrantyStatusActive).
		Where("end_date BETWEEN ? AND ?", start, end).
		Order("end_date ASC").
		Find(&warranties).Error
	return warranties, err
}

func (r *warrantyRepo) Update(warranty *model.Warranty) error {
	return r.db.Save(warranty).Error
}

func (r *warrantyRepo) AppendClaim(tx *gorm.DB, claim *model.WarrantyClaim) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(claim).Error
}

func (r *warrantyRepo) AppendExtension(tx *gorm.DB, ext *model.WarrantyExtension) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(ext).Error
}

func (r *warrantyRepo) CountByStatus() (map[model.WarrantyStatus]int64, error) {
	type row struct {
		Status model.WarrantyStatus
		Count  int64
	}
	var rows []row
	err := r.db.Model(&model.Warranty{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.WarrantyStatus]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}
