package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/repository"
)

func newWarrantyService(t *testing.T, db *gorm.DB) WarrantyService {
	t.Helper()
	return NewWarrantyService(
		repository.NewWarrantyRepo(db),
		repository.NewProductRepo(db),
		db, zerolog.Nop(),
	)
}

func seedWarranty(t *testing.T, db *gorm.DB, svc WarrantyService, months int) *model.Warranty {
	t.Helper()
	product := seedProduct(t, db, "Covered "+time.Now().Format("150405.000000"), 10, 2)
	warranty := &model.Warranty{
		ProductID:    product.ID,
		WarrantyType: model.WarrantyTypeManufacturer,
		Months:       months,
	}
	require.NoError(t, svc.CreateWarranty(warranty, "tester"))
	return warranty
}

func TestCreateWarrantyDerivesWindow(t *testing.T) {
	db := newTestDB(t)
	svc := newWarrantyService(t, db)

	warranty := seedWarranty(t, db, svc, 6)
	assert.Equal(t, model.WarrantyStatusActive, warranty.Status)
	assert.WithinDuration(t, warranty.StartDate.AddDate(0, 0, 6*model.WarrantyMonthDays), warranty.EndDate, time.Second)
	assert.Zero(t, warranty.ClaimCount)
}

func TestClaimAccumulates(t *testing.T) {
	db := newTestDB(t)
	svc := newWarrantyService(t, db)
	warranty := seedWarranty(t, db, svc, 12)

	first, err := svc.Claim(warranty.ID, &ClaimRequest{Issue: "driver failure"}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, first.ClaimCount)
	assert.Equal(t, model.WarrantyStatusClaimed, first.Status)

	// A claimed warranty inside its window still accepts claims.
	second, err := svc.Claim(warranty.ID, &ClaimRequest{
		Issue:      "flicker after repair",
		Technician: "Omar",
		Cost:       decimal.NewFromInt(5000),
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 2, second.ClaimCount)

	var claims []model.WarrantyClaim
	require.NoError(t, db.Where("warranty_id = ?", warranty.ID).Order("claim_number").Find(&claims).Error)
	require.Len(t, claims, 2)
	assert.Equal(t, 1, claims[0].ClaimNumber)
	assert.Equal(t, 2, claims[1].ClaimNumber)
	assert.Equal(t, "pending", claims[0].Status)
}

func TestClaimOutsideCoverage(t *testing.T) {
	db := newTestDB(t)
	svc := newWarrantyService(t, db)
	warranty := seedWarranty(t, db, svc, 1)

	// Push the window into the past without touching the stored status.
	warranty.StartDate = time.Now().AddDate(0, 0, -90)
	warranty.EndDate = time.Now().AddDate(0, 0, -60)
	require.NoError(t, db.Save(warranty).Error)

	_, err := svc.Claim(warranty.ID, &ClaimRequest{Issue: "late"}, "tester")
	assert.ErrorIs(t, err, ErrWarrantyNotClaim)

	require.NoError(t, svc.Void(warranty.ID, "fraudulent receipt", "tester"))
	_, err = svc.Claim(warranty.ID, &ClaimRequest{Issue: "still late"}, "tester")
	assert.ErrorIs(t, err, ErrWarrantyNotClaim)
}

func TestExtendFromCurrentEnd(t *testing.T) {
	db := newTestDB(t)
	svc := newWarrantyService(t, db)
	warranty := seedWarranty(t, db, svc, 6)
	originalEnd := warranty.EndDate

	resp, err := svc.Extend(warranty.ID, &ExtensionRequest{Months: 3, Reason: "goodwill"}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 9, resp.Months)
	assert.WithinDuration(t, originalEnd.AddDate(0, 0, 3*model.WarrantyMonthDays), resp.EndDate, time.Second)

	var exts []model.WarrantyExtension
	require.NoError(t, db.Where("warranty_id = ?", warranty.ID).Find(&exts).Error)
	require.Len(t, exts, 1)
	assert.Equal(t, 3, exts[0].Months)
}

func TestExtendRevivesStoredExpired(t *testing.T) {
	db := newTestDB(t)
	svc := newWarrantyService(t, db)
	warranty := seedWarranty(t, db, svc, 1)

	warranty.EndDate = time.Now().AddDate(0, 0, -5)
	warranty.Status = model.WarrantyStatusExpired
	require.NoError(t, db.Save(warranty).Error)

	resp, err := svc.Extend(warranty.ID, &ExtensionRequest{Months: 2}, "tester")
	require.NoError(t, err)
	assert.Equal(t, model.WarrantyStatusActive, resp.Status)
	assert.True(t, resp.EndDate.After(time.Now()))
}

func TestExtendVoidRejected(t *testing.T) {
	db := newTestDB(t)
	svc := newWarrantyService(t, db)
	warranty := seedWarranty(t, db, svc, 3)

	require.NoError(t, svc.Void(warranty.ID, "", "tester"))
	_, err := svc.Extend(warranty.ID, &ExtensionRequest{Months: 1}, "tester")
	assert.ErrorIs(t, err, ErrWarrantyVoided)
}

func TestVoidAppendsReasonToNotes(t *testing.T) {
	db := newTestDB(t)
	svc := newWarrantyService(t, db)
	warranty := seedWarranty(t, db, svc, 6)

	warranty.Notes = "customer dropped the unit"
	require.NoError(t, db.Save(warranty).Error)

	require.NoError(t, svc.Void(warranty.ID, "receipt mismatch", "tester"))

	reloaded, err := svc.GetWarrantyByID(warranty.ID)
	require.NoError(t, err)
	assert.Equal(t, model.WarrantyStatusVoid, reloaded.Status)
	assert.Equal(t, "customer dropped the unit\nVoided: receipt mismatch", reloaded.Notes)
}

func TestExpiringWithin(t *testing.T) {
	db := newTestDB(t)
	svc := newWarrantyService(t, db)

	soon := seedWarranty(t, db, svc, 6)
	soon.EndDate = time.Now().AddDate(0, 0, 10)
	require.NoError(t, db.Save(soon).Error)

	far := seedWarranty(t, db, svc, 6)
	far.EndDate = time.Now().AddDate(0, 0, 90)
	require.NoError(t, db.Save(far).Error)

	voided := seedWarranty(t, db, svc, 6)
	voided.EndDate = time.Now().AddDate(0, 0, 5)
	voided.Status = model.WarrantyStatusVoid
	require.NoError(t, db.Save(voided).Error)

	expiring, err := svc.ExpiringWithin(30)
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, soon.ID, expiring[0].ID)
}

func TestWarrantyStats(t *testing.T) {
	db := newTestDB(t)
	svc := newWarrantyService(t, db)

	active := seedWarranty(t, db, svc, 12)
	claimed := seedWarranty(t, db, svc, 12)
	_, err := svc.Claim(claimed.ID, &ClaimRequest{Issue: "dead on arrival"}, "tester")
	require.NoError(t, err)
	require.NoError(t, svc.Void(active.ID, "", "tester"))
	seedWarranty(t, db, svc, 12)

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Active)
	assert.Equal(t, int64(1), stats.Claimed)
	assert.Equal(t, int64(1), stats.Void)
}
