package service

import (
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/albadr/lighting-pos/internal/model"
)

// newTestDB opens an in-memory sqlite store with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.Product{}, &model.Category{}, &model.Customer{},
		&model.Sale{}, &model.SaleItem{},
		&model.Expense{},
		&model.Order{}, &model.OrderItem{},
		&model.Warranty{}, &model.WarrantyClaim{}, &model.WarrantyExtension{},
		&model.Company{}, &model.CompanyDebt{}, &model.DebtPayment{}, &model.DebtInteraction{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	))
	return db
}

// stubNotifier records dispatched notifications. Sends happen from
// goroutines, hence the lock; tests that assert on them should poll or
// avoid the assertion.
type stubNotifier struct {
	mu    sync.Mutex
	sent  []string
	calls map[string]int
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{calls: map[string]int{}}
}

func (n *stubNotifier) record(kind, text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, text)
	n.calls[kind]++
}

func (n *stubNotifier) Send(text string) bool {
	n.record("send", text)
	return true
}

func (n *stubNotifier) NotifySale(customerName string, total decimal.Decimal, currency string, itemCount int) {
	n.record("sale", customerName)
}

func (n *stubNotifier) NotifyLowStock(productName string, quantity, minLevel int) {
	n.record("low_stock", productName)
}

func (n *stubNotifier) NotifyExpense(description string, amount decimal.Decimal, currency string) {
	n.record("expense", description)
}

func (n *stubNotifier) NotifyNewOrder(customerName, phone string, total decimal.Decimal, currency, orderType string, itemCount int) {
	n.record("new_order", customerName)
}

func (n *stubNotifier) NotifyOrderStatus(customerName string, oldStatus, newStatus string) {
	n.record("order_status", newStatus)
}

func (n *stubNotifier) NotifyDebtPayment(companyName, invoiceNumber string, amount, remaining decimal.Decimal) {
	n.record("debt_payment", invoiceNumber)
}

func (n *stubNotifier) NotifyDailySummary(totalSales decimal.Decimal, salesCount int64, totalExpenses decimal.Decimal) {
	n.record("daily_summary", "")
}

func (n *stubNotifier) count(kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.calls[kind]
}
