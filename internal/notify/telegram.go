package notify

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Notifier is the outbound messaging contract consumed by the services.
// Implementations must never block the caller beyond their own timeout
// and must report failure as a boolean, not an error: dispatch is
// fire-and-forget and can never fail a primary operation.
type Notifier interface {
	Send(text string) bool
	NotifySale(customerName string, total decimal.Decimal, currency string, itemCount int)
	NotifyLowStock(productName string, quantity, minLevel int)
	NotifyExpense(description string, amount decimal.Decimal, currency string)
	NotifyNewOrder(customerName, phone string, total decimal.Decimal, currency, orderType string, itemCount int)
	NotifyOrderStatus(customerName string, oldStatus, newStatus string)
	NotifyDebtPayment(companyName, invoiceNumber string, amount, remaining decimal.Decimal)
	NotifyDailySummary(totalSales decimal.Decimal, salesCount int64, totalExpenses decimal.Decimal)
}

// Telegram sends templated texts to a chat via the Bot API. Unconfigured
// (empty token or chat id) it stays disabled: sends log and return false.
// Credentials are guarded because Configure runs on the settings endpoint
// while notification goroutines read them.
type Telegram struct {
	mu       sync.RWMutex
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	log      zerolog.Logger
}

func NewTelegram(botToken, chatID string, log zerolog.Logger) *Telegram {
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  "https://api.telegram.org",
		client:   &http.Client{Timeout: 10 * time.Second},
		log:      log.With().Str("component", "telegram").Logger(),
	}
}

// Enabled reports whether both credentials are configured.
func (t *Telegram) Enabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.botToken != "" && t.chatID != ""
}

// Configure replaces the credentials at runtime (settings endpoint).
func (t *Telegram) Configure(botToken, chatID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if botToken != "" {
		t.botToken = botToken
	}
	if chatID != "" {
		t.chatID = chatID
	}
}

// Send posts one message. Failures are logged and swallowed.
func (t *Telegram) Send(text string) bool {
	t.mu.RLock()
	botToken, chatID := t.botToken, t.chatID
	t.mu.RUnlock()

	if botToken == "" || chatID == "" {
		t.log.Debug().Msg("telegram not configured, message dropped")
		return false
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, botToken)
	form := url.Values{
		"chat_id": {chatID},
		"text":    {text},
	}

	resp, err := t.client.PostForm(endpoint, form)
	if err != nil {
		t.log.Warn().Err(err).Msg("telegram send failed")
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.log.Warn().Int("status", resp.StatusCode).Msg("telegram send rejected")
		return false
	}
	return true
}

func (t *Telegram) NotifySale(customerName string, total decimal.Decimal, currency string, itemCount int) {
	msg := fmt.Sprintf(
		"New sale\nCustomer: %s\nAmount: %s %s\nItems: %d\nDate: %s",
		customerName, total.StringFixed(2), currency, itemCount,
		time.Now().Format("2006/01/02 15:04"),
	)
	t.Send(msg)
}

func (t *Telegram) NotifyLowStock(productName string, quantity, minLevel int) {
	msg := fmt.Sprintf(
		"Low stock alert\nProduct: %s\nRemaining: %d\nMinimum: %d",
		productName, quantity, minLevel,
	)
	t.Send(msg)
}

func (t *Telegram) NotifyExpense(description string, amount decimal.Decimal, currency string) {
	msg := fmt.Sprintf(
		"New expense\nDescription: %s\nAmount: %s %s",
		description, amount.StringFixed(2), currency,
	)
	t.Send(msg)
}

func (t *Telegram) NotifyNewOrder(customerName, phone string, total decimal.Decimal, currency, orderType string, itemCount int) {
	msg := fmt.Sprintf(
		"New order\nCustomer: %s\nPhone: %s\nAmount: %s %s\nType: %s\nItems: %d",
		customerName, phone, total.StringFixed(2), currency, orderType, itemCount,
	)
	t.Send(msg)
}

func (t *Telegram) NotifyOrderStatus(customerName string, oldStatus, newStatus string) {
	msg := fmt.Sprintf(
		"Order status changed\nCustomer: %s\n%s -> %s",
		customerName, oldStatus, newStatus,
	)
	t.Send(msg)
}

func (t *Telegram) NotifyDebtPayment(companyName, invoiceNumber string, amount, remaining decimal.Decimal) {
	msg := fmt.Sprintf(
		"Debt payment received\nCompany: %s\nInvoice: %s\nPaid: %s\nRemaining: %s",
		companyName, invoiceNumber, amount.StringFixed(2), remaining.StringFixed(2),
	)
	t.Send(msg)
}

func (t *Telegram) NotifyDailySummary(totalSales decimal.Decimal, salesCount int64, totalExpenses decimal.Decimal) {
	lines := []string{
		"Daily summary",
		fmt.Sprintf("Sales: %s (%d transactions)", totalSales.StringFixed(2), salesCount),
		fmt.Sprintf("Expenses: %s", totalExpenses.StringFixed(2)),
		fmt.Sprintf("Net: %s", totalSales.Sub(totalExpenses).StringFixed(2)),
	}
	t.Send(strings.Join(lines, "\n"))
}
