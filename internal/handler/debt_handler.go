package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/repository"
	"github.com/albadr/lighting-pos/internal/service"
)

type DebtHandler struct {
	service service.DebtService
}

func NewDebtHandler(s service.DebtService) *DebtHandler {
	return &DebtHandler{service: s}
}

func (h *DebtHandler) CreateCompany(c *fiber.Ctx) error {
	var company model.Company
	if err := c.BodyParser(&company); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateCompany(&company, getUserID(c)); err != nil {
		if errors.Is(err, service.ErrCompanyTaken) {
			return c.Status(409).JSON(fiber.Map{"error": "Company name already exists"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Company created", "data": company})
}

func (h *DebtHandler) GetCompanies(c *fiber.Ctx) error {
	companies, err := h.service.GetCompanies(c.QueryBool("active"))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(companies)
}

func (h *DebtHandler) GetCompany(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	company, err := h.service.GetCompanyByID(id)
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Company not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(company)
}

func (h *DebtHandler) UpdateCompany(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid company ID"})
	}

	var company model.Company
	if err := c.BodyParser(&company); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateCompany(id, &company, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Company not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Company updated", "data": updated})
}

// CompanySummaries returns per-company outstanding balances
// GET /api/v1/companies/summary
func (h *DebtHandler) CompanySummaries(c *fiber.Ctx) error {
	summaries, err := h.service.CompanySummaries()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(summaries)
}

func (h *DebtHandler) CreateDebt(c *fiber.Ctx) error {
	var debt model.CompanyDebt
	if err := c.BodyParser(&debt); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateDebt(&debt, getUserID(c)); err != nil {
		if errors.Is(err, service.ErrCompanyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Company not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Debt recorded", "data": debt})
}

func (h *DebtHandler) GetDebts(c *fiber.Ctx) error {
	filter := repository.DebtFilter{
		Status:        model.DebtStatus(c.Query("status")),
		OverdueOnly:   c.QueryBool("overdue"),
		InvoiceNumber: c.Query("search"),
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid status filter"})
	}
	if raw := c.Query("company_id"); raw != "" {
		companyID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid company ID"})
		}
		filter.CompanyID = &companyID
	}
	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(model.DateOnly, raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid start date, use YYYY-MM-DD"})
		}
		filter.DateFrom = &parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(model.DateOnly, raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid end date, use YYYY-MM-DD"})
		}
		filter.DateTo = &parsed
	}

	debts, err := h.service.GetDebts(filter)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(debts)
}

func (h *DebtHandler) GetDebt(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid debt ID"})
	}

	debt, err := h.service.GetDebtByID(id)
	if err != nil {
		if errors.Is(err, service.ErrDebtNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Debt not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(debt)
}

// RecordPayment applies a payment against an invoice
// POST /api/v1/debts/:id/payments
func (h *DebtHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid debt ID"})
	}

	var req service.PaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	debt, err := h.service.RecordPayment(id, &req, getUserName(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDebtNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Debt not found"})
		case errors.Is(err, service.ErrOverPayment), errors.Is(err, service.ErrDebtSettled):
			return c.Status(409).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "Payment recorded", "data": debt})
}

// GetPayments lists payments for one invoice
// GET /api/v1/debts/:id/payments
func (h *DebtHandler) GetPayments(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid debt ID"})
	}

	payments, err := h.service.GetPayments(id)
	if err != nil {
		if errors.Is(err, service.ErrDebtNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Debt not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(payments)
}

// GetInteractions returns the append-only history for one invoice
// GET /api/v1/debts/:id/interactions
func (h *DebtHandler) GetInteractions(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid debt ID"})
	}

	interactions, err := h.service.GetInteractions(id)
	if err != nil {
		if errors.Is(err, service.ErrDebtNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Debt not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(interactions)
}

// Report returns collection figures for a date range
// GET /api/v1/debts/report?start=YYYY-MM-DD&end=YYYY-MM-DD
func (h *DebtHandler) Report(c *fiber.Ctx) error {
	start, end, err := parseDateRange(c)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.Report(start, end)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(report)
}
