package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/albadr/lighting-pos/internal/model"
	"github.com/albadr/lighting-pos/internal/service"
)

type WarrantyHandler struct {
	service service.WarrantyService
}

func NewWarrantyHandler(s service.WarrantyService) *WarrantyHandler {
	return &WarrantyHandler{service: s}
}

func (h *WarrantyHandler) CreateWarranty(c *fiber.Ctx) error {
	var warranty model.Warranty
	if err := c.BodyParser(&warranty); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.CreateWarranty(&warranty, getUserID(c)); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Product not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(201).JSON(fiber.Map{"message": "Warranty created", "data": warranty})
}

func (h *WarrantyHandler) GetWarranties(c *fiber.Ctx) error {
	if raw := c.Query("customer_id"); raw != "" {
		customerID, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid customer ID"})
		}
		warranties, err := h.service.GetByCustomer(customerID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(warranties)
	}
	if raw := c.Query("product_id"); raw != "" {
		productID, err := parseUUID(raw)
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid product ID"})
		}
		warranties, err := h.service.GetByProduct(productID)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
		}
		return c.JSON(warranties)
	}

	warranties, err := h.service.GetWarranties()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	// Status filtering happens on the effective status so a lapsed
	// warranty shows up under expired even before anything is written.
	if status := model.WarrantyStatus(c.Query("status")); status != "" {
		if !status.IsValid() {
			return c.Status(400).JSON(fiber.Map{"error": "Invalid status filter"})
		}
		filtered := make([]model.WarrantyResponse, 0, len(warranties))
		for _, w := range warranties {
			if w.EffectiveStatus == status {
				filtered = append(filtered, w)
			}
		}
		warranties = filtered
	}
	return c.JSON(warranties)
}

func (h *WarrantyHandler) GetWarranty(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid warranty ID"})
	}

	warranty, err := h.service.GetWarrantyByID(id)
	if err != nil {
		if errors.Is(err, service.ErrWarrantyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Warranty not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(warranty)
}

func (h *WarrantyHandler) UpdateWarranty(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid warranty ID"})
	}

	var warranty model.Warranty
	if err := c.BodyParser(&warranty); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	updated, err := h.service.UpdateWarranty(id, &warranty, getUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrWarrantyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Warranty not found"})
		}
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "Warranty updated", "data": updated})
}

// Claim files a service request against a warranty
// POST /api/v1/warranties/:id/claim
func (h *WarrantyHandler) Claim(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid warranty ID"})
	}

	var req service.ClaimRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	warranty, err := h.service.Claim(id, &req, getUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWarrantyNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Warranty not found"})
		case errors.Is(err, service.ErrWarrantyNotClaim):
			return c.Status(409).JSON(fiber.Map{"error": "Warranty is expired or void"})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "Claim filed", "data": warranty})
}

// Extend pushes the coverage window out
// POST /api/v1/warranties/:id/extend
func (h *WarrantyHandler) Extend(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid warranty ID"})
	}

	var req service.ExtensionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	warranty, err := h.service.Extend(id, &req, getUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWarrantyNotFound):
			return c.Status(404).JSON(fiber.Map{"error": "Warranty not found"})
		case errors.Is(err, service.ErrWarrantyVoided):
			return c.Status(409).JSON(fiber.Map{"error": "Warranty is void"})
		default:
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"message": "Warranty extended", "data": warranty})
}

// Void cancels coverage
// DELETE /api/v1/warranties/:id
func (h *WarrantyHandler) Void(c *fiber.Ctx) error {
	id, err := parseUUID(c.Params("id"))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid warranty ID"})
	}

	var req struct {
		Reason string `json:"reason"`
	}
	// Body is optional for void.
	_ = c.BodyParser(&req)

	if err := h.service.Void(id, req.Reason, getUserID(c)); err != nil {
		if errors.Is(err, service.ErrWarrantyNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "Warranty not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(fiber.Map{"message": "Warranty voided"})
}

// Expiring lists warranties ending within the next N days (default 30)
// GET /api/v1/warranties/expiring?days=30
func (h *WarrantyHandler) Expiring(c *fiber.Ctx) error {
	days := c.QueryInt("days", 30)
	if days < 1 {
		return c.Status(400).JSON(fiber.Map{"error": "days must be positive"})
	}

	warranties, err := h.service.ExpiringWithin(days)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(warranties)
}

// Stats returns counts per warranty status
// GET /api/v1/warranties/stats
func (h *WarrantyHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Internal Server Error"})
	}
	return c.JSON(stats)
}
