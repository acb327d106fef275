package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/albadr/lighting-pos/internal/notify"
)

type TelegramHandler struct {
	telegram *notify.Telegram
}

func NewTelegramHandler(telegram *notify.Telegram) *TelegramHandler {
	return &TelegramHandler{telegram: telegram}
}

// GetSettings reports whether the notifier is configured. The token is
// never echoed back.
// GET /api/v1/telegram/settings
func (h *TelegramHandler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"enabled": h.telegram.Enabled()})
}

// UpdateSettings replaces the bot credentials at runtime
// POST /api/v1/telegram/settings
func (h *TelegramHandler) UpdateSettings(c *fiber.Ctx) error {
	var req struct {
		BotToken string `json:"bot_token"`
		ChatID   string `json:"chat_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}
	if req.BotToken == "" && req.ChatID == "" {
		return c.Status(400).JSON(fiber.Map{"error": "bot_token or chat_id is required"})
	}

	h.telegram.Configure(req.BotToken, req.ChatID)
	return c.JSON(fiber.Map{"message": "Settings updated", "enabled": h.telegram.Enabled()})
}

// SendTest pushes a test message to the configured chat
// POST /api/v1/telegram/test
func (h *TelegramHandler) SendTest(c *fiber.Ctx) error {
	if !h.telegram.Enabled() {
		return c.Status(400).JSON(fiber.Map{"error": "Telegram is not configured"})
	}
	if !h.telegram.Send("Test message from lighting POS backend") {
		return c.Status(502).JSON(fiber.Map{"error": "Telegram rejected the message"})
	}
	return c.JSON(fiber.Map{"message": "Test message sent"})
}
