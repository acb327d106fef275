package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/albadr/lighting-pos/internal/model"
)

// getUserID reads the actor id set by the auth middleware.
func getUserID(c *fiber.Ctx) string {
	userID := c.Locals("user_id")
	if userID == nil {
		return "system" // shouldn't happen on protected routes
	}
	return userID.(string)
}

func getUserName(c *fiber.Ctx) string {
	userName := c.Locals("user_name")
	if userName == nil {
		return "Unknown"
	}
	return userName.(string)
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// parseDateRange reads ?start=YYYY-MM-DD&end=YYYY-MM-DD, defaulting to
// the last 30 days. The end bound is pushed to end of day so same-day
// ranges include today's rows.
func parseDateRange(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	start := now.AddDate(0, 0, -30)
	end := now

	if raw := c.Query("start"); raw != "" {
		parsed, err := time.Parse(model.DateOnly, raw)
		if err != nil {
			return start, end, fiber.NewError(400, "invalid start date, use YYYY-MM-DD")
		}
		start = parsed
	}
	if raw := c.Query("end"); raw != "" {
		parsed, err := time.Parse(model.DateOnly, raw)
		if err != nil {
			return start, end, fiber.NewError(400, "invalid end date, use YYYY-MM-DD")
		}
		end = parsed.Add(24*time.Hour - time.Second)
	}
	return start, end, nil
}
