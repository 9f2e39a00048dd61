package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// respond wraps a payload in the success envelope shared with the error
// middleware: {"success": true, "data": ...}.
func respond(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

func parseIntQuery(c *fiber.Ctx, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultVal
}

func parseBoolQuery(c *fiber.Ctx, key string) *bool {
	if val := c.Query(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return &parsed
		}
	}
	return nil
}

// parseDateQuery accepts YYYY-MM-DD values.
func parseDateQuery(c *fiber.Ctx, key string) *time.Time {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", val)
	if err != nil {
		return nil
	}
	return &parsed
}
