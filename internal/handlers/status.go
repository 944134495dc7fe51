package handlers

import (
	"errors"

	"givingbank/internal/drafts"
	"givingbank/internal/visitor"
	"givingbank/views/partials"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Notifications returns the visitor's current notification. htmx polls it
// to pick up notifications raised by delayed callbacks.
func Notifications(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := env.page(c)
		n, ok := p.Notifier.Current()
		if wantsJSON(c) {
			if !ok {
				return c.SendStatus(fiber.StatusNoContent)
			}
			return c.JSON(n)
		}
		return render(c, partials.Toast(n, ok))
	}
}

func DismissNotification(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := env.page(c)
		p.Notifier.Dismiss()
		if wantsJSON(c) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return render(c, toast(p))
	}
}

// HoursDraft returns the visitor's saved hours form as JSON.
func HoursDraft(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := visitor.ID(c)
		d, err := env.Forms.LoadHoursDraft(c.UserContext(), id)
		if errors.Is(err, drafts.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "No saved hours",
			})
		}
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load saved hours",
			})
		}
		return c.JSON(fiber.Map{
			"key":      d.Key,
			"values":   d.Values,
			"saved_at": d.SavedAt,
		})
	}
}

// Health reports liveness plus the number of live visitor pages.
func Health(env *Env) fiber.Handler {
	return func(c *fiber.Ctx) error {
		visitors := env.Sessions.Len()
		env.Log.Debug("health check", zap.Int("visitors", visitors))
		return c.JSON(fiber.Map{
			"status":   "ok",
			"visitors": visitors,
		})
	}
}
