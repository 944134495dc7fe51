package visitor

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	CookieName = "visitor"
	LocalsKey  = "visitor_id"
)

type Config struct {
	Secret        string
	TTL           time.Duration
	SecureCookies bool
}

// Middleware makes sure every request carries a visitor ID. A missing or
// invalid cookie is replaced by a fresh one; the ID is stored in Locals.
func Middleware(cfg Config) fiber.Handler {
	if cfg.TTL <= 0 {
		cfg.TTL = 30 * 24 * time.Hour
	}
	return func(c *fiber.Ctx) error {
		if tok := c.Cookies(CookieName); tok != "" {
			if claims, err := ParseToken(tok, cfg.Secret); err == nil {
				c.Locals(LocalsKey, claims.VisitorID())
				return c.Next()
			}
		}

		id := uuid.NewString()
		tok, err := NewToken(id, cfg.Secret, cfg.TTL)
		if err != nil {
			return err
		}
		c.Cookie(&fiber.Cookie{
			Name:     CookieName,
			Value:    tok,
			Path:     "/",
			Expires:  time.Now().Add(cfg.TTL),
			HTTPOnly: true,
			Secure:   cfg.SecureCookies,
			SameSite: "Lax",
		})
		c.Locals(LocalsKey, id)
		return c.Next()
	}
}

// ID returns the visitor ID set by Middleware, or "".
func ID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalsKey).(string)
	return id
}
