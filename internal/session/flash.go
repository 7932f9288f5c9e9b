package session

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
)

const flashCookieName = "inkwell_flash"

// Flash is a one-time notification surviving a redirect; it is shown on the
// next rendered page and then dropped.
type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// AddFlash queues a flash message for the next rendered page.
func AddFlash(c *fiber.Ctx, level, message string) {
	flashes := readFlashes(c)
	flashes = append(flashes, Flash{Level: level, Message: message})

	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    base64.URLEncoding.EncodeToString(data),
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// TakeFlashes returns queued flash messages and clears them.
func TakeFlashes(c *fiber.Ctx) []Flash {
	flashes := readFlashes(c)
	if len(flashes) == 0 {
		return nil
	}
	c.Cookie(&fiber.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	})
	return flashes
}

func readFlashes(c *fiber.Ctx) []Flash {
	raw := c.Cookies(flashCookieName)
	if raw == "" {
		return nil
	}
	data, err := base64.URLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
