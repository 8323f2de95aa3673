package handler

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	pkgerrors "github.com/random-spot/internal/pkg/errors"
)

// pathParam возвращает декодированный параметр пути ("C%C3%B4te%20d'Ivoire" -> "Côte d'Ivoire")
func pathParam(c *fiber.Ctx, name string) (string, error) {
	raw := c.Params(name)
	value, err := url.PathUnescape(raw)
	if err != nil {
		return "", pkgerrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			name: raw,
		})
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return "", pkgerrors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			name: "required",
		})
	}
	return value, nil
}
