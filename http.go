package tasks

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

const (
	// CurrentUserKey is the locals key holding the resolved *User for the request.
	CurrentUserKey = "current_user"
	// HeaderWWWAuthenticate is set on every 401 response.
	HeaderWWWAuthenticate = "WWW-Authenticate"

	authScheme = "Bearer"
)

// Protected returns a middleware that resolves the Authorization bearer token
// into a typed identity and stores it in the request locals. The identity is
// resolved exactly once per request; handlers read it with CurrentUser.
func Protected(auther *Auther, logger Logger) fiber.Handler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx) error {
		raw, err := extractBearerToken(c)
		if err != nil {
			return RenderError(c, err)
		}

		user, err := auther.IdentityFromToken(c.Context(), raw)
		if err != nil {
			logger.Debug("protected route rejected token", "path", c.Path(), "error", err)
			return RenderError(c, err)
		}

		c.Locals(CurrentUserKey, user)
		return c.Next()
	}
}

// CurrentUser returns the identity stored by Protected.
func CurrentUser(c *fiber.Ctx) (*User, error) {
	user, ok := c.Locals(CurrentUserKey).(*User)
	if !ok || user == nil {
		return nil, errors.New("Not authenticated", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}
	return user, nil
}

func extractBearerToken(c *fiber.Ctx) (string, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", errors.New("Not authenticated", errors.CategoryAuth).
			WithCode(errors.CodeUnauthorized)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], authScheme) || parts[1] == "" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}

// RenderError translates a classified error into an HTTP response. Auth
// failures always carry WWW-Authenticate and a distinguishing detail string;
// nothing in the auth taxonomy ever becomes a 500.
func RenderError(c *fiber.Ctx, err error) error {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
			WithCode(errors.CodeInternal)
	}

	status := richErr.Code
	if status == 0 {
		status = statusFromCategory(richErr.Category)
	}

	if richErr.Category == errors.CategoryAuth || richErr.Category == errors.CategoryAuthz {
		c.Set(HeaderWWWAuthenticate, authScheme)
	}

	return c.Status(status).JSON(fiber.Map{
		"detail": richErr.Message,
	})
}

func statusFromCategory(category errors.Category) int {
	switch category {
	case errors.CategoryAuth, errors.CategoryAuthz:
		return fiber.StatusUnauthorized
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryValidation:
		return fiber.StatusUnprocessableEntity
	case errors.CategoryBadInput, errors.CategoryConflict:
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
