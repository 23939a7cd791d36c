package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/EswarAdeshCh/Service-Desk/internal/auth"
	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
	apperrors "github.com/EswarAdeshCh/Service-Desk/pkg/util"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// pageQuery reads page/limit query params and converts them to an offset.
func pageQuery(c *fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page <= 0 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", strconv.Itoa(defaultPageSize)))
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit, (page - 1) * limit
}

// statusQuery reads an optional status filter.
func statusQuery(c *fiber.Ctx) (*domain.ComplaintStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status := domain.ComplaintStatus(raw)
	if !domain.ValidStatus(status) {
		return nil, apperrors.NewValidationError("Invalid status filter", map[string]any{"status": raw})
	}
	return &status, nil
}

// requirePrincipal loads the authenticated user or fails the request.
func requirePrincipal(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("Access token required")
	}
	return principal, nil
}
