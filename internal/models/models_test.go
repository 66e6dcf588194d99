package models_test

import (
	"errors"
	"fmt"
	"testing"

	"mercado/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestRoleList_ValueScanRoundTrip(t *testing.T) {
	roles := models.RoleList{models.RoleUser, models.RoleSeller}

	value, err := roles.Value()
	assert.NoError(t, err)
	assert.Equal(t, `["user","seller"]`, value)

	var scanned models.RoleList
	assert.NoError(t, scanned.Scan(value))
	assert.Equal(t, roles, scanned)

	// Postgres hands back bytes, sqlite a string; both must work.
	assert.NoError(t, scanned.Scan([]byte(`["admin"]`)))
	assert.Equal(t, models.RoleList{models.RoleAdmin}, scanned)
}

func TestRoleList_ScanNil(t *testing.T) {
	var roles models.RoleList
	assert.NoError(t, roles.Scan(nil))
	assert.Empty(t, roles)
	assert.False(t, roles.Has(models.RoleUser))
}

func TestRoleList_ValueNil(t *testing.T) {
	var roles models.RoleList
	value, err := roles.Value()
	assert.NoError(t, err)
	// A nil set persists as an empty JSON array, not SQL NULL.
	assert.Equal(t, "[]", value)
}

func TestRoleList_HasAny(t *testing.T) {
	roles := models.RoleList{models.RoleUser, models.RoleSeller}

	assert.True(t, roles.Has(models.RoleSeller))
	assert.False(t, roles.Has(models.RoleAdmin))

	assert.True(t, roles.HasAny(models.RoleSeller, models.RoleAdmin))
	assert.False(t, roles.HasAny(models.RoleAdmin))
	// An empty required set means any authenticated user qualifies.
	assert.True(t, roles.HasAny())
	assert.True(t, models.RoleList{}.HasAny())
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "electronics", models.Slugify("Electronics"))
	assert.Equal(t, "home-appliances", models.Slugify("Home Appliances"))
	assert.Equal(t, "home-appliances", models.Slugify("  Home Appliances  "))
	assert.Equal(t, "juegos-de-mesa", models.Slugify("Juegos De Mesa"))
}

func TestAppError_IsMatchesByKind(t *testing.T) {
	notFound := models.NewNotFoundError("product gone")

	assert.True(t, errors.Is(notFound, models.NewNotFoundError("anything")))
	assert.False(t, errors.Is(notFound, models.NewConflictError("anything")))

	assert.True(t, models.IsKind(notFound, models.ErrKindNotFound))
	assert.False(t, models.IsKind(notFound, models.ErrKindConflict))
	assert.False(t, models.IsKind(errors.New("plain"), models.ErrKindNotFound))
	assert.False(t, models.IsKind(nil, models.ErrKindNotFound))
}

func TestAppError_WrappedKindsSurvive(t *testing.T) {
	cause := models.NewNotFoundError("row missing")
	wrapped := fmt.Errorf("loading profile: %w", cause)

	assert.True(t, models.IsKind(wrapped, models.ErrKindNotFound))
	assert.Equal(t, fiber.StatusNotFound, models.StatusCode(wrapped))
}

func TestAppError_InternalHidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := models.NewInternalError(cause)

	assert.Equal(t, "internal server error", err.Message)
	// The cause stays reachable for logging.
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, models.StatusCode(models.NewNotFoundError("x")))
	assert.Equal(t, fiber.StatusUnauthorized, models.StatusCode(models.NewUnauthorizedError("x")))
	assert.Equal(t, fiber.StatusForbidden, models.StatusCode(models.NewForbiddenError("x")))
	assert.Equal(t, fiber.StatusBadRequest, models.StatusCode(models.NewValidationError("x")))
	assert.Equal(t, fiber.StatusConflict, models.StatusCode(models.NewConflictError("x")))
	assert.Equal(t, fiber.StatusInternalServerError, models.StatusCode(models.NewInternalError(errors.New("x"))))
	assert.Equal(t, fiber.StatusInternalServerError, models.StatusCode(errors.New("untyped")))
}
