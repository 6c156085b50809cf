package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"repairshop/internal/apperror"
	"repairshop/internal/middleware"
	"repairshop/internal/model"
	"repairshop/pkg/response"
)

// Guard builds role checks against one signing secret.
type Guard struct {
	secret []byte
}

func NewGuard(secret []byte) Guard {
	return Guard{secret: secret}
}

func (g Guard) Roles(roles ...string) gin.HandlerFunc {
	return middleware.RequireRole(g.secret, roles...)
}

// Staff admits admins and technicians.
func (g Guard) Staff() gin.HandlerFunc {
	return g.Roles(model.RoleAdmin, model.RoleTechnician)
}

func (g Guard) Admin() gin.HandlerFunc {
	return g.Roles(model.RoleAdmin)
}

// Portal admits client accounts; the handler scopes data to their client.
func (g Guard) Portal() gin.HandlerFunc {
	return g.Roles(model.RoleClient)
}

func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.KeyUserID)
}

// portalClientID returns the client bound to the caller's token and aborts
// the request when there is none.
func portalClientID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.KeyClientID))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "Account is not linked to a client"))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUIDQuery reads an optional uuid query parameter.
func optionalUUIDQuery(c *gin.Context, name string) (*uuid.UUID, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperror.Validation("invalid %s: %q", name, raw)
	}
	return &id, nil
}

// optionalTimeQuery reads an optional RFC3339 query parameter.
func optionalTimeQuery(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, apperror.Validation("invalid %s format, expected RFC3339", name)
	}
	return &t, nil
}
