package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/yigit/schoolportal/internal/middleware"
	"github.com/yigit/schoolportal/internal/pkg/apperrors"
)

// Mounter registers a screen's handlers on the group of its route
type Mounter interface {
	Mount(rg *gin.RouterGroup)
}

// MounterFunc adapts a function to Mounter
type MounterFunc func(rg *gin.RouterGroup)

// Mount calls f(rg)
func (f MounterFunc) Mount(rg *gin.RouterGroup) { f(rg) }

// SetupRouter mounts the public pages on rg, then every route of Table
// behind the role guard. Routes sharing a screen share its implementation.
func SetupRouter(rg *gin.RouterGroup, screens map[Screen]Mounter, public Mounter) error {
	public.Mount(rg)

	for _, route := range Table {
		screen, ok := screens[route.Screen]
		if !ok {
			return fmt.Errorf("%w: %s for %s", apperrors.ErrUnknownScreen, route.Screen, route.Path)
		}

		// --- Guarded route ---
		group := rg.Group(route.Path)
		group.Use(middleware.RequireRoles(route.Roles...))
		screen.Mount(group)
	}
	return nil
}
