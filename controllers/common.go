package controllers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/recyclink/recyclink/config"
	"github.com/recyclink/recyclink/middleware"
)

// getUserID extracts the authenticated user ID set by the auth middleware.
func getUserID(ctx *gin.Context) (string, bool) {
	id := ctx.GetString(middleware.ContextUserIDKey)
	return id, id != ""
}

// streakLocation resolves the timezone used for streak day boundaries.
func streakLocation() *time.Location {
	if tz := config.Get().Timezone; tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}
