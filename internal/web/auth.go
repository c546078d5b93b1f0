package web

import (
	"crypto/subtle"
	"net/http"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/gin-gonic/gin"
)

// RequireAdmin gates the admin surface by comparing the supplied token
// against the configured administrative credential. A mismatch sends
// the visitor to the public landing page rather than an error page.
func RequireAdmin(ctx *gin.Context) {
	token := ctx.GetHeader("X-Admin-Token")
	if token == "" {
		token = ctx.Query("token")
	}

	expected := gconfig.Shared.GetString("settings.admin_token")
	if expected == "" ||
		subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
		ctx.Redirect(http.StatusFound,
			gconfig.Shared.GetString("settings.site.landing_url"))
		ctx.Abort()
		return
	}

	ctx.Next()
}
