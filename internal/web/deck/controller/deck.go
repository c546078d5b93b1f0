// Package controller exposes the investor deck over HTTP.
package controller

import (
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/pixelforge-games/studio-api/internal/web/deck/dto"
	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
	"github.com/pixelforge-games/studio-api/internal/web/deck/service"
)

// SessionCookieName carries the deck session token.
const SessionCookieName = "deck_session"

const (
	msgTransient = "service temporarily unavailable, please retry"
	msgFailed    = "operation failed"
)

// landingURL is where denied visitors and failed admin logins land.
func landingURL() string {
	return gconfig.Shared.GetString("settings.site.landing_url")
}

// abortWithError maps service error kinds to responses. Raw backend
// errors never reach the client.
func abortWithError(ctx *gin.Context, err error) {
	gmw.GetLogger(ctx).Error("deck request failed", zap.Error(err))

	switch {
	case errors.Is(err, model.ErrInvalidRange),
		errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrUploadRejected):
		ctx.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrStoreUnavailable):
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable,
			gin.H{"error": msgTransient})
	case errors.Is(err, model.ErrFeatureUnavailable):
		ctx.AbortWithStatusJSON(http.StatusServiceUnavailable,
			gin.H{"error": "feature unavailable"})
	default:
		ctx.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": msgFailed})
	}
}

// RequireDeckAccess gates viewer routes. It checks the session cookie
// first, then an optional ?hash= access code; a successful redemption
// sets the long-lived cookie so the code is never needed again. Denied
// visitors are redirected to the public landing page, not an error page.
func RequireDeckAccess(ctx *gin.Context) {
	cookieToken, _ := ctx.Cookie(SessionCookieName)
	hash := ctx.Query("hash")

	authorized, newToken, err := service.GateInstance.
		CheckAccess(ctx.Request.Context(), cookieToken, hash)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	if !authorized {
		ctx.Redirect(http.StatusFound, landingURL())
		ctx.Abort()
		return
	}

	if newToken != "" {
		ctx.SetCookie(SessionCookieName, newToken,
			int(service.SessionTTL.Seconds()), "/", "", true, true)
	}

	ctx.Next()
}

// GetSlides returns the deck in display order.
func GetSlides(ctx *gin.Context) {
	slides, err := service.SlidesInstance.List(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &dto.SlidesResponse{Slides: slides})
}

// DownloadDeck streams the whole deck as one zip archive.
func DownloadDeck(ctx *gin.Context) {
	cnt, err := service.SlidesInstance.Bundle(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="investor-deck.zip"`)
	ctx.Data(http.StatusOK, "application/zip", cnt)
}
