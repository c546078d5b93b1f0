// Package web gin server
package web

import (
	"net/http"
	"net/url"
	"strings"

	ginMw "github.com/Laisky/gin-middlewares/v7"
	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	careers "github.com/pixelforge-games/studio-api/internal/web/careers/controller"
	deck "github.com/pixelforge-games/studio-api/internal/web/deck/controller"
	"github.com/pixelforge-games/studio-api/library/log"
)

var (
	server = gin.New()
)

func RunServer(addr string) {
	server.Use(
		gin.Recovery(),
		ginMw.NewLoggerMiddleware(
			ginMw.WithLoggerMwColored(),
			ginMw.WithLevel(log.Logger.Level().String()),
			ginMw.WithLogger(log.Logger.Named("gin")),
		),
		allowCORS,
	)
	if !gconfig.Shared.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := ginMw.EnableMetric(server); err != nil {
		log.Logger.Panic("enable metric server", zap.Error(err))
	}

	server.Any("/health", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "hello, world")
	})

	// public site
	server.GET("/careers", careers.ListPostings)

	// investor deck viewer, cookie or single-use code
	viewer := server.Group("/deck", deck.RequireDeckAccess)
	viewer.GET("/slides", deck.GetSlides)
	viewer.GET("/download", deck.DownloadDeck)

	// admin surface, fixed credential
	admin := server.Group("/admin", RequireAdmin)
	admin.POST("/deck/slides", deck.UploadSlides)
	admin.POST("/deck/slides/move", deck.MoveSlide)
	admin.DELETE("/deck/slides/:index", deck.DeleteSlide)
	admin.DELETE("/deck/slides", deck.ClearSlides)
	admin.POST("/deck/codes", deck.IssueCode)
	admin.GET("/deck/codes", deck.ListCodes)
	admin.DELETE("/deck/codes/:id", deck.RevokeCode)
	admin.GET("/careers", careers.ListAllPostings)
	admin.POST("/careers", careers.CreatePosting)
	admin.PUT("/careers/:id", careers.UpdatePosting)
	admin.DELETE("/careers/:id", careers.DeletePosting)

	log.Logger.Info("listening on http", zap.String("addr", addr))
	log.Logger.Panic("httpServer exit", zap.Error(server.Run(addr)))
}

func allowCORS(ctx *gin.Context) {
	origin := ctx.Request.Header.Get("Origin")
	allowedOrigin := ""

	if origin != "" {
		parsedOriginURL, err := url.Parse(origin)
		if err == nil {
			host := strings.ToLower(parsedOriginURL.Hostname())
			if strings.HasSuffix(host, ".pixelforge.games") || host == "pixelforge.games" {
				allowedOrigin = origin
			}
		}
	}

	if allowedOrigin != "" {
		ctx.Header("Access-Control-Allow-Origin", allowedOrigin)
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers",
			"Origin, Content-Type, Accept, Authorization, X-Admin-Token")
		ctx.Header("Access-Control-Allow-Methods",
			"GET, POST, PUT, DELETE, OPTIONS")
	}

	if ctx.Request.Method == http.MethodOptions {
		ctx.AbortWithStatus(http.StatusNoContent)
		return
	}

	ctx.Next()
}
