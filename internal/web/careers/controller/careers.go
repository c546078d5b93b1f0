// Package controller exposes job postings over HTTP.
package controller

import (
	"context"
	"net/http"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/pixelforge-games/studio-api/internal/web/careers/model"
	"github.com/pixelforge-games/studio-api/internal/web/careers/service"
)

func Initialize(ctx context.Context) {
	service.Initialize(ctx)
}

func abortWithError(ctx *gin.Context, err error) {
	gmw.GetLogger(ctx).Error("careers request failed", zap.Error(err))

	switch {
	case errors.Is(err, model.ErrInvalidInput):
		ctx.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		ctx.AbortWithStatusJSON(http.StatusNotFound,
			gin.H{"error": "posting not found"})
	default:
		ctx.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"error": "operation failed"})
	}
}

// ListPostings returns published postings for the public careers page.
func ListPostings(ctx *gin.Context) {
	postings, err := service.Instance.ListPublished(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, postings)
}

// ListAllPostings includes drafts, admin only.
func ListAllPostings(ctx *gin.Context) {
	postings, err := service.Instance.ListAll(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, postings)
}

// CreatePosting adds a new job posting.
func CreatePosting(ctx *gin.Context) {
	posting := new(model.Posting)
	if err := ctx.ShouldBindJSON(posting); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "invalid request body"})
		return
	}

	created, err := service.Instance.Create(ctx.Request.Context(), posting)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// UpdatePosting replaces a posting's content.
func UpdatePosting(ctx *gin.Context) {
	posting := new(model.Posting)
	if err := ctx.ShouldBindJSON(posting); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "invalid request body"})
		return
	}

	updated, err := service.Instance.
		Update(ctx.Request.Context(), ctx.Param("id"), posting)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// DeletePosting removes a posting.
func DeletePosting(ctx *gin.Context) {
	if err := service.Instance.
		Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
