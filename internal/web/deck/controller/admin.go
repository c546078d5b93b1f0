package controller

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pixelforge-games/studio-api/internal/web/deck/dto"
	"github.com/pixelforge-games/studio-api/internal/web/deck/service"
)

// UploadSlides appends the files of a multipart batch to the deck.
// Non-image files are reported as warnings, not batch failures.
func UploadSlides(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "invalid multipart form"})
		return
	}

	var files []service.UploadFile
	for _, fh := range form.File["slides"] {
		f, err := fh.Open()
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest,
				gin.H{"error": "unreadable file " + fh.Filename})
			return
		}

		cnt, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusBadRequest,
				gin.H{"error": "unreadable file " + fh.Filename})
			return
		}

		files = append(files, service.UploadFile{
			Name:    fh.Filename,
			Content: cnt,
		})
	}

	slides, warnings, err := service.SlidesInstance.
		Upload(ctx.Request.Context(), files)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &dto.SlidesResponse{
		Slides:   slides,
		Warnings: warnings,
	})
}

// MoveSlide reorders the deck with splice semantics.
func MoveSlide(ctx *gin.Context) {
	req := new(dto.MoveRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "invalid request body"})
		return
	}

	slides, err := service.SlidesInstance.
		Move(ctx.Request.Context(), req.Source, req.Destination)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &dto.SlidesResponse{Slides: slides})
}

// DeleteSlide removes one slide by position.
func DeleteSlide(ctx *gin.Context) {
	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "invalid slide index"})
		return
	}

	slides, err := service.SlidesInstance.Delete(ctx.Request.Context(), index)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &dto.SlidesResponse{Slides: slides})
}

// ClearSlides removes every slide and resets the order.
func ClearSlides(ctx *gin.Context) {
	if err := service.SlidesInstance.Clear(ctx.Request.Context()); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, &dto.SlidesResponse{Slides: nil})
}

// IssueCode creates an access code for one investor.
func IssueCode(ctx *gin.Context) {
	req := new(dto.IssueCodeRequest)
	if err := ctx.ShouldBindJSON(req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"error": "invalid request body"})
		return
	}

	code, err := service.GateInstance.
		IssueCode(ctx.Request.Context(), req.InvestorName)
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAccessCodeResponse(code))
}

// ListCodes returns every issued code, newest first.
func ListCodes(ctx *gin.Context) {
	codes, err := service.GateInstance.ListCodes(ctx.Request.Context())
	if err != nil {
		abortWithError(ctx, err)
		return
	}

	resp := make([]*dto.AccessCodeResponse, 0, len(codes))
	for _, code := range codes {
		resp = append(resp, dto.NewAccessCodeResponse(code))
	}
	ctx.JSON(http.StatusOK, resp)
}

// RevokeCode deletes a code. Session cookies already issued from it
// stay valid until they expire.
func RevokeCode(ctx *gin.Context) {
	if err := service.GateInstance.
		RevokeCode(ctx.Request.Context(), ctx.Param("id")); err != nil {
		abortWithError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
