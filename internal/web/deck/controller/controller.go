package controller

import (
	"context"

	"github.com/pixelforge-games/studio-api/internal/web/deck/service"
)

func Initialize(ctx context.Context) {
	service.Initialize(ctx)
}
