// Package service implements the investor-deck business logic.
package service

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"

	"github.com/pixelforge-games/studio-api/internal/web/deck/dao"
	"github.com/pixelforge-games/studio-api/library/archive"
)

var (
	SlidesInstance *Slides
	GateInstance   *Gate
)

func Initialize(ctx context.Context) {
	dao.Initialize(ctx)

	SlidesInstance = NewSlides(
		dao.StorageInstance,
		dao.LedgerInstance,
		gconfig.Shared.GetString("settings.deck.folder"),
		archive.NewZipBundler(),
	)
	GateInstance = NewGate(dao.AccessInstance)
}
