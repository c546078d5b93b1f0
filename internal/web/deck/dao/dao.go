package dao

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"

	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
)

var (
	StorageInstance Storage
	LedgerInstance  *Ledger
	AccessInstance  *AccessCodes
)

func Initialize(ctx context.Context) {
	model.Initialize(ctx)

	StorageInstance = NewS3Storage(
		model.DeckS3,
		gconfig.Shared.GetString("settings.deck.bucket"),
		gconfig.Shared.GetString("settings.deck.public_base"),
	)
	LedgerInstance = NewLedger(StorageInstance,
		gconfig.Shared.GetString("settings.deck.folder"))
	AccessInstance = NewAccessCodes(model.DeckDB)
}
