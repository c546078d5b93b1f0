package dao

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
	"github.com/pixelforge-games/studio-api/library/log"
)

// Ledger persists the slide-order sidecar document next to the images.
// The document is an index over the real files, never the source of
// their existence; reconciliation in the service layer heals any drift.
type Ledger struct {
	storage Storage
	folder  string
}

func NewLedger(storage Storage, folder string) *Ledger {
	return &Ledger{storage: storage, folder: folder}
}

func (l *Ledger) path() string {
	return l.folder + "/" + model.OrderFileName
}

// Fetch loads the order document. A missing sidecar is the normal
// first-run state and returns (nil, nil), not an error.
func (l *Ledger) Fetch(ctx context.Context) (*model.Order, error) {
	cnt, err := l.storage.Download(ctx, l.path())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, nil
		}

		return nil, errors.Wrap(err, "download order")
	}

	order := new(model.Order)
	if err = json.Unmarshal(cnt, order); err != nil {
		// corrupted sidecar is treated as absent, reconciliation rebuilds it
		log.Logger.Warn("corrupted slide order, will rebuild",
			zap.String("folder", l.folder), zap.Error(err))
		return nil, nil
	}

	return order, nil
}

// Save upserts the order document with the current timestamp. On failure
// the previous persisted state is untouched and the caller must not
// treat its in-memory order as saved.
func (l *Ledger) Save(ctx context.Context, names []string) error {
	if names == nil {
		// the document always carries an array, never null
		names = []string{}
	}

	order := &model.Order{
		Slides:      names,
		LastUpdated: time.Now().UnixMilli(),
	}
	cnt, err := json.Marshal(order)
	if err != nil {
		return errors.Wrap(err, "marshal order")
	}

	if err = l.storage.Upload(ctx, l.path(), cnt,
		"application/json", true); err != nil {
		return errors.Wrap(err, "upload order")
	}

	// verification read, failure is logged only
	if saved, err := l.Fetch(ctx); err != nil || saved == nil ||
		!slices.Equal(saved.Slides, names) {
		log.Logger.Warn("verify saved slide order",
			zap.String("folder", l.folder), zap.Error(err))
	}

	return nil
}
