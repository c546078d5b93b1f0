package service

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pixelforge-games/studio-api/internal/web/deck/dao"
	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
	"github.com/pixelforge-games/studio-api/library/archive"
	"github.com/pixelforge-games/studio-api/library/log"
)

// UploadFile is one user-submitted file of an upload batch.
type UploadFile struct {
	Name    string
	Content []byte
}

// Slides manages the deck's slide collection. The order ledger is the
// single source of truth for display order; the object listing is the
// source of truth for existence. Every read goes through reconciliation
// of the two, every mutation bumps the version used for cache-busting
// URLs.
type Slides struct {
	storage dao.Storage
	ledger  *dao.Ledger
	folder  string
	bundler archive.Bundler

	mu      sync.Mutex
	version int64
}

func NewSlides(storage dao.Storage, ledger *dao.Ledger,
	folder string, bundler archive.Bundler) *Slides {
	return &Slides{
		storage: storage,
		ledger:  ledger,
		folder:  folder,
		bundler: bundler,
		version: time.Now().UnixMilli(),
	}
}

// bumpVersion advances the monotonic as-of timestamp so that every
// slide URL rendered after a mutation misses the client cache.
func (s *Slides) bumpVersion() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.version = max(time.Now().UnixMilli(), s.version+1)
}

func (s *Slides) currentVersion() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// reconcile rebuilds a consistent ordered name list from the ledger and
// the actual file listing:
//
//  1. list image files, the sidecar and marker objects excluded;
//  2. no ledger yet: synthesize from the listing and persist;
//  3. ledger present: keep its relative order, drop dangling names,
//     then append files the ledger does not know about yet;
//  4. ledger present but nothing in it survives while files exist:
//     rebuild from the listing instead of showing an empty deck.
func (s *Slides) reconcile(ctx context.Context) ([]string, error) {
	infos, err := s.storage.List(ctx, s.folder)
	if err != nil {
		return nil, errors.Wrap(err, "list slide folder")
	}

	var listed []string
	for _, info := range infos {
		if model.IsImageName(info.Name) {
			listed = append(listed, info.Name)
		}
	}

	order, err := s.ledger.Fetch(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "fetch slide order")
	}

	if order == nil {
		if err = s.ledger.Save(ctx, listed); err != nil {
			// still serve the synthesized order, persist on next write
			log.Logger.Warn("persist synthesized slide order", zap.Error(err))
		}

		return listed, nil
	}

	exists := make(map[string]bool, len(listed))
	for _, name := range listed {
		exists[name] = true
	}

	var ordered []string
	for _, name := range order.Slides {
		if exists[name] {
			ordered = append(ordered, name)
			delete(exists, name)
		}
	}

	if len(ordered) == 0 && len(listed) > 0 {
		// stale or corrupted ledger, fall back to the listing
		ordered = listed
	} else {
		// adopt files the ledger never saw, e.g. after a failed save
		for _, name := range listed {
			if exists[name] {
				ordered = append(ordered, name)
			}
		}
	}

	if !slices.Equal(ordered, order.Slides) {
		if err = s.ledger.Save(ctx, ordered); err != nil {
			log.Logger.Warn("persist reconciled slide order", zap.Error(err))
		}
	}

	return ordered, nil
}

func (s *Slides) toSlides(names []string) []model.Slide {
	t := s.currentVersion()
	slides := make([]model.Slide, 0, len(names))
	for _, name := range names {
		slides = append(slides, model.Slide{
			Name: name,
			URL: fmt.Sprintf("%s?t=%d",
				s.storage.PublicURL(s.folder+"/"+name), t),
		})
	}

	return slides
}

// List returns the deck in display order.
func (s *Slides) List(ctx context.Context) ([]model.Slide, error) {
	names, err := s.reconcile(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return s.toSlides(names), nil
}

// newSlideName generates a filename that cannot collide with any
// existing slide. Names are immutable: reordering only touches the
// ledger, never the objects.
func newSlideName(original string) string {
	ext := strings.ToLower(path.Ext(original))
	return fmt.Sprintf("%d-%s%s",
		time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}

// Upload appends the given files to the deck. Rejected entries, whether
// a non-image type or a store-side quota/type refusal, are skipped with
// a per-file warning while the rest of the batch continues; only
// store-availability failures fail the batch.
func (s *Slides) Upload(ctx context.Context,
	files []UploadFile) (slides []model.Slide, warnings []string, err error) {
	var (
		nameMu   sync.Mutex
		newNames []string
		rejected []string
	)

	var pool errgroup.Group
	for _, f := range files {
		if !model.IsImageName(f.Name) {
			warnings = append(warnings,
				fmt.Sprintf("%s: not an image, skipped", f.Name))
			continue
		}

		origName := f.Name
		name := newSlideName(f.Name)
		cnt := f.Content
		pool.Go(func() error {
			if err := s.storage.Upload(ctx,
				s.folder+"/"+name, cnt,
				model.ContentTypeForName(name), false); err != nil {
				if errors.Is(err, model.ErrUploadRejected) {
					nameMu.Lock()
					rejected = append(rejected,
						fmt.Sprintf("%s: rejected by storage, skipped", origName))
					nameMu.Unlock()
					return nil
				}

				return errors.Wrapf(err, "upload slide %q", name)
			}

			nameMu.Lock()
			newNames = append(newNames, name)
			nameMu.Unlock()
			return nil
		})
	}

	uploadErr := pool.Wait()
	warnings = append(warnings, rejected...)

	if len(newNames) > 0 {
		// keep batch order deterministic despite parallel puts
		slices.Sort(newNames)

		current, rerr := s.reconcile(ctx)
		if rerr != nil {
			return nil, warnings, errors.WithStack(rerr)
		}

		// reconcile already adopts unknown files; only append the
		// uploads it has not seen, e.g. when listing lagged the puts
		known := make(map[string]bool, len(current))
		for _, name := range current {
			known[name] = true
		}
		for _, name := range newNames {
			if !known[name] {
				current = append(current, name)
			}
		}

		if serr := s.ledger.Save(ctx, current); serr != nil {
			// uploaded objects will be adopted by the next reconcile
			return nil, warnings, errors.Wrap(serr, "save slide order")
		}

		s.bumpVersion()
		slides = s.toSlides(current)
	}

	if uploadErr != nil {
		return slides, warnings, errors.WithStack(uploadErr)
	}

	return slides, warnings, nil
}

// Move splices the slide at src out of the order and reinserts it at
// dst. Equal indices are a no-op; out-of-range indices fail with
// model.ErrInvalidRange and mutate nothing.
func (s *Slides) Move(ctx context.Context, src, dst int) ([]model.Slide, error) {
	names, err := s.reconcile(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if src < 0 || src >= len(names) || dst < 0 || dst >= len(names) {
		return nil, errors.Wrapf(model.ErrInvalidRange,
			"move %d -> %d of %d slides", src, dst, len(names))
	}

	if src == dst {
		return s.toSlides(names), nil
	}

	moved := names[src]
	names = append(names[:src], names[src+1:]...)
	names = slices.Insert(names, dst, moved)

	if err = s.ledger.Save(ctx, names); err != nil {
		return nil, errors.Wrap(err, "save slide order")
	}

	s.bumpVersion()
	return s.toSlides(names), nil
}

// Delete removes the slide at index, both the object and its ledger
// entry. Later slides shift down by one.
func (s *Slides) Delete(ctx context.Context, index int) ([]model.Slide, error) {
	names, err := s.reconcile(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if index < 0 || index >= len(names) {
		return nil, errors.Wrapf(model.ErrInvalidRange,
			"delete %d of %d slides", index, len(names))
	}

	removed := names[index]
	if err = s.storage.Remove(ctx, s.folder+"/"+removed); err != nil {
		return nil, errors.Wrapf(err, "remove slide %q", removed)
	}

	names = append(names[:index], names[index+1:]...)
	if err = s.ledger.Save(ctx, names); err != nil {
		return nil, errors.Wrap(err, "save slide order")
	}

	s.bumpVersion()
	return s.toSlides(names), nil
}

// Clear removes every tracked slide and resets the order to empty.
func (s *Slides) Clear(ctx context.Context) error {
	names, err := s.reconcile(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, s.folder+"/"+name)
	}
	if err = s.storage.Remove(ctx, paths...); err != nil {
		return errors.Wrap(err, "remove slides")
	}

	if err = s.ledger.Save(ctx, []string{}); err != nil {
		return errors.Wrap(err, "save slide order")
	}

	s.bumpVersion()
	return nil
}

// Bundle downloads the current deck and packs it into one archive for
// the press kit. Without a wired bundler the feature degrades to
// unavailable instead of changing behavior elsewhere.
func (s *Slides) Bundle(ctx context.Context) ([]byte, error) {
	if s.bundler == nil {
		return nil, errors.WithStack(model.ErrFeatureUnavailable)
	}

	names, err := s.reconcile(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	files := make([]archive.File, 0, len(names))
	for i, name := range names {
		cnt, err := s.storage.Download(ctx, s.folder+"/"+name)
		if err != nil {
			return nil, errors.Wrapf(err, "download slide %q", name)
		}

		// prefix with position so the archive lists in deck order
		files = append(files, archive.File{
			Name:    fmt.Sprintf("%02d-%s", i+1, name),
			Content: cnt,
		})
	}

	cnt, err := s.bundler.Bundle(files)
	if err != nil {
		return nil, errors.Wrap(err, "bundle deck")
	}

	return cnt, nil
}
