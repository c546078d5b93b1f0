package service

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge-games/studio-api/internal/web/deck/dao"
	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
	"github.com/pixelforge-games/studio-api/library/archive"
)

const testFolder = "deck"

// fakeStorage implements dao.Storage in memory with S3 semantics:
// listing is lexical, deleting a missing key succeeds. rejectFn, when
// set, lets a test refuse individual puts the way a quota would.
type fakeStorage struct {
	mu       sync.Mutex
	objects  map[string][]byte
	rejectFn func(path string, data []byte) error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) List(ctx context.Context, folder string) ([]dao.ObjectInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := folder + "/"
	var infos []dao.ObjectInfo
	for key, cnt := range f.objects {
		if strings.HasPrefix(key, prefix) {
			infos = append(infos, dao.ObjectInfo{
				Name: strings.TrimPrefix(key, prefix),
				Size: int64(len(cnt)),
			})
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos, nil
}

func (f *fakeStorage) Upload(ctx context.Context,
	path string, data []byte, contentType string, overwrite bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.rejectFn != nil {
		if err := f.rejectFn(path, data); err != nil {
			return err
		}
	}

	if _, ok := f.objects[path]; ok && !overwrite {
		return errors.Wrapf(model.ErrUploadRejected, "object %q already exists", path)
	}

	f.objects[path] = data
	return nil
}

func (f *fakeStorage) Download(ctx context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	cnt, ok := f.objects[path]
	if !ok {
		return nil, errors.Wrapf(model.ErrNotFound, "object %q", path)
	}

	return cnt, nil
}

func (f *fakeStorage) Remove(ctx context.Context, paths ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range paths {
		delete(f.objects, p)
	}

	return nil
}

func (f *fakeStorage) PublicURL(path string) string {
	return "https://cdn.test/" + path
}

func newTestSlides(t *testing.T) (*Slides, *fakeStorage, *dao.Ledger) {
	t.Helper()

	storage := newFakeStorage()
	ledger := dao.NewLedger(storage, testFolder)
	return NewSlides(storage, ledger, testFolder, archive.NewZipBundler()), storage, ledger
}

func seedObjects(t *testing.T, storage *fakeStorage, names ...string) {
	t.Helper()

	for _, name := range names {
		require.NoError(t, storage.Upload(context.Background(),
			testFolder+"/"+name, []byte("img-"+name), "image/jpeg", true))
	}
}

func slideNames(slides []model.Slide) []string {
	names := make([]string, 0, len(slides))
	for _, s := range slides {
		names = append(names, s.Name)
	}

	return names
}

func TestReconcileRebuildsWhenLedgerAbsent(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "x.png", "y.png")

	slides, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"x.png", "y.png"}, slideNames(slides))

	// the synthesized order is persisted and authoritative from now on
	order, err := ledger.Fetch(ctx)
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Equal(t, []string{"x.png", "y.png"}, order.Slides)
}

func TestReconcileDropsDanglingRefs(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "a.jpg", "c.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"a.jpg", "b.jpg", "c.jpg"}))

	slides, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a.jpg", "c.jpg"}, slideNames(slides))
}

func TestReconcileRebuildsFromListingWhenLedgerStale(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "n.jpg", "m.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"gone1.jpg", "gone2.jpg"}))

	slides, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"m.jpg", "n.jpg"}, slideNames(slides))
}

func TestReconcileAdoptsUntrackedFiles(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "b.jpg", "a.jpg", "new.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"b.jpg", "a.jpg"}))

	// ledger order wins for known files, unknown files are appended
	slides, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b.jpg", "a.jpg", "new.jpg"}, slideNames(slides))
}

func TestReconcileIgnoresSidecarAndNonImages(t *testing.T) {
	ctx := context.Background()
	svc, storage, _ := newTestSlides(t)
	seedObjects(t, storage, "a.jpg")
	require.NoError(t, storage.Upload(ctx,
		testFolder+"/notes.txt", []byte("x"), "text/plain", true))

	slides, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a.jpg"}, slideNames(slides))
}

func TestMoveSpliceSemantics(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "a.jpg", "b.jpg", "c.jpg", "d.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}))

	slides, err := svc.Move(ctx, 0, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"b.jpg", "c.jpg", "a.jpg", "d.jpg"}, slideNames(slides))

	require.NoError(t, ledger.Save(ctx, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}))
	slides, err = svc.Move(ctx, 3, 0)
	require.NoError(t, err)
	require.Equal(t, []string{"d.jpg", "a.jpg", "b.jpg", "c.jpg"}, slideNames(slides))
}

func TestMoveEqualIndicesNoop(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "a.jpg", "b.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"b.jpg", "a.jpg"}))

	slides, err := svc.Move(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"b.jpg", "a.jpg"}, slideNames(slides))
}

func TestMoveInvalidRangeRejectedWithoutMutation(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "a.jpg", "b.jpg", "c.jpg", "d.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}))

	_, err := svc.Move(ctx, -1, 0)
	require.ErrorIs(t, err, model.ErrInvalidRange)

	_, err = svc.Move(ctx, 0, 99)
	require.ErrorIs(t, err, model.ErrInvalidRange)

	order, err := ledger.Fetch(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, order.Slides)
}

func TestUploadSkipsNonImagesWithWarning(t *testing.T) {
	ctx := context.Background()
	svc, _, ledger := newTestSlides(t)

	slides, warnings, err := svc.Upload(ctx, []UploadFile{
		{Name: "deck.pdf", Content: []byte("pdf")},
		{Name: "photo.JPG", Content: []byte("jpg")},
	})
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "deck.pdf")
	require.Len(t, slides, 1)
	require.True(t, strings.HasSuffix(slides[0].Name, ".jpg"))

	order, err := ledger.Fetch(ctx)
	require.NoError(t, err)
	require.Equal(t, slideNames(slides), order.Slides)
}

func TestUploadStoreRejectionIsPerFileWarning(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	storage.rejectFn = func(path string, data []byte) error {
		if string(data) == "oversized" {
			return errors.Wrapf(model.ErrUploadRejected, "object %q over quota", path)
		}

		return nil
	}

	slides, warnings, err := svc.Upload(ctx, []UploadFile{
		{Name: "huge.jpg", Content: []byte("oversized")},
		{Name: "ok.jpg", Content: []byte("fits")},
	})
	require.NoError(t, err, "quota rejection of one file must not fail the batch")
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "huge.jpg")
	require.Len(t, slides, 1)

	order, err := ledger.Fetch(ctx)
	require.NoError(t, err)
	require.Equal(t, slideNames(slides), order.Slides)
}

func TestUploadStoreOutageFailsBatch(t *testing.T) {
	ctx := context.Background()
	svc, storage, _ := newTestSlides(t)
	storage.rejectFn = func(path string, data []byte) error {
		return errors.Wrapf(model.ErrStoreUnavailable, "put %q", path)
	}

	_, _, err := svc.Upload(ctx, []UploadFile{
		{Name: "a.jpg", Content: []byte("x")},
	})
	require.ErrorIs(t, err, model.ErrStoreUnavailable)
}

func TestDeleteRemovesObjectAndEntry(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "a.jpg", "b.jpg", "c.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"a.jpg", "b.jpg", "c.jpg"}))

	slides, err := svc.Delete(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"a.jpg", "c.jpg"}, slideNames(slides))

	_, err = storage.Download(ctx, testFolder+"/b.jpg")
	require.ErrorIs(t, err, model.ErrNotFound)

	// idempotent delete: removing the gone object again is not an error
	require.NoError(t, storage.Remove(ctx, testFolder+"/b.jpg"))
}

func TestClearResetsDeck(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "a.jpg", "b.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"a.jpg", "b.jpg"}))

	require.NoError(t, svc.Clear(ctx))

	order, err := ledger.Fetch(ctx)
	require.NoError(t, err)
	require.Empty(t, order.Slides)

	slides, err := svc.List(ctx)
	require.NoError(t, err)
	require.Empty(t, slides)

	_, err = storage.Download(ctx, testFolder+"/a.jpg")
	require.ErrorIs(t, err, model.ErrNotFound)
}

func urlVersion(t *testing.T, rawURL string) int64 {
	t.Helper()

	_, query, found := strings.Cut(rawURL, "?t=")
	require.True(t, found, "url %q has no cache-busting parameter", rawURL)
	v, err := strconv.ParseInt(query, 10, 64)
	require.NoError(t, err)
	return v
}

func TestMutationBumpsCacheBustingVersion(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "a.jpg", "b.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"a.jpg", "b.jpg"}))

	before, err := svc.List(ctx)
	require.NoError(t, err)

	after, err := svc.Move(ctx, 0, 1)
	require.NoError(t, err)

	require.Greater(t,
		urlVersion(t, after[0].URL),
		urlVersion(t, before[0].URL))
}

func TestBundleContainsDeckInOrder(t *testing.T) {
	ctx := context.Background()
	svc, storage, ledger := newTestSlides(t)
	seedObjects(t, storage, "a.jpg", "b.jpg")
	require.NoError(t, ledger.Save(ctx, []string{"b.jpg", "a.jpg"}))

	cnt, err := svc.Bundle(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, cnt)
}

func TestBundleUnavailableWithoutBundler(t *testing.T) {
	ctx := context.Background()
	storage := newFakeStorage()
	ledger := dao.NewLedger(storage, testFolder)
	svc := NewSlides(storage, ledger, testFolder, nil)

	_, err := svc.Bundle(ctx)
	require.ErrorIs(t, err, model.ErrFeatureUnavailable)
}
