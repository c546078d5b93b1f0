package dao

import (
	"context"
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"

	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
)

// memStorage is a minimal in-memory Storage for ledger tests.
type memStorage struct {
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (m *memStorage) List(ctx context.Context, folder string) ([]ObjectInfo, error) {
	return nil, nil
}

func (m *memStorage) Upload(ctx context.Context,
	path string, data []byte, contentType string, overwrite bool) error {
	if _, ok := m.objects[path]; ok && !overwrite {
		return errors.Wrapf(model.ErrUploadRejected, "object %q already exists", path)
	}

	m.objects[path] = data
	return nil
}

func (m *memStorage) Download(ctx context.Context, path string) ([]byte, error) {
	cnt, ok := m.objects[path]
	if !ok {
		return nil, errors.Wrapf(model.ErrNotFound, "object %q", path)
	}

	return cnt, nil
}

func (m *memStorage) Remove(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		delete(m.objects, p)
	}

	return nil
}

func (m *memStorage) PublicURL(path string) string {
	return "https://cdn.test/" + path
}

func TestLedgerRoundTrip(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newMemStorage(), "deck")

	names := []string{"c.jpg", "a.jpg", "b.png"}
	require.NoError(t, ledger.Save(ctx, names))

	order, err := ledger.Fetch(ctx)
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Equal(t, names, order.Slides)
	require.Positive(t, order.LastUpdated)
}

func TestLedgerAbsentIsNotAnError(t *testing.T) {
	ledger := NewLedger(newMemStorage(), "deck")

	order, err := ledger.Fetch(context.Background())
	require.NoError(t, err)
	require.Nil(t, order)
}

func TestLedgerCorruptedTreatedAsAbsent(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	require.NoError(t, storage.Upload(ctx,
		"deck/"+model.OrderFileName, []byte("{not json"), "application/json", true))

	ledger := NewLedger(storage, "deck")
	order, err := ledger.Fetch(ctx)
	require.NoError(t, err)
	require.Nil(t, order)
}

func TestLedgerSaveNilSerializesAsEmptyArray(t *testing.T) {
	ctx := context.Background()
	storage := newMemStorage()
	ledger := NewLedger(storage, "deck")

	require.NoError(t, ledger.Save(ctx, nil))

	cnt, err := storage.Download(ctx, "deck/"+model.OrderFileName)
	require.NoError(t, err)
	require.Contains(t, string(cnt), `"slides":[]`)

	order, err := ledger.Fetch(ctx)
	require.NoError(t, err)
	require.NotNil(t, order)
	require.Equal(t, []string{}, order.Slides)
}

func TestLedgerSaveOverwritesPrevious(t *testing.T) {
	ctx := context.Background()
	ledger := NewLedger(newMemStorage(), "deck")

	require.NoError(t, ledger.Save(ctx, []string{"a.jpg"}))
	require.NoError(t, ledger.Save(ctx, []string{"b.jpg", "a.jpg"}))

	order, err := ledger.Fetch(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"b.jpg", "a.jpg"}, order.Slides)
}
