package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
	"github.com/pixelforge-games/studio-api/library/jwt"
)

func init() {
	if err := jwt.Initialize([]byte("test-secret")); err != nil {
		panic(err)
	}
}

// memAccessStore implements AccessStore with the same conditional
// redeem the mongo dao performs.
type memAccessStore struct {
	mu      sync.Mutex
	codes   map[string]*model.AccessCode // by hash
	redeems int
}

func newMemAccessStore() *memAccessStore {
	return &memAccessStore{codes: map[string]*model.AccessCode{}}
}

func (s *memAccessStore) Create(ctx context.Context, code *model.AccessCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[code.HashCode] = code
	return nil
}

func (s *memAccessStore) Redeem(ctx context.Context, hash string) (*model.AccessCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.redeems++
	code, ok := s.codes[hash]
	if !ok || code.Redeemed {
		return nil, errors.WithStack(model.ErrCodeInvalid)
	}

	now := time.Now()
	code.Redeemed = true
	code.RedeemedAt = &now
	return code, nil
}

func (s *memAccessStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for hash, code := range s.codes {
		if code.ID == id {
			delete(s.codes, hash)
		}
	}

	return nil
}

func (s *memAccessStore) List(ctx context.Context) ([]*model.AccessCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var codes []*model.AccessCode
	for _, code := range s.codes {
		codes = append(codes, code)
	}

	return codes, nil
}

func TestIssueCodeRejectsBlankNames(t *testing.T) {
	gate := NewGate(newMemAccessStore())

	_, err := gate.IssueCode(context.Background(), "   ")
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestIssueCodeGeneratesUnpredictableHash(t *testing.T) {
	gate := NewGate(newMemAccessStore())

	a, err := gate.IssueCode(context.Background(), "Acme")
	require.NoError(t, err)
	require.False(t, a.Redeemed)
	require.Len(t, a.HashCode, 32) // 128 bits hex encoded

	b, err := gate.IssueCode(context.Background(), "Acme")
	require.NoError(t, err)
	require.NotEqual(t, a.HashCode, b.HashCode)
}

func TestCodeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	store := newMemAccessStore()
	gate := NewGate(store)

	code, err := gate.IssueCode(ctx, "Acme")
	require.NoError(t, err)

	authorized, token, err := gate.CheckAccess(ctx, "", code.HashCode)
	require.NoError(t, err)
	require.True(t, authorized)
	require.NotEmpty(t, token)
	require.True(t, store.codes[code.HashCode].Redeemed)

	// a second session without the cookie is denied on the same hash
	authorized, token, err = gate.CheckAccess(ctx, "", code.HashCode)
	require.NoError(t, err)
	require.False(t, authorized)
	require.Empty(t, token)
}

func TestCookieBypassesCodeTable(t *testing.T) {
	ctx := context.Background()
	store := newMemAccessStore()
	gate := NewGate(store)

	code, err := gate.IssueCode(ctx, "Acme")
	require.NoError(t, err)

	_, token, err := gate.CheckAccess(ctx, "", code.HashCode)
	require.NoError(t, err)
	redeemsAfterFirst := store.redeems

	// cookie holders are authorized without any table lookup,
	// with or without a hash in the URL
	authorized, newToken, err := gate.CheckAccess(ctx, token, "")
	require.NoError(t, err)
	require.True(t, authorized)
	require.Empty(t, newToken)

	authorized, _, err = gate.CheckAccess(ctx, token, "whatever")
	require.NoError(t, err)
	require.True(t, authorized)

	require.Equal(t, redeemsAfterFirst, store.redeems)
}

func TestMissingCookieAndHashDenied(t *testing.T) {
	gate := NewGate(newMemAccessStore())

	authorized, token, err := gate.CheckAccess(context.Background(), "", "")
	require.NoError(t, err)
	require.False(t, authorized)
	require.Empty(t, token)
}

func TestRevokedCodeCookieStaysValid(t *testing.T) {
	ctx := context.Background()
	store := newMemAccessStore()
	gate := NewGate(store)

	code, err := gate.IssueCode(ctx, "Acme")
	require.NoError(t, err)

	_, token, err := gate.CheckAccess(ctx, "", code.HashCode)
	require.NoError(t, err)

	require.NoError(t, gate.RevokeCode(ctx, code.ID.Hex()))

	// the cookie is a standalone capability, revocation does not reach it
	authorized, _, err := gate.CheckAccess(ctx, token, "")
	require.NoError(t, err)
	require.True(t, authorized)
}

func TestTamperedCookieFallsThroughToDenial(t *testing.T) {
	gate := NewGate(newMemAccessStore())

	authorized, _, err := gate.CheckAccess(context.Background(),
		"not-a-real-token", "")
	require.NoError(t, err)
	require.False(t, authorized)
}
