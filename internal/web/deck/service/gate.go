package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"
	jwtLib "github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pixelforge-games/studio-api/internal/web/deck/dao"
	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
	"github.com/pixelforge-games/studio-api/library/jwt"
	"github.com/pixelforge-games/studio-api/library/log"
)

// SessionTTL is the lifetime of the cookie issued at redemption. The
// cookie is a standalone capability: revoking the code later does not
// revoke cookies already issued from it.
const SessionTTL = 365 * 24 * time.Hour

// codeEntropyBytes gives 128 bits of entropy per access code.
const codeEntropyBytes = 16

// AccessStore is the capability the gate needs from the code table.
// Redeem must be conditional: flip redeemed=false to true atomically,
// or report model.ErrCodeInvalid.
type AccessStore interface {
	Create(ctx context.Context, code *model.AccessCode) error
	Redeem(ctx context.Context, hash string) (*model.AccessCode, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]*model.AccessCode, error)
}

var _ AccessStore = (*dao.AccessCodes)(nil)

// Gate decides whether a visitor may see the investor deck. A session
// checks out either with a previously issued cookie or by redeeming an
// unredeemed access code carried in the URL; everything else is denied.
type Gate struct {
	access AccessStore
}

func NewGate(access AccessStore) *Gate {
	return &Gate{access: access}
}

// CheckAccess implements the access decision. A valid cookie grants
// access without touching the code table at all. Otherwise the hash is
// redeemed, which flips the code before access is granted, and a fresh
// session token is returned for the caller to set as a cookie.
func (g *Gate) CheckAccess(ctx context.Context,
	cookieToken, hash string) (authorized bool, newToken string, err error) {
	if cookieToken != "" {
		claims := new(jwt.DeckClaims)
		if err := jwt.Parse(cookieToken, claims); err == nil {
			return true, "", nil
		}
		// expired or tampered cookie falls through to the hash path
	}

	if hash == "" {
		return false, "", nil
	}

	code, err := g.access.Redeem(ctx, hash)
	if err != nil {
		if errors.Is(err, model.ErrCodeInvalid) {
			return false, "", nil
		}

		return false, "", errors.Wrap(err, "redeem code")
	}

	now := time.Now()
	newToken, err = jwt.Sign(&jwt.DeckClaims{
		RegisteredClaims: jwtLib.RegisteredClaims{
			Subject:   code.ID.Hex(),
			IssuedAt:  jwtLib.NewNumericDate(now),
			ExpiresAt: jwtLib.NewNumericDate(now.Add(SessionTTL)),
		},
		InvestorName: code.InvestorName,
	})
	if err != nil {
		return false, "", errors.Wrap(err, "issue session token")
	}

	log.Logger.Info("access code redeemed",
		zap.String("investor", code.InvestorName))
	return true, newToken, nil
}

// IssueCode creates a single-use code for the named investor.
func (g *Gate) IssueCode(ctx context.Context, investorName string) (*model.AccessCode, error) {
	investorName = strings.TrimSpace(investorName)
	if investorName == "" {
		return nil, errors.Wrap(model.ErrInvalidInput, "empty investor name")
	}

	raw := make([]byte, codeEntropyBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, errors.Wrap(err, "generate code")
	}

	code := &model.AccessCode{
		ID:           primitive.NewObjectID(),
		InvestorName: investorName,
		HashCode:     hex.EncodeToString(raw),
		Redeemed:     false,
		CreatedAt:    time.Now(),
	}
	if err := g.access.Create(ctx, code); err != nil {
		return nil, errors.Wrap(err, "persist code")
	}

	return code, nil
}

// RevokeCode deletes a code so its hash can no longer be redeemed.
func (g *Gate) RevokeCode(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(model.ErrInvalidInput, "code id %q", id)
	}

	return errors.WithStack(g.access.Delete(ctx, oid))
}

// ListCodes returns all codes, newest first.
func (g *Gate) ListCodes(ctx context.Context) ([]*model.AccessCode, error) {
	return g.access.List(ctx)
}
