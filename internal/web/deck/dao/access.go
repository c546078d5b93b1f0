package dao

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Laisky/errors/v2"

	"github.com/pixelforge-games/studio-api/internal/web/deck/model"
	"github.com/pixelforge-games/studio-api/library/db/mongo"
)

const colAccessCodes = "access_codes"

// AccessCodes db
type AccessCodes struct {
	db mongo.DB
}

func NewAccessCodes(db mongo.DB) *AccessCodes {
	return &AccessCodes{db: db}
}

func (d *AccessCodes) GetCodesCol() *mongoLib.Collection {
	return d.db.GetCol(colAccessCodes)
}

func (d *AccessCodes) Create(ctx context.Context, code *model.AccessCode) error {
	if _, err := d.GetCodesCol().InsertOne(ctx, code); err != nil {
		return errors.Wrap(err, "insert access code")
	}

	return nil
}

// Redeem atomically flips a matching unredeemed code to redeemed and
// returns it. The conditional update is what closes the single-use
// window: two concurrent redemptions of one hash cannot both match.
// Unknown and already-redeemed hashes are indistinguishable to callers.
func (d *AccessCodes) Redeem(ctx context.Context, hash string) (*model.AccessCode, error) {
	now := time.Now()
	code := new(model.AccessCode)
	err := d.GetCodesCol().
		FindOneAndUpdate(ctx,
			bson.M{"hash_code": hash, "redeemed": false},
			bson.M{"$set": bson.M{"redeemed": true, "redeemed_at": now}},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).
		Decode(code)
	if err != nil {
		if errors.Is(err, mongoLib.ErrNoDocuments) {
			return nil, errors.WithStack(model.ErrCodeInvalid)
		}

		return nil, errors.Wrap(err, "redeem access code")
	}

	return code, nil
}

func (d *AccessCodes) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := d.GetCodesCol().
		DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrapf(err, "delete access code %s", id.Hex())
	}

	return nil
}

func (d *AccessCodes) List(ctx context.Context) (codes []*model.AccessCode, err error) {
	cur, err := d.GetCodesCol().
		Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, errors.Wrap(err, "find access codes")
	}
	defer cur.Close(ctx)

	codes = []*model.AccessCode{}
	if err = cur.All(ctx, &codes); err != nil {
		return nil, errors.Wrap(err, "load access codes")
	}

	return codes, nil
}
