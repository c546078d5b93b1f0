// Package dao provides data access for job postings.
package dao

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoLib "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Laisky/errors/v2"

	"github.com/pixelforge-games/studio-api/internal/web/careers/model"
	"github.com/pixelforge-games/studio-api/library/db/mongo"
)

const colPostings = "job_postings"

var Instance *Type

type Type struct {
	db mongo.DB
}

func Initialize(ctx context.Context) {
	model.Initialize(ctx)
	Instance = New(model.CareersDB)
}

func New(db mongo.DB) *Type {
	return &Type{db: db}
}

func (d *Type) GetPostingsCol() *mongoLib.Collection {
	return d.db.GetCol(colPostings)
}

func (d *Type) Insert(ctx context.Context, posting *model.Posting) error {
	if _, err := d.GetPostingsCol().InsertOne(ctx, posting); err != nil {
		return errors.Wrap(err, "insert posting")
	}

	return nil
}

func (d *Type) Update(ctx context.Context, posting *model.Posting) error {
	res, err := d.GetPostingsCol().
		ReplaceOne(ctx, bson.M{"_id": posting.ID}, posting)
	if err != nil {
		return errors.Wrapf(err, "update posting %s", posting.ID.Hex())
	}
	if res.MatchedCount == 0 {
		return errors.WithStack(model.ErrNotFound)
	}

	return nil
}

func (d *Type) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := d.GetPostingsCol().
		DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return errors.Wrapf(err, "delete posting %s", id.Hex())
	}

	return nil
}

func (d *Type) Get(ctx context.Context, id primitive.ObjectID) (*model.Posting, error) {
	posting := new(model.Posting)
	err := d.GetPostingsCol().
		FindOne(ctx, bson.M{"_id": id}).
		Decode(posting)
	if err != nil {
		if errors.Is(err, mongoLib.ErrNoDocuments) {
			return nil, errors.WithStack(model.ErrNotFound)
		}

		return nil, errors.Wrapf(err, "get posting %s", id.Hex())
	}

	return posting, nil
}

// Load returns postings newest first; publishedOnly hides drafts.
func (d *Type) Load(ctx context.Context, publishedOnly bool) (postings []*model.Posting, err error) {
	query := bson.M{}
	if publishedOnly {
		query["published"] = true
	}

	cur, err := d.GetPostingsCol().
		Find(ctx, query, options.Find().SetSort(bson.M{"created_at": -1}))
	if err != nil {
		return nil, errors.Wrap(err, "find postings")
	}
	defer cur.Close(ctx)

	postings = []*model.Posting{}
	if err = cur.All(ctx, &postings); err != nil {
		return nil, errors.Wrap(err, "load postings")
	}

	return postings, nil
}
