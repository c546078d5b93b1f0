// Package service implements the job-postings workflow.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/Laisky/errors/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/pixelforge-games/studio-api/internal/web/careers/dao"
	"github.com/pixelforge-games/studio-api/internal/web/careers/model"
)

var Instance *Type

func Initialize(ctx context.Context) {
	dao.Initialize(ctx)
	Instance = New(dao.Instance)
}

type Type struct {
	dao *dao.Type
}

func New(dao *dao.Type) *Type {
	return &Type{dao: dao}
}

func validate(posting *model.Posting) error {
	if strings.TrimSpace(posting.Title) == "" {
		return errors.Wrap(model.ErrInvalidInput, "empty title")
	}
	if strings.TrimSpace(posting.Description) == "" {
		return errors.Wrap(model.ErrInvalidInput, "empty description")
	}

	return nil
}

func (s *Type) Create(ctx context.Context, posting *model.Posting) (*model.Posting, error) {
	if err := validate(posting); err != nil {
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	posting.ID = primitive.NewObjectID()
	posting.CreatedAt = now
	posting.UpdatedAt = now
	if err := s.dao.Insert(ctx, posting); err != nil {
		return nil, errors.Wrap(err, "create posting")
	}

	return posting, nil
}

func (s *Type) Update(ctx context.Context, id string, posting *model.Posting) (*model.Posting, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.Wrapf(model.ErrInvalidInput, "posting id %q", id)
	}

	if err = validate(posting); err != nil {
		return nil, errors.WithStack(err)
	}

	existing, err := s.dao.Get(ctx, oid)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	posting.ID = existing.ID
	posting.CreatedAt = existing.CreatedAt
	posting.UpdatedAt = time.Now()
	if err = s.dao.Update(ctx, posting); err != nil {
		return nil, errors.Wrap(err, "update posting")
	}

	return posting, nil
}

func (s *Type) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.Wrapf(model.ErrInvalidInput, "posting id %q", id)
	}

	return errors.WithStack(s.dao.Delete(ctx, oid))
}

// ListPublished is the public careers page feed.
func (s *Type) ListPublished(ctx context.Context) ([]*model.Posting, error) {
	return s.dao.Load(ctx, true)
}

// ListAll includes drafts, admin only.
func (s *Type) ListAll(ctx context.Context) ([]*model.Posting, error) {
	return s.dao.Load(ctx, false)
}
