package model

import (
	"context"

	"github.com/pixelforge-games/studio-api/library/db/mongo"
	"github.com/pixelforge-games/studio-api/library/db/s3"
	"github.com/pixelforge-games/studio-api/library/log"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	minioLib "github.com/minio/minio-go/v7"
)

var (
	DeckDB mongo.DB
	DeckS3 *minioLib.Client
)

func Initialize(ctx context.Context) {
	var err error
	if DeckDB, err = mongo.NewDB(ctx,
		mongo.DialInfo{
			Addr:   gconfig.Shared.GetString("settings.db.deck.addr"),
			DBName: gconfig.Shared.GetString("settings.db.deck.db"),
			User:   gconfig.Shared.GetString("settings.db.deck.user"),
			Pwd:    gconfig.Shared.GetString("settings.db.deck.pwd"),
		},
	); err != nil {
		log.Logger.Panic("connect to deck db", zap.Error(err))
	}

	if DeckS3, err = s3.New(s3.DialInfo{
		Endpoint:  gconfig.Shared.GetString("settings.deck.s3.endpoint"),
		AccessKey: gconfig.Shared.GetString("settings.deck.s3.access_key"),
		SecretKey: gconfig.Shared.GetString("settings.deck.s3.secret_key"),
		Secure:    gconfig.Shared.GetBool("settings.deck.s3.secure"),
	}); err != nil {
		log.Logger.Panic("connect to deck object store", zap.Error(err))
	}
}
