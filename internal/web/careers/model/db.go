package model

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"

	"github.com/pixelforge-games/studio-api/library/db/mongo"
	"github.com/pixelforge-games/studio-api/library/log"
)

var CareersDB mongo.DB

func Initialize(ctx context.Context) {
	var err error
	if CareersDB, err = mongo.NewDB(ctx,
		mongo.DialInfo{
			Addr:   gconfig.Shared.GetString("settings.db.careers.addr"),
			DBName: gconfig.Shared.GetString("settings.db.careers.db"),
			User:   gconfig.Shared.GetString("settings.db.careers.user"),
			Pwd:    gconfig.Shared.GetString("settings.db.careers.pwd"),
		},
	); err != nil {
		log.Logger.Panic("connect to careers db", zap.Error(err))
	}
}
