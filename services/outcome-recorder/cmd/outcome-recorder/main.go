package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/Mutter0815/ColdMailer/internal/store"
	"github.com/Mutter0815/ColdMailer/pkg/config"
	"github.com/Mutter0815/ColdMailer/pkg/db"
	"github.com/Mutter0815/ColdMailer/pkg/logx"
	"github.com/Mutter0815/ColdMailer/pkg/rmq"
	"github.com/Mutter0815/ColdMailer/services/outcome-recorder/recorder"
)

func main() {
	logx.Init("outcome-recorder")
	defer logx.Sync()

	config.MustLoadRecorder()
	cfg := config.Recorder

	sqlDB, err := db.Open(cfg.DBDSN)
	if err != nil {
		logx.L().Fatalw("db_open_error", "error", err)
	}
	defer sqlDB.Close()

	st := store.New(sqlDB)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := st.EnsureSchema(ctx); err != nil {
		logx.L().Fatalw("db_schema_error", "error", err)
	}

	cons, err := rmq.NewConsumer(cfg.RMQURL, cfg.OutcomeQueue, 10)
	if err != nil {
		logx.L().Fatalw("rmq_consumer_error", "error", err)
	}
	defer cons.Close()

	pub, err := rmq.NewPublisher(cfg.RMQURL, cfg.OutcomeQueue)
	if err != nil {
		logx.L().Fatalw("rmq_publisher_error", "error", err)
	}
	defer pub.Close()

	msgs, err := cons.Consume()
	if err != nil {
		logx.L().Fatalw("rmq_consume_error", "error", err)
	}

	if err := recorder.New(st, pub).Run(ctx, msgs); err != nil && !errors.Is(err, context.Canceled) {
		logx.L().Errorw("recorder_error", "error", err)
	}
	logx.L().Infow("outcome-recorder stopped")
}
