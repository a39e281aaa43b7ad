package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Mutter0815/ColdMailer/internal/campaign"
	"github.com/Mutter0815/ColdMailer/internal/store"
	"github.com/Mutter0815/ColdMailer/pkg/config"
	"github.com/Mutter0815/ColdMailer/pkg/db"
	"github.com/Mutter0815/ColdMailer/pkg/logx"
	"github.com/Mutter0815/ColdMailer/pkg/mailer"
	"github.com/Mutter0815/ColdMailer/pkg/rmq"
	"github.com/Mutter0815/ColdMailer/services/coldmailer-api/server"
)

func newSender(cfg config.APIConfig) mailer.Sender {
	switch cfg.MailProvider {
	case "resend":
		return mailer.NewResendSender(cfg.ResendAPIKey)
	case "log":
		return mailer.LogSender{}
	}
	return mailer.NewSMTPSender(cfg.SMTPAddr, cfg.EmailUser, cfg.EmailPass)
}

func main() {
	logx.Init("coldmailer-api")
	defer logx.Sync()

	config.MustLoadAPI()
	cfg := config.API
	gin.SetMode(gin.ReleaseMode)

	loc, err := cfg.Location()
	if err != nil {
		logx.L().Fatalw("timezone_error", "timezone", cfg.Timezone, "error", err)
	}

	sqlDB, err := db.Open(cfg.DBDSN)
	if err != nil {
		logx.L().Fatalw("db_open_error", "error", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			logx.L().Warnw("db_close_error", "error", err)
		} else {
			logx.L().Infow("db_closed")
		}
	}()

	st := store.New(sqlDB)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.EnsureSchema(ctx); err != nil {
		logx.L().Fatalw("db_schema_error", "error", err)
	}
	seeded, err := st.SeedDefaults(ctx)
	cancel()
	if err != nil {
		logx.L().Fatalw("template_seed_error", "error", err)
	}
	if seeded > 0 {
		logx.L().Infow("templates_seeded", "count", seeded)
	}

	opts := campaign.Options{From: cfg.MailFrom}
	if cfg.ResumePath != "" {
		att, err := mailer.LoadAttachment(cfg.ResumePath)
		if err != nil {
			logx.L().Fatalw("resume_load_error", "path", cfg.ResumePath, "error", err)
		}
		opts.Attachment = att
		logx.L().Infow("resume_loaded", "file", att.Filename, "bytes", len(att.Content))
	} else {
		logx.L().Warnw("resume_not_configured")
	}

	if cfg.RMQURL != "" {
		pub, err := rmq.NewPublisher(cfg.RMQURL, cfg.OutcomeQueue)
		if err != nil {
			logx.L().Fatalw("rmq_init_error", "error", err)
		}
		defer func() {
			if err := pub.Close(); err != nil {
				logx.L().Warnw("rmq_publisher_close_error", "error", err)
			} else {
				logx.L().Infow("rmq_publisher_closed")
			}
		}()
		opts.Events = pub
	}

	sender := newSender(cfg)
	runner := campaign.NewRunner(campaign.NewPolicy(loc, nil), st, sender, opts)

	h := server.NewHandlers(runner, st, sender, cfg.PrecheckAuth)
	srv := server.NewHTTPServer(":"+cfg.Port, h)

	go func() {
		logx.L().Infow("api_listen_start", "addr", ":"+cfg.Port, "mail_provider", cfg.MailProvider, "timezone", loc.String())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.L().Fatalw("http_server_error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop
	logx.L().Infow("signal_received", "signal", sig.String())
	if runner.Active() {
		logx.L().Warnw("shutdown_with_active_campaign", "state", runner.Snapshot())
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logx.L().Errorw("server_shutdown_error", "error", err)
	} else {
		logx.L().Infow("server_shutdown_success")
	}

	logx.L().Infow("coldmailer-api stopped gracefully")
}
