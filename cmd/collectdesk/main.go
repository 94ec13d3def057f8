package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MikeRez0/collectdesk/internal/adapter/auth"
	"github.com/MikeRez0/collectdesk/internal/adapter/client/mailer"
	"github.com/MikeRez0/collectdesk/internal/adapter/config"
	"github.com/MikeRez0/collectdesk/internal/adapter/handler/http"
	"github.com/MikeRez0/collectdesk/internal/adapter/logger"
	"github.com/MikeRez0/collectdesk/internal/adapter/push"
	"github.com/MikeRez0/collectdesk/internal/adapter/staging"
	"github.com/MikeRez0/collectdesk/internal/adapter/storage"
	"github.com/MikeRez0/collectdesk/internal/adapter/storage/repository"
	"github.com/MikeRez0/collectdesk/internal/core/dispatch"
	"github.com/MikeRez0/collectdesk/internal/core/port"
	"github.com/MikeRez0/collectdesk/internal/core/service"
	"go.uber.org/zap"
)

func main() {
	conf, err := config.NewConfig()
	if err != nil {
		fmt.Printf("config error:%s", err)
		return
	}

	log, err := logger.NewLogger(conf.App)
	if err != nil {
		fmt.Printf("error creating log: %s", err)
		return
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := storage.NewDBStorage(ctx, conf.Database)
	if err != nil {
		log.Error("database error", zap.Error(err))
		return
	}
	defer db.Close()

	err = db.RunMigrations()
	if err != nil {
		log.Error("database migration error", zap.Error(err))
		return
	}

	repo, err := repository.NewRepository(db)
	if err != nil {
		log.Error("repository creating error", zap.Error(err))
		return
	}

	tokenService, err := auth.New(conf.Auth)
	if err != nil {
		log.Error("token service creating error", zap.Error(err))
		return
	}

	var orderStaging port.OrderStaging
	if conf.Redis.Addr != "" {
		client, err := staging.Connect(ctx, conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
		if err != nil {
			log.Error("redis connection error", zap.Error(err))
			return
		}
		defer client.Close()
		orderStaging = staging.NewRedis(client)
		log.Info("staging pending orders in redis", zap.String("addr", conf.Redis.Addr))
	} else {
		orderStaging = staging.NewMemory()
		log.Info("staging pending orders in memory")
	}

	registry := push.NewRegistry(log.Named("Push"))

	mail, err := mailer.NewMailClient(conf.Mail, log.Named("Mail"))
	if err != nil {
		log.Error("mail client creating error", zap.Error(err))
		return
	}
	mail.Run(ctx)

	scheduler := dispatch.NewScheduler(log.Named("Dispatch"))
	defer scheduler.Stop()

	svc, err := service.NewService(repo, repo, repo, orderStaging, registry, mail, scheduler,
		service.Config{
			PendingTTL:  conf.Dispatch.PendingTTL,
			ClaimWindow: conf.Dispatch.ClaimWindow,
			Delays: dispatch.Delays{
				Repeat:  conf.Dispatch.RepeatDelay,
				Address: conf.Dispatch.AddressDelay,
				Default: conf.Dispatch.DefaultDelay,
			},
			MailRecipient: conf.Mail.Recipient,
		}, log.Named("Service"))
	if err != nil {
		log.Error("service creating error", zap.Error(err))
		return
	}

	orderHandler, err := http.NewOrderHandler(svc, log.Named("Order handler"))
	if err != nil {
		log.Error("order handler creating error", zap.Error(err))
		return
	}
	loanHandler, err := http.NewLoanHandler(svc, log.Named("Loan handler"))
	if err != nil {
		log.Error("loan handler creating error", zap.Error(err))
		return
	}
	streamHandler, err := http.NewStreamHandler(svc, registry, log.Named("Stream handler"))
	if err != nil {
		log.Error("stream handler creating error", zap.Error(err))
		return
	}

	r, err := http.NewRouter(conf.HTTP, tokenService, orderHandler, loanHandler, streamHandler, log.Named("Router"))
	if err != nil {
		log.Error("router creating error", zap.Error(err))
		return
	}

	log.Info("serving", zap.String("addr", conf.HTTP.HostString))
	err = r.Serve(ctx, conf.HTTP.HostString, registry.Close)
	if err != nil {
		log.Error("router serve error", zap.Error(err))
		return
	}
	log.Info("stopped")
}
