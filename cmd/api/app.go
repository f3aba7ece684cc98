package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/cohort-crm/internal/config"
	"github.com/xavierca1/cohort-crm/internal/infra/cache"
	"github.com/xavierca1/cohort-crm/internal/infra/database"
	"github.com/xavierca1/cohort-crm/internal/infra/http/handlers"
	"github.com/xavierca1/cohort-crm/internal/infra/http/middleware"
	"github.com/xavierca1/cohort-crm/internal/infra/integration/gallabox"
	"github.com/xavierca1/cohort-crm/internal/infra/mail"
	"github.com/xavierca1/cohort-crm/internal/infra/queue"
	"github.com/xavierca1/cohort-crm/internal/infra/worker"
	"github.com/xavierca1/cohort-crm/internal/usecase"
)

// App junta tudo que o main precisa fechar no shutdown.
type App struct {
	Router http.Handler

	db       *sql.DB
	rabbitMQ *queue.RabbitMQ
	redis    *redis.Client
	reminder *worker.FollowUpReminderWorker
}

// buildApp monta as dependências. Dependência opcional que falha ao conectar
// só é logada: a API sobe e as operações afetadas respondem erro de config.
func buildApp(ctx context.Context, cfg *config.Config) *App {
	app := &App{}

	// 1. Banco
	if cfg.DatabaseURL != "" {
		db, err := database.NewDBConnection(ctx, cfg.DatabaseURL, database.PoolConfig{
			MaxOpenConns: cfg.DBMaxOpenConns,
			MaxIdleConns: cfg.DBMaxIdleConns,
		})
		if err != nil {
			logrus.WithError(err).Error("❌ falha ao conectar no Postgres")
		} else {
			app.db = db
		}
	} else {
		logrus.Warn("⚠️ DATABASE_URL não configurada")
	}

	// 2. Repositórios (db nil => ErrNotConfigured em cada chamada)
	leadRepo := database.NewLeadRepository(app.db)
	activityRepo := database.NewActivityRepository(app.db)
	followUpRepo := database.NewFollowUpRepository(app.db)
	campaignRepo := database.NewCampaignRepository(app.db)

	// 3. Gateways e Adapters
	gb := gallabox.NewClient(cfg.GallaboxBaseURL, cfg.GallaboxAPIKey)

	var publisher usecase.EventPublisher
	if cfg.AMQPURL != "" {
		rmq, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			logrus.WithError(err).Error("❌ RabbitMQ indisponível, eventos de stage desligados")
		} else {
			app.rabbitMQ = rmq
			publisher = queue.NewProducer(rmq.Ch)
		}
	}

	var (
		dedup      usecase.EventDeduplicator
		redisDedup *cache.Deduplicator
	)
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			logrus.WithError(err).Error("❌ Redis indisponível, webhooks sem deduplicação")
		} else {
			app.redis = client
			redisDedup = cache.NewDeduplicator(client)
			dedup = redisDedup
		}
	}

	// 4. UseCases
	leadUC := usecase.NewLeadUseCase(leadRepo, publisher)
	activityUC := usecase.NewActivityUseCase(activityRepo, leadRepo)
	followUpUC := usecase.NewFollowUpUseCase(followUpRepo)
	analyticsUC := usecase.NewAnalyticsUseCase(leadRepo, activityRepo)
	messagingUC := usecase.NewMessagingUseCase(gb, leadRepo, activityRepo, campaignRepo)
	webhookUC := usecase.NewWebhookUseCase(leadRepo, activityRepo, dedup)

	// 5. Workers
	if app.rabbitMQ != nil {
		notifier := usecase.NewEnrollmentNotifier(gb, leadRepo, activityRepo, cfg.EnrolledTemplateName)
		w := queue.NewWorker(app.rabbitMQ.Ch, notifier)
		go func() {
			if err := w.Start(ctx, queue.QueueName); err != nil {
				logrus.WithError(err).Error("❌ worker de transições parou")
			}
		}()
	}

	if cfg.MailConfigured() {
		sender := mail.NewEmailSender(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPass, cfg.MailFrom)
		reminder := worker.NewFollowUpReminderWorker(followUpRepo, sender, cfg.FollowUpReminderTo, cfg.FollowUpReminderSchedule)
		if err := reminder.Start(ctx); err != nil {
			logrus.WithError(err).Error("❌ agenda de lembretes inválida")
		} else {
			app.reminder = reminder
		}
	} else {
		logrus.Info("SMTP ou FOLLOWUP_REMINDER_TO ausentes, lembretes desligados")
	}

	// 6. Handlers
	health := handlers.NewHealthHandler(nil)
	if app.db != nil {
		health.DB = app.db
	}
	if app.rabbitMQ != nil {
		health.RabbitMQ = app.rabbitMQ.Healthy
	}
	if redisDedup != nil {
		health.Redis = redisDedup.Ping
	}
	health.Gallabox = gb.Configured

	formsLimiter := middleware.NewRateLimiter(30, time.Minute)
	go formsLimiter.Cleanup(ctx)

	// 7. Router
	app.Router = handlers.NewRouter(handlers.RouterConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Leads:          handlers.NewLeadHandler(leadUC, activityUC),
		Activities:     handlers.NewActivityHandler(activityUC),
		FollowUps:      handlers.NewFollowUpHandler(followUpUC),
		Analytics:      handlers.NewAnalyticsHandler(analyticsUC),
		Gallabox:       handlers.NewGallaboxHandler(messagingUC),
		Webhooks:       handlers.NewWebhookHandler(webhookUC),
		Health:         health,
		FormsLimiter:   formsLimiter,
	})

	return app
}

func (a *App) Close() {
	if a.reminder != nil {
		a.reminder.Stop()
	}
	a.rabbitMQ.Close()
	if a.redis != nil {
		a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
