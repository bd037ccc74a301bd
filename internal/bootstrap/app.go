package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/config"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/model"
	mysqlClient "github.com/Kaustubhyadav09/bot-gpt-backend/internal/platform/mysql"
	rabbitmqClient "github.com/Kaustubhyadav09/bot-gpt-backend/internal/platform/rabbitmq"
	redisClient "github.com/Kaustubhyadav09/bot-gpt-backend/internal/platform/redis"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/repository"
	"github.com/Kaustubhyadav09/bot-gpt-backend/internal/worker"
)

type App struct {
	Config           *config.Config
	Logger           *zap.Logger
	MySQL            *gorm.DB
	Redis            *redis.Client
	MQConn           *amqp.Connection
	MessagePublisher *rabbitmqClient.MessagePublisher
	MessageWorker    *worker.MessagePersistWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	logger, err := newLogger(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Conversation{},
		&model.ConversationDocument{},
		&model.Message{},
		&model.Document{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	messagePublisher, err := rabbitmqClient.NewMessagePublisher(mqConn, cfg.RabbitMQ.MessagePersistQueue)
	if err != nil {
		return nil, fmt.Errorf("init message publisher failed: %w", err)
	}

	messageRepo := repository.NewMessageRepository(mysqlDB)
	messageWorker := worker.NewMessagePersistWorker(mqConn, messageRepo, cfg.RabbitMQ.MessagePersistQueue, logger)
	if err := messageWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start message worker failed: %w", err)
	}

	return &App{
		Config:           cfg,
		Logger:           logger,
		MySQL:            mysqlDB,
		Redis:            redisCli,
		MQConn:           mqConn,
		MessagePublisher: messagePublisher,
		MessageWorker:    messageWorker,
		StartedAt:        time.Now(),
	}, nil
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "dev" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MessageWorker != nil {
		a.MessageWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
