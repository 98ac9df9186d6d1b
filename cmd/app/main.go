package main

import (
	"context"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"github.com/teDdyMucho/connectlove-sub001/internal/handler"
	"github.com/teDdyMucho/connectlove-sub001/internal/rabbitmq"
	"github.com/teDdyMucho/connectlove-sub001/internal/repository"
	"github.com/teDdyMucho/connectlove-sub001/internal/service"
	"github.com/teDdyMucho/connectlove-sub001/internal/webhook"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := initEnv(); err != nil {
		logger.Sugar().Fatalf("failed to load environment variables: %s", err.Error())
	}

	if err := initConfig(); err != nil {
		logger.Sugar().Fatalf("failed to initialize yaml config: %s", err.Error())
	}

	db, err := pgxpool.New(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		logger.Sugar().Fatalf("failed to connect to postgres: %s", err.Error())
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     viper.GetString("redis.addr"),
		Password: os.Getenv("REDIS_PASSWORD"),
	})
	defer rdb.Close()

	mq, err := rabbitmq.Dial(os.Getenv("RABBITMQ_URL"))
	if err != nil {
		logger.Sugar().Fatalf("failed to connect to rabbitmq: %s", err.Error())
	}
	defer mq.Close()

	repo := repository.New(db, rdb)
	feed := rabbitmq.NewSupportFeed(logger, mq)
	sender := webhook.NewClient(logger, viper.GetString("webhook.support_action_url"), time.Second*10)

	services := service.New(logger, repo, feed, sender)
	handlers := handler.New(services)

	if err := handlers.InitRoutes().Run(":" + viper.GetString("server.port")); err != nil {
		logger.Sugar().Fatalf("failed to run server: %s", err.Error())
	}
}

func initEnv() error {
	return godotenv.Load(".env")
}

func initConfig() error {
	viper.AddConfigPath("./")
	viper.SetConfigType("yaml")
	viper.SetConfigName("app")
	return viper.ReadInConfig()
}
