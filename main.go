package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"dinnermatch_server/config"
	"dinnermatch_server/gateway"
	"dinnermatch_server/helpers"
	"dinnermatch_server/routes"
	"dinnermatch_server/services"
	"dinnermatch_server/socket"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/rs/cors"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelDebug, TimeFormat: time.DateTime})))

	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	// Feishu token cache and records client
	tokens := services.NewTokenService(cfg.FeishuBaseURL, cfg.AppID, cfg.AppSecret, httpClient)
	bitable := services.NewBitableService(cfg.FeishuBaseURL, cfg.AppToken, tokens, httpClient)

	index, closeIndex, err := buildDateIndex(ctx, cfg)
	if err != nil {
		slog.Error("date index setup failed", "backend", cfg.DateIndex, "error", err)
		os.Exit(1)
	}
	defer closeIndex()

	// Match notifications over socket.io
	hub := socket.NewHub()
	go func() {
		if err := hub.Server.Serve(); err != nil {
			slog.Error("socket server stopped", "error", err)
		}
	}()
	defer hub.Server.Close()

	svc := routes.Services{
		Match:  services.NewMatchService(services.NewMatchStore(bitable, cfg.MatchTableID, index), hub),
		Quiz:   services.NewQuizService(services.NewQuizStore(bitable, cfg.QuizTableID, index), hub),
		Events: services.NewEventService(bitable, cfg.EventsTableID),
	}
	if cfg.S3BucketName != "" {
		awsCfg, err := services.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			slog.Error("avatar uploads disabled", "error", err)
		} else {
			svc.Avatars = services.NewS3Service(awsCfg, cfg.S3BucketName)
		}
	}

	r := routes.NewRouter(svc)
	api := helpers.StripAPIPrefix(r)
	r.Handle(gateway.InvokePath, gateway.EventHandler(api)).Methods("POST")
	r.Handle("/socket.io/", hub.Server)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}).Handler(api)

	server := http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Port),
		Handler: helpers.WithLogging(corsHandler),
	}

	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-ctrlc
		server.Close()
	}()

	slog.Info("🚀 starting server", "port", cfg.Port, "date_index", cfg.DateIndex)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server closed", "error", err)
		os.Exit(1)
	}
	slog.Info("server closed")
}

// buildDateIndex opens the configured date index; "none" means scan only
func buildDateIndex(ctx context.Context, cfg config.Config) (services.DateIndex, func(), error) {
	switch cfg.DateIndex {
	case config.DateIndexDynamoDB:
		awsCfg, err := services.LoadAWSConfig(ctx, cfg.AWSRegion)
		if err != nil {
			return nil, nil, err
		}
		return services.NewDynamoDateIndex(dynamodb.NewFromConfig(awsCfg), cfg.DateIndexTable), func() {}, nil
	case config.DateIndexRedis:
		rdb, err := services.NewRedisClient(ctx, services.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return &services.RedisDateIndex{Client: rdb, TTL: cfg.RedisIndexTTL}, func() { rdb.Close() }, nil
	}
	return nil, func() {}, nil
}
