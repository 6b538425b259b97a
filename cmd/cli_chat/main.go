package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"assistant-client/internal/apiclient"
	"assistant-client/internal/config"
	"assistant-client/internal/dashboard"
	"assistant-client/internal/service"
	"assistant-client/internal/session"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	sessions, closeSessions, err := session.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open session store", zap.Error(err))
	}
	defer closeSessions()

	client := apiclient.NewClient(cfg.APIBaseURL, sessions, cfg.HTTPTimeout(), logger)
	authSvc := service.NewAuthService(client, sessions, logger)
	dash := dashboard.New(service.NewChatService(client), sessions, logger)

	app := &cliApp{
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		sessions: sessions,
		auth:     authSvc,
		dash:     dash,
	}
	app.run(ctx)
}
