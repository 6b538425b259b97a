package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"assistant-client/internal/apiclient"
	"assistant-client/internal/config"
	"assistant-client/internal/service"
	"assistant-client/internal/session"
)

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorCyan  = "\033[36m"
	colorReset = "\033[0m"
)

func main() {
	email := flag.String("email", "", "email de prueba (default: uno aleatorio)")
	password := flag.String("password", "smoke-password", "password de prueba")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}
	if *email == "" {
		*email = "smoke-" + uuid.NewString()[:8] + "@example.com"
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	// La sesion del smoke check nunca toca la del usuario.
	sessions := session.NewStore(session.NewMemoryStorage(), logger)
	client := apiclient.NewClient(cfg.APIBaseURL, sessions, cfg.HTTPTimeout(), logger)
	authSvc := service.NewAuthService(client, sessions, logger)
	chatSvc := service.NewChatService(client)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fmt.Printf("%s[Backend]%s %s\n", colorCyan, colorReset, cfg.APIBaseURL)
	results := runScenario(ctx, authSvc, chatSvc, sessions, *email, *password)
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("%s[FAIL]%s %s: %s\n", colorRed, colorReset, r.Name, service.UserMessage(r.Err, "error"))
			continue
		}
		fmt.Printf("%s[ OK ]%s %s\n", colorGreen, colorReset, r.Name)
	}
	if failed > 0 {
		os.Exit(1)
	}
}
