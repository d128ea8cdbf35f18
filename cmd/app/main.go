package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"dispatch/cmd"
	"dispatch/internal/adapters/out/postgres"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db := openDatabase(configs)
	if err := postgres.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, db, logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Fatalf("Error loading .env file")
	}

	return cmd.Config{
		HTTPPort:   os.Getenv("HTTP_PORT"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  os.Getenv("DB_SSLMODE"),

		DefaultPlatform:   os.Getenv("DEFAULT_PLATFORM"),
		TelegramNotifyURL: os.Getenv("TELEGRAM_NOTIFY_URL"),
		WhatsAppNotifyURL: os.Getenv("WHATSAPP_NOTIFY_URL"),
		NotifyTimeout:     durationVariable("NOTIFY_TIMEOUT", 10*time.Second),

		OutboxBatchLimit:  intVariable("OUTBOX_BATCH_LIMIT", 20),
		OutboxMaxRetries:  intVariable("OUTBOX_MAX_RETRIES", 5),
		OutboxBaseBackoff: durationVariable("OUTBOX_BASE_BACKOFF", 30*time.Second),
		OutboxMaxBackoff:  durationVariable("OUTBOX_MAX_BACKOFF", time.Hour),

		WalletCreditLimit:    decimalVariable("WALLET_CREDIT_LIMIT", "-50.00"),
		WalletCommissionRate: decimalVariable("STATION_COMMISSION_RATE", "0.10"),
	}
}

func intVariable(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Invalid integer in %s: %v", key, err)
	}
	return value
}

func durationVariable(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}

	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Invalid duration in %s: %v", key, err)
	}
	return value
}

func decimalVariable(key, fallback string) decimal.Decimal {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}

	value, err := decimal.NewFromString(raw)
	if err != nil {
		log.Fatalf("Invalid decimal in %s: %v", key, err)
	}
	return value
}

func openDatabase(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost,
		configs.DBPort,
		configs.DBUser,
		configs.DBPassword,
		configs.DBName,
		configs.DBSslMode,
	)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	return db
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()
	app.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
