package cmd

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config carries everything the application reads from the environment.
// Parsing happens once at startup; the rest of the system only sees typed values.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// DefaultPlatform is the messaging platform new notifications target.
	DefaultPlatform string

	// Relay endpoints per platform. An empty URL falls back to the log notifier.
	TelegramNotifyURL string
	WhatsAppNotifyURL string
	NotifyTimeout     time.Duration

	OutboxBatchLimit  int
	OutboxMaxRetries  int
	OutboxBaseBackoff time.Duration
	OutboxMaxBackoff  time.Duration

	// WalletCreditLimit is the negative floor applied to wallets created on
	// first use. WalletCommissionRate seeds new station wallets.
	WalletCreditLimit    decimal.Decimal
	WalletCommissionRate decimal.Decimal
}
