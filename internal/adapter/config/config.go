package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Database *Database
	HTTP     *HTTP
	App      *App
	Auth     *Auth
	Dispatch *Dispatch
	Redis    *Redis
	Mail     *Mail
}

const AppModeProduction = "PROD"
const AppModeDevelop = "DEV"

type App struct {
	LogLevel string `env:"LOG_LEVEL"`
	Mode     string `env:"APP_MODE"`
}

type Database struct {
	DSN string `env:"DATABASE_URI"`
}

type HTTP struct {
	HostString string `env:"RUN_ADDRESS"`
}

type Auth struct {
	// TokenKey is a hex encoded v4 local symmetric key.
	TokenKey string        `env:"TOKEN_KEY"`
	TokenTTL time.Duration `env:"TOKEN_TTL"`
}

type Dispatch struct {
	PendingTTL   time.Duration `env:"ORDER_PENDING_TTL"`
	ClaimWindow  time.Duration `env:"ORDER_CLAIM_WINDOW"`
	RepeatDelay  time.Duration `env:"DISPATCH_REPEAT_DELAY"`
	AddressDelay time.Duration `env:"DISPATCH_ADDRESS_DELAY"`
	DefaultDelay time.Duration `env:"DISPATCH_DEFAULT_DELAY"`
}

// Redis is optional: without an address pending orders are staged in memory.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB"`
}

type Mail struct {
	Endpoint  string `env:"MAIL_ENDPOINT"`
	Recipient string `env:"MAIL_RECIPIENT"`
	Workers   int    `env:"MAIL_WORKERS"`
	QueueSize int    `env:"MAIL_QUEUE_SIZE"`
}

func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}
	return parse(flag.CommandLine, os.Args[1:])
}

func parse(fset *flag.FlagSet, args []string) (*Config, error) {
	var db Database
	var http HTTP
	var app App
	var auth Auth
	var dispatch Dispatch
	var redis Redis
	var mail Mail

	fset.StringVar(&db.DSN, "d", "", "Database string")
	fset.StringVar(&http.HostString, "a", `localhost:8080`, "HTTP server endpoint")
	fset.StringVar(&app.LogLevel, "l", `error`, "Log level")
	fset.StringVar(&app.Mode, "m", `DEV`, "PROD / DEV")
	fset.StringVar(&auth.TokenKey, "k", "", "Token symmetric key, hex")
	fset.DurationVar(&auth.TokenTTL, "token-ttl", 12*time.Hour, "Token lifetime")
	fset.DurationVar(&dispatch.PendingTTL, "pending-ttl", 120*time.Second, "How long a new order stays open")
	fset.DurationVar(&dispatch.ClaimWindow, "claim-window", 10*time.Minute, "Order expiry after a claim")
	fset.DurationVar(&dispatch.RepeatDelay, "repeat-delay", time.Second, "Notification delay for a repeat payee")
	fset.DurationVar(&dispatch.AddressDelay, "address-delay", 60*time.Second, "Notification delay for a payee at the customer address")
	fset.DurationVar(&dispatch.DefaultDelay, "default-delay", 30*time.Second, "Notification delay for other payees")
	fset.StringVar(&redis.Addr, "redis", "", "Redis address for order staging")
	fset.StringVar(&mail.Endpoint, "mail", "", "Mail gateway endpoint")
	fset.StringVar(&mail.Recipient, "mail-to", "", "Back office mail recipient")
	fset.IntVar(&mail.Workers, "mail-workers", 2, "Mail delivery workers")
	fset.IntVar(&mail.QueueSize, "mail-queue", 64, "Mail queue size")
	if err := fset.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	err := env.Parse(&db)
	if err != nil {
		return nil, fmt.Errorf("error parsing env database config: %w", err)
	}
	err = env.Parse(&http)
	if err != nil {
		return nil, fmt.Errorf("error parsing http config: %w", err)
	}
	err = env.Parse(&app)
	if err != nil {
		return nil, fmt.Errorf("error parsing app config: %w", err)
	}
	err = env.Parse(&auth)
	if err != nil {
		return nil, fmt.Errorf("error parsing auth config: %w", err)
	}
	err = env.Parse(&dispatch)
	if err != nil {
		return nil, fmt.Errorf("error parsing dispatch config: %w", err)
	}
	err = env.Parse(&redis)
	if err != nil {
		return nil, fmt.Errorf("error parsing redis config: %w", err)
	}
	err = env.Parse(&mail)
	if err != nil {
		return nil, fmt.Errorf("error parsing mail config: %w", err)
	}

	config := Config{
		Database: &db,
		HTTP:     &http,
		App:      &app,
		Auth:     &auth,
		Dispatch: &dispatch,
		Redis:    &redis,
		Mail:     &mail,
	}

	return &config, nil
}
