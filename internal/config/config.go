package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	Database    Database

	Gateway  Gateway  `envPrefix:"GATEWAY_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
}

type Database struct {
	// Driver is "sqlite" or "mysql". Sqlite is the dev default; mysql is
	// what production runs (connection pool matters for webhooks).
	Driver string `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	URL    string `env:"DATABASE_URL" envDefault:"storefront.db"`
}

type Gateway struct {
	BaseApiURL    string        `env:"BASE_API_URL"`
	SecretKey     string        `env:"SECRET_KEY"`
	WebhookSecret string        `env:"WEBHOOK_SECRET"`
	CallbackURL   string        `env:"CALLBACK_URL"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"15s"`
}

type Checkout struct {
	// OrderTxTimeout bounds the order materialization transaction.
	OrderTxTimeout time.Duration `env:"ORDER_TX_TIMEOUT" envDefault:"10s"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
