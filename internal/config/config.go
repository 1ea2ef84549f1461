package config

import (
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" default:"host=postgres user=postgres password=postgres dbname=auroramart port=5432 sslmode=disable"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DeliveryFee           decimal.Decimal `envconfig:"DELIVERY_FEE" default:"4.99"`
	FreeDeliveryThreshold decimal.Decimal `envconfig:"FREE_DELIVERY_THRESHOLD" default:"150.00"`

	// Directory holding the exported recommendation artifacts. Missing files
	// disable personalization rather than failing startup.
	ModelDir string `envconfig:"MODEL_DIR" default:"ml_models"`

	OIDCIssuer   string `envconfig:"OIDC_ISSUER" default:"https://accounts.google.com"`
	OIDCClientID string `envconfig:"OIDC_CLIENT_ID" default:""`

	SMSAPIKey   string `envconfig:"SMS_API_KEY" default:""`
	SMSUsername string `envconfig:"SMS_USERNAME" default:"sandbox"`
	SMSEndpoint string `envconfig:"SMS_ENDPOINT" default:"https://api.sandbox.africastalking.com/version1/messaging"`
	SMSTo       string `envconfig:"SMS_TO" default:""`

	SMTPHost     string `envconfig:"SMTP_HOST" default:""`
	SMTPPort     string `envconfig:"SMTP_PORT" default:"587"`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	OrdersEmail  string `envconfig:"ORDERS_EMAIL" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
