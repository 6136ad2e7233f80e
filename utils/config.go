package utils

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds process-wide settings, loaded once at startup.
var AppConfig *Config

type Config struct {
	Port                string `envconfig:"PORT" default:"8080"`
	AllowedOrigin       string `envconfig:"ALLOWED_ORIGIN" default:"http://localhost:3000"`
	OrgEmailDomain      string `envconfig:"ORG_EMAIL_DOMAIN" default:"iitp.ac.in"`
	FrontendRedirectURL string `envconfig:"FRONTEND_REDIRECTION_URL" default:"http://localhost:3000"`

	AzureClientID     string `envconfig:"AZURE_CLIENT_ID"`
	AzureClientSecret string `envconfig:"AZURE_CLIENT_SECRET"`
	AzureTenant       string `envconfig:"AZURE_TENANT" default:"common"`
	AzureRedirectURL  string `envconfig:"AZURE_REDIRECT_URL"`
}

func LoadConfig() (*Config, error) {
	if os.Getenv("RENDER") == "" {
		godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	AppConfig = &cfg
	return &cfg, nil
}
