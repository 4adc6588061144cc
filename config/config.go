package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port        string `envconfig:"PORT"         default:"8080"`
	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL"    default:"info"`
	JWTSecret   string `envconfig:"JWT_SECRET"   required:"true"`
	BaseURL     string `envconfig:"BASE_URL"     default:"http://localhost:8080"`
	MediaRoot   string `envconfig:"MEDIA_ROOT"   default:"./media"`

	SMTP   SMTP
	Khalti Khalti
}

// SMTP is optional: with an empty host the mailer logs and skips every send,
// which keeps local development working without a mail server.
type SMTP struct {
	Host     string `envconfig:"SMTP_HOST"`
	Port     int    `envconfig:"SMTP_PORT" default:"587"`
	Username string `envconfig:"SMTP_USERNAME"`
	Password string `envconfig:"SMTP_PASSWORD"`
	From     string `envconfig:"DEFAULT_FROM_EMAIL" default:"noreply@pethood.local"`
}

type Khalti struct {
	SecretKey string `envconfig:"KHALTI_SECRET_KEY"`
	APIURL    string `envconfig:"KHALTI_API_URL" default:"https://a.khalti.com/api/v2"`
	ReturnURL string `envconfig:"KHALTI_RETURN_URL"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: error loading .env file: %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
