package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppName string
	AppEnv  string
	AppPort string

	LogLevel  string
	LogFormat string

	StorageDriver string // memory, redis ou postgres
	DatabaseURL   string
	RedisAddr     string
	RedisPass     string
	RedisDB       int
	RedisPrefix   string

	RabbitMQURL string

	MailHost string
	MailPort int
	MailUser string
	MailPass string
	MailFrom string

	WhatsAppToken          string
	WhatsAppPhoneID        string
	WhatsAppBaseURL        string
	WhatsAppCancelTemplate string

	DoctorRegistrationToken string

	ExamWorkerInterval time.Duration
	CORSOrigins        []string
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

var (
	config *Config
	once   sync.Once
)

// LoadConfig carrega o .env (se existir) uma única vez e devolve o Config.
func LoadConfig() *Config {
	once.Do(func() {
		_ = godotenv.Load()
		config = Load()
	})
	return config
}

// Load lê as variáveis de ambiente já presentes no processo.
func Load() *Config {
	return &Config{
		AppName: getEnv("APP_NAME", "clinitech-api"),
		AppEnv:  getEnv("APP_ENV", "development"),
		AppPort: getEnv("APP_PORT", "8080"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "memory")),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisPrefix:   getEnv("REDIS_PREFIX", "clinitech:"),

		RabbitMQURL: os.Getenv("RABBITMQ_URL"),

		MailHost: os.Getenv("MAIL_HOST"),
		MailPort: getEnvInt("MAIL_PORT", 587),
		MailUser: os.Getenv("MAIL_USER"),
		MailPass: os.Getenv("MAIL_PASS"),
		MailFrom: getEnv("MAIL_FROM", "nao-responda@clinitech.com.br"),

		WhatsAppToken:          os.Getenv("WHATSAPP_ACCESS_TOKEN"),
		WhatsAppPhoneID:        os.Getenv("WHATSAPP_PHONE_ID"),
		WhatsAppBaseURL:        getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v18.0"),
		WhatsAppCancelTemplate: getEnv("WHATSAPP_TEMPLATE_CANCEL", "consulta_cancelada"),

		DoctorRegistrationToken: os.Getenv("DOCTOR_REGISTRATION_TOKEN"),

		ExamWorkerInterval: getEnvDuration("EXAM_WORKER_INTERVAL", time.Hour),
		CORSOrigins:        splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key))); err == nil {
		return v
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key))); err == nil && v > 0 {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
