package initializers

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/Kariqs/amexan-storefront/apiclient"
	"github.com/Kariqs/amexan-storefront/services"
	"github.com/Kariqs/amexan-storefront/utils"
)

const defaultAllowedOrigins = "http://localhost:4200,https://www.amexan.store"

type Config struct {
	Port     string
	AppEnv   string
	LogLevel string

	API apiclient.Config

	// DBURL is a MySQL DSN for the checkout journal. Empty disables it.
	DBURL string

	AllowedOrigins       []string
	MissingProductPolicy services.MissingProductPolicy
	OrderItemNamePolicy  services.OrderItemNamePolicy
	LookupConcurrency    int

	Mail utils.MailConfig
}

// LoadEnv reads a .env file into the environment if there is one.
func LoadEnv() error {
	return godotenv.Load()
}

func LoadConfig() (Config, error) {
	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		API: apiclient.Config{
			BaseURL:    getEnv("API_BASE_URL", apiclient.DefaultBaseURL),
			AuthHeader: getEnv("API_AUTH_HEADER", apiclient.DefaultAuthHeader),
		},
		DBURL:          os.Getenv("DB_URL"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", defaultAllowedOrigins)),
		Mail:           utils.MailConfigFromEnv(),
	}

	timeout, err := time.ParseDuration(getEnv("API_TIMEOUT", apiclient.DefaultTimeout.String()))
	if err != nil || timeout <= 0 {
		return Config{}, fmt.Errorf("invalid API_TIMEOUT %q", os.Getenv("API_TIMEOUT"))
	}
	cfg.API.Timeout = timeout

	concurrency, err := strconv.Atoi(getEnv("LOOKUP_CONCURRENCY", strconv.Itoa(services.DefaultLookupConcurrency)))
	if err != nil || concurrency < 1 {
		return Config{}, fmt.Errorf("invalid LOOKUP_CONCURRENCY %q", os.Getenv("LOOKUP_CONCURRENCY"))
	}
	cfg.LookupConcurrency = concurrency

	if cfg.MissingProductPolicy, err = services.ParseMissingProductPolicy(os.Getenv("MISSING_PRODUCT_POLICY")); err != nil {
		return Config{}, err
	}
	if cfg.OrderItemNamePolicy, err = services.ParseOrderItemNamePolicy(os.Getenv("ORDER_ITEM_NAME_POLICY")); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
