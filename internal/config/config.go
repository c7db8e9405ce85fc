package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port     string
	DBDSN    string
	LogFile  string
	LogLevel string

	JWTSecret string
	TokenTTL  time.Duration

	Limits Limits
}

// Limits groups the business caps enforced by the services.
type Limits struct {
	MaxActiveOrders  int
	DailyOrderCap    int
	DailyReviewCap   int
	DailySignupCap   int
	DeliveryLeadDays int
	CartCap          int
	FavCap           int
	BestSellers      int
	// ClampNegativeTotal floors Order.paid at zero when a coupon exceeds the subtotal.
	ClampNegativeTotal bool
}

// DefaultLimits mirrors the reference deployment.
func DefaultLimits() Limits {
	return Limits{
		MaxActiveOrders:    3,
		DailyOrderCap:      100,
		DailyReviewCap:     100,
		DailySignupCap:     50,
		DeliveryLeadDays:   3,
		CartCap:            10,
		FavCap:             25,
		BestSellers:        25,
		ClampNegativeTotal: true,
	}
}

func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		dsn = "gotier.db"
	} // sqlite file in project root
	logFile := os.Getenv("LOG_FILE")
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Printf("[config] JWT_SECRET not set, using development secret")
		secret = "gotier-dev-secret-change-me"
	}
	ttl := 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		} else {
			log.Printf("[config] invalid TOKEN_TTL %q, keeping %s", v, ttl)
		}
	}

	lim := DefaultLimits()
	lim.MaxActiveOrders = intEnv("MAX_ACTIVE_ORDERS", lim.MaxActiveOrders)
	lim.DailyOrderCap = intEnv("DAILY_ORDER_CAP", lim.DailyOrderCap)
	lim.DailyReviewCap = intEnv("DAILY_REVIEW_CAP", lim.DailyReviewCap)
	lim.DailySignupCap = intEnv("DAILY_SIGNUP_CAP", lim.DailySignupCap)
	lim.DeliveryLeadDays = intEnv("DELIVERY_LEAD_DAYS", lim.DeliveryLeadDays)
	lim.CartCap = intEnv("CART_CAP", lim.CartCap)
	lim.FavCap = intEnv("FAV_CAP", lim.FavCap)
	lim.BestSellers = intEnv("BEST_SELLERS", lim.BestSellers)
	switch strings.ToLower(strings.TrimSpace(os.Getenv("NEGATIVE_TOTAL_POLICY"))) {
	case "allow":
		lim.ClampNegativeTotal = false
	case "", "clamp":
	default:
		log.Printf("[config] unknown NEGATIVE_TOTAL_POLICY, using clamp")
	}

	cfg := Config{
		Port:      port,
		DBDSN:     dsn,
		LogFile:   logFile,
		LogLevel:  logLevel,
		JWTSecret: secret,
		TokenTTL:  ttl,
		Limits:    lim,
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s LOG_LEVEL=%s limits=%+v",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.LogLevel, cfg.Limits)
	return cfg
}

func intEnv(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[config] invalid %s=%q, keeping %d", key, v, def)
		return def
	}
	return n
}
