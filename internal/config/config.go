package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort          string
	DatabaseDSN       string
	CORSOrigins       string
	BalanceBandsPath  string // JSON con le bande di bilanciamento (vuoto = default gelato base latte)
	ExpiryHorizonDays int    // orizzonte di default per gli avvisi di scadenza
}

func Load() *Config {
	// .env solo per sviluppo locale, in produzione si usano le env reali
	if err := godotenv.Load(); err == nil {
		logrus.Info("Variabili caricate da .env")
	}

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8000"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=gelato port=5432 sslmode=disable"),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		BalanceBandsPath:  getEnv("BALANCE_BANDS_PATH", ""),
		ExpiryHorizonDays: getEnvInt("EXPIRY_HORIZON_DAYS", 14),
	}

	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=gelato port=5432 sslmode=disable" {
		logrus.Warn("DATABASE_DSN con valore di default, in produzione configura la tua connessione Postgres")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		logrus.Warn("CORS_ALLOWED_ORIGINS con valore di default, in produzione configura il tuo dominio")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		logrus.Warnf("%s non è un intero valido (%q), uso il default %d", key, v, def)
		return def
	}
	return n
}
