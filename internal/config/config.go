package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	PORT string

	DB_HOST     string
	DB_PORT     string
	DB_USER     string
	DB_PASSWORD string
	DB_NAME     string

	ES_URL      string
	ES_USER     string
	ES_PASSWORD string

	KAFKA_ADDRESS string

	SECRET_KEY                  string
	JWT_ALGORITHM               string
	ACCESS_TOKEN_EXPIRE_MINUTES int
	REFRESH_TOKEN_EXPIRE_DAYS   int

	PRODUCTION bool
	LOG_LEVEL  string
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	config := &Config{
		PORT:                        getenvDefault("PORT", "8080"),
		DB_HOST:                     os.Getenv("DB_HOST"),
		DB_PORT:                     os.Getenv("DB_PORT"),
		DB_USER:                     os.Getenv("DB_USER"),
		DB_PASSWORD:                 os.Getenv("DB_PASSWORD"),
		DB_NAME:                     os.Getenv("DB_NAME"),
		ES_URL:                      os.Getenv("ES_URL"),
		ES_USER:                     os.Getenv("ES_USER"),
		ES_PASSWORD:                 os.Getenv("ES_PASSWORD"),
		KAFKA_ADDRESS:               os.Getenv("KAFKA_ADDRESS"),
		SECRET_KEY:                  os.Getenv("SECRET_KEY"),
		JWT_ALGORITHM:               getenvDefault("JWT_ALGORITHM", "HS256"),
		ACCESS_TOKEN_EXPIRE_MINUTES: getenvIntDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 15),
		REFRESH_TOKEN_EXPIRE_DAYS:   getenvIntDefault("REFRESH_TOKEN_EXPIRE_DAYS", 7),
		PRODUCTION:                  getenvBool("PRODUCTION"),
		LOG_LEVEL:                   getenvDefault("LOG_LEVEL", "info"),
	}

	if config.SECRET_KEY == "" {
		return nil, fmt.Errorf("SECRET_KEY is not set")
	}

	return config, nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DB_USER, c.DB_PASSWORD, c.DB_HOST, c.DB_PORT, c.DB_NAME,
	)
}

func (c *Config) AccessTTL() time.Duration {
	return time.Duration(c.ACCESS_TOKEN_EXPIRE_MINUTES) * time.Minute
}

func (c *Config) RefreshTTL() time.Duration {
	return time.Duration(c.REFRESH_TOKEN_EXPIRE_DAYS) * 24 * time.Hour
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Notice: %s=%q is not a number, using default %d", key, v, def)
		return def
	}
	return n
}

func getenvBool(key string) bool {
	v, _ := strconv.ParseBool(os.Getenv(key))
	return v
}
