package config

import (
	"os"
	"strconv"
)

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
}

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv("APP_NAME", "Academy Auth")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

func (EnvVars) GetRedisAddr() string {
	return GetEnv("REDIS_ADDR", "localhost:6379")
}

func (EnvVars) GetRedisPassword() string {
	return GetEnv("REDIS_PASSWORD", "")
}

func (EnvVars) GetRedisDB() int {
	db, err := strconv.Atoi(GetEnv("REDIS_DB", "0"))
	if err != nil {
		return 0
	}
	return db
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
