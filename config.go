package main

import (
	"context"
	"fmt"
	"os"

	aws_pkg "retail-service/pkg/aws"
)

type Config struct {
	Port             string
	Env              string
	RedisURL         string
	KafkaBrokers     string
	KafkaTopic       string
	SNSTopicARN      string
	StripeSecretKey  string
	StripeWebhookKey string
	JWTSecret        string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("APP_ENV", "development"),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		KafkaBrokers:     os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:       getEnv("RETAIL_EVENTS_TOPIC", "retail.events"),
		SNSTopicARN:      os.Getenv("SNS_TOPIC_ARN"),
		StripeSecretKey:  os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookKey: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		JWTSecret:        os.Getenv("JWT_SECRET"),
	}

	if os.Getenv("AWS_USE_SECRETS") == "true" {
		if awsCfg, err := aws_pkg.LoadAWSConfig(context.Background()); err == nil {
			sm := aws_pkg.NewSecretsClient(awsCfg)

			if kv, err := sm.GetSecretJSON(context.Background(), "retail/PAYMENT_KEYS"); err == nil {
				if v := kv["STRIPE_SECRET_KEY"]; v != "" {
					cfg.StripeSecretKey = v
				}
				if v := kv["STRIPE_WEBHOOK_SECRET"]; v != "" {
					cfg.StripeWebhookKey = v
				}
			}
			if v, err := sm.GetSecret(context.Background(), "retail/JWT_SECRET"); err == nil && v != "" {
				cfg.JWTSecret = v
			}
		}
	}

	if cfg.JWTSecret == "" && cfg.Env == "production" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
