package database

import (
	"context"
	"fmt"
	"time"

	"supapass/models"

	"github.com/caarlos0/env/v8"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// LoadConfig reads the server configuration from the environment. A
// .env file is honored when present so local runs do not need the
// variables exported.
func LoadConfig() (models.Config, error) {
	_ = godotenv.Load()

	var config models.Config
	if err := env.Parse(&config); err != nil {
		return config, fmt.Errorf("parsing environment: %w", err)
	}
	return config, nil
}

func InitPostgreSQL(config models.Config, logger *zap.Logger) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s dbname=%s password=%s sslmode=%s",
		config.DBHost, config.DBPort, config.DBUser, config.DBName, config.DBPassword, config.DBSSLMode)

	const maxRetries = 3
	const retryInterval = 5 * time.Second
	var lastErr error
	for i := 0; i <= maxRetries; i++ {
		gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			if err := gormDB.AutoMigrate(
				&models.User{},
				&models.Pass{},
				&models.Device{},
				&models.Registration{},
			); err != nil {
				return nil, fmt.Errorf("running migrations: %w", err)
			}
			return gormDB, nil
		}
		lastErr = err
		logger.Error("database connection retry", zap.Int("retry", i), zap.Error(err))
		time.Sleep(retryInterval)
	}
	return nil, fmt.Errorf("connecting to database: %w", lastErr)
}

func InitRedis(config models.Config, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	logger.Info("connected to Redis", zap.String("addr", config.RedisAddr))
	return client, nil
}
