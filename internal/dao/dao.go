package dao

import (
	"context"
	"fmt"
	"time"

	"github.com/Malowking/quoterisk/core/config"
	"github.com/Malowking/quoterisk/core/errors"
	gormModel "github.com/Malowking/quoterisk/internal/model/gorm"
	"github.com/gogf/gf/v2/frame/g"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BuildDSN 构建 PostgreSQL 连接字符串（空密码时省略 password）
func BuildDSN(cfg config.DatabaseConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	if cfg.Pass == "" {
		return fmt.Sprintf("host=%s user=%s dbname=%s port=%s sslmode=%s",
			cfg.Host, cfg.User, cfg.Name, cfg.Port, sslMode)
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Pass, cfg.Name, cfg.Port, sslMode)
}

// InitDB 初始化数据库连接并迁移表结构
func InitDB(ctx context.Context, cfg config.DatabaseConfig, dimension int) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.Debug {
		logLevel = logger.Info
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// 唯一约束冲突转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	g.Log().Infof(ctx, "Connecting to PostgreSQL at: %s:%s, database: %s", cfg.Host, cfg.Port, cfg.Name)
	db, err := gorm.Open(postgres.Open(BuildDSN(cfg)), gormConfig)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseInit, err, "failed to connect database")
	}

	// 设置连接池
	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseInit, err, "failed to get database instance")
	}
	sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdle, 10))
	sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpen, 100))
	lifetime := cfg.Lifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}
	sqlDB.SetConnMaxLifetime(lifetime)

	// 自动迁移数据库表结构
	if err = gormModel.Migrate(db, dimension); err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseInit, err, "failed to migrate database tables")
	}

	return db, nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
