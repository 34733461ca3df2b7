package repository

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"go_5_study_keep/internal/model"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newGormLogger(appLogger *slog.Logger) gormlogger.Interface {
	var gormLogLevel gormlogger.LogLevel
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		gormLogLevel = gormlogger.Info
	} else {
		gormLogLevel = gormlogger.Warn
	}

	slogGormLogger := slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	)
	return slogGormLogger.LogMode(gormLogLevel)
}

// NewLocalDB はゲストスコープ用のローカルSQLite接続を開きます。
// ローカルストアは常に利用可能である前提なので、スキーマもここで適用する。
// オフラインキューはこのDBにのみ存在する。
func NewLocalDB(path string, appLogger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newGormLogger(appLogger),
	})
	if err != nil {
		appLogger.Error("Failed to open local database", slog.Any("error", err))
		return nil, err
	}

	err = db.AutoMigrate(
		&model.MasteryState{},
		&model.QuestionHistory{},
		&model.BestScore{},
		&model.QueueItem{},
	)
	if err != nil {
		appLogger.Error("Failed to migrate local database", slog.Any("error", err))
		return nil, err
	}

	appLogger.Info("Local database ready", slog.String("path", path))
	return db, nil
}

// NewRemoteDB は認証済みスコープ用のリモートPostgreSQL接続を開きます。
// 接続失敗は呼び出し元でハンドリングする（起動時にリモートが落ちていても
// アプリはオフラインモードで動き続ける）。
func NewRemoteDB(databaseURL string, appLogger *slog.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: newGormLogger(appLogger),
	})
	if err != nil {
		appLogger.Error("Failed to connect to remote database", slog.Any("error", err))
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		appLogger.Error("Error getting underlying sql.DB from GORM", slog.Any("error", err))
		return nil, err
	}

	if err = sqlDB.Ping(); err != nil {
		appLogger.Error("Error pinging remote database", slog.Any("error", err))
		sqlDB.Close()
		return nil, err
	}

	// コネクションプールの設定
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	err = db.AutoMigrate(
		&model.MasteryState{},
		&model.QuestionHistory{},
		&model.BestScore{},
		&model.MigrationMarker{},
	)
	if err != nil {
		appLogger.Error("Failed to migrate remote database", slog.Any("error", err))
		return nil, err
	}

	appLogger.Info("Remote database connection established")
	return db, nil
}
