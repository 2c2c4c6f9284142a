package db

import (
	"log"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"

	authentity "weeklist_backend/internal/feature/auth/domain/entity"
	weeklistentity "weeklist_backend/internal/feature/weeklist/domain/entity"
	"weeklist_backend/internal/platform/config"
)

// OpenDB はMySQLへのGORM接続を確立します。起動直後にDBが立ち上がって
// いないケースに備え、60秒を上限にリトライします。
// runMigrationsが真の場合、スキーマのAutoMigrateを実行します。
func OpenDB(cfg config.DBConfig, runMigrations bool) *gorm.DB {
	dsn := cfg.DSN()

	var (
		db  *gorm.DB
		err error
	)

	deadline := time.Now().Add(60 * time.Second)
	for {
		db, err = gorm.Open(gmysql.Open(dsn), &gorm.Config{TranslateError: true})
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("DB connect failed after 60s: %v", err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}

	if runMigrations {
		// マイグレーション（User, WeekList）
		if err := db.AutoMigrate(
			&authentity.User{},
			&weeklistentity.WeekList{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
