package main

import (
	"log"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"weeklist_backend/internal/app/di"
	"weeklist_backend/internal/app/router"
	authadapters "weeklist_backend/internal/feature/auth/adapters"
	authhandler "weeklist_backend/internal/feature/auth/transport/handler"
	authusecase "weeklist_backend/internal/feature/auth/usecase"
	weeklisthandler "weeklist_backend/internal/feature/weeklist/transport/handler"
	weeklistusecase "weeklist_backend/internal/feature/weeklist/usecase"
	"weeklist_backend/internal/platform/config"
	infradb "weeklist_backend/internal/platform/db"
	jwtmw "weeklist_backend/internal/platform/jwt"
	infraredis "weeklist_backend/internal/platform/redis"
	"weeklist_backend/internal/shared/ratelimiter"
)

func main() {
	// 設定（JWT_SECRET未設定なら起動しない）
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// db
	db := infradb.OpenDB(cfg.DB, cfg.RunMigrations)

	// Redis
	var rdb *redisv9.Client
	if !cfg.Redis.Enabled() {
		rdb = nil
	} else if tmp, err := infraredis.NewRedisClient(cfg.Redis); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	// Redisが使える場合はフィードキャッシュでラップ
	weekListRepo := di.NewWeekListRepository(rdb, db)

	// Token service
	tokenGen := jwtmw.NewGenerator(cfg.JWTSecret)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokenGen)
	weekListUC := weeklistusecase.NewWeekListUsecase(weekListRepo)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	weekListH := weeklisthandler.NewWeekListHandler(weekListUC)

	// 認証エンドポイントのレートリミッター
	authLimiter := ratelimiter.NewRateLimiter(60, time.Minute)

	// ルータ生成
	router := router.NewRouter(authH, weekListH, weekListUC, tokenGen, authLimiter)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
