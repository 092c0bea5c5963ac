// Package main Portfolio API Server 入口
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio-admin/internal/apiserver/auth"
	"portfolio-admin/internal/apiserver/server"
	"portfolio-admin/internal/apiserver/upload"
	"portfolio-admin/internal/config"
	"portfolio-admin/internal/storage/mongostore"
)

func main() {
	// 加载配置（自动加载 .env，根据 APP_ENV 选择 configs/{env}.yaml）
	cfg := config.Load()

	log.Printf("Starting Portfolio API Server... [env=%s]", cfg.Env)
	log.Printf("Config: %s", cfg.String())

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// 初始化 MongoDB
	store, err := mongostore.NewStore(cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer store.Close()
	log.Println("Connected to MongoDB")

	// 初始化 Redis 限流计数器（可选，未配置时退回进程内存）
	var counters server.CounterStore
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Invalid REDIS_URL: %v", err)
		}
		rdb := redis.NewClient(opts)
		defer rdb.Close()
		counters = server.NewRedisCounterStore(rdb)
		log.Println("Rate limit counters backed by Redis")
	}

	// 初始化上传后端（可选 MinIO，默认本地磁盘）
	var blobs upload.BlobStore
	if cfg.MinIO.Endpoint != "" {
		minioStore, err := upload.NewMinIOStore(cfg.MinIO)
		if err != nil {
			log.Fatalf("Failed to create MinIO client: %v", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := minioStore.EnsureBucket(ctx); err != nil {
			cancel()
			log.Fatalf("Failed to ensure MinIO bucket: %v", err)
		}
		cancel()
		blobs = minioStore
		log.Printf("Uploads backed by MinIO: %s", cfg.MinIO.Endpoint)
	} else {
		diskStore, err := upload.NewDiskStore(cfg.UploadDir)
		if err != nil {
			log.Fatalf("Failed to create upload dir: %v", err)
		}
		blobs = diskStore
		log.Printf("Uploads backed by disk: %s", cfg.UploadDir)
	}

	// 启动引导管理员账户
	if err := auth.EnsureAdmin(store, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to bootstrap admin: %v", err)
	}

	h := server.NewHandler(store, blobs, cfg, counters)

	srv := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      h.Router(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 优雅关闭
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Portfolio API Server listening on :%s", cfg.APIPort)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}

	fmt.Println("Server stopped")
}
