package main

import (
	"flag"

	"go.uber.org/zap"

	"task-admin-api/internal/cache"
	"task-admin-api/internal/config"
	"task-admin-api/internal/database"
	"task-admin-api/internal/logger"
	"task-admin-api/internal/query"
	"task-admin-api/internal/realtime"
	"task-admin-api/internal/repository"
	"task-admin-api/internal/routes"
	"task-admin-api/internal/service"

	taskhandlers "task-admin-api/internal/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	if err := logger.InitFromEnv(); err != nil {
		panic(err)
	}
	defer logger.Sync()
	log := logger.Get()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	db, err := database.Connect(cfg.Database.Path)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Seed(db, cfg.Seed.Count); err != nil {
		log.Fatal("failed to seed database", zap.Error(err))
	}

	store := cache.NewTaggedCache[string, any](cache.Options{ConcurrencySafe: true})
	hub := realtime.NewHub()

	repo := repository.NewTaskRepository(db)
	queries := query.New(repo, store, log.Named("query"))
	taskService := service.NewTaskService(db, store, hub, log.Named("service"))
	handler := taskhandlers.NewTaskHandler(queries, taskService, hub, log.Named("http"))

	router := routes.SetupRoutes(handler, hub)

	addr := cfg.Server.Address()
	log.Info("server starting", zap.String("addr", addr))
	if err := router.Run(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
	}
}
