package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/voidovo/imgtoss-sub000/api/core"
	"github.com/voidovo/imgtoss-sub000/cache"
	"github.com/voidovo/imgtoss-sub000/config"
	"github.com/voidovo/imgtoss-sub000/database"
	historyRepo "github.com/voidovo/imgtoss-sub000/database/repo/history"
	"github.com/voidovo/imgtoss-sub000/internal/history"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local API server",
	Run: func(cmd *cobra.Command, args []string) {
		RunServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func RunServer() {
	env, err := newAppEnv()
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	cfg := env.cfg

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	cacheProvider, err := cache.New(cache.Config{
		Type:     cfg.CacheType,
		Address:  cfg.CacheRedisAddr,
		Password: cfg.CacheRedisPassword,
		DB:       cfg.CacheRedisDB,
	})
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	log.Printf("Cache provider: %s", cacheProvider.Name())

	historySvc := history.NewService(historyRepo.NewRepository(db), cacheProvider)

	deps := &core.ServerDependencies{
		DB:            db,
		CacheProvider: cacheProvider,
		ProfileStore:  env.store,
		ProbeCache:    env.probeCache,
		History:       historySvc,
	}

	server := core.StartServer(deps)
	go func() {
		log.Printf("Server started on %s", config.Get().Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// 处理退出signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cacheProvider.Close(); err != nil {
		log.Printf("Error closing cache provider: %v", err)
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited successfully")
}
