package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neuroscent-quiz/internal/app"
	"neuroscent-quiz/internal/config"
	"neuroscent-quiz/internal/infra/memory"
	redisinfra "neuroscent-quiz/internal/infra/redis"
	"neuroscent-quiz/internal/infra/scoring"
	transport "neuroscent-quiz/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the CLI subcommand to start the gateway.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Scoring.BaseURL == "" {
		return fmt.Errorf("scoring base_url not configured")
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 30*time.Minute)

	scoringTimeout := config.TTLDuration(cfg.Scoring.Timeout, 15*time.Second)
	client := scoring.NewClient(cfg.Scoring.BaseURL, &http.Client{Timeout: scoringTimeout})

	cacheTTL := config.TTLDuration(cfg.Results.CacheTTL, 10*time.Minute)
	var results transport.ResultProvider
	if redisClient != nil {
		results = redisinfra.NewResultCache(redisClient, client, cacheTTL)
	} else {
		results = memory.NewResultCache(client, cacheTTL)
	}

	var flows app.FlowStore
	if redisClient != nil {
		flows = redisinfra.NewFlowStore(redisClient, redisTTL)
	} else {
		flows = memory.NewFlowStore()
	}

	service := app.NewQuizServiceWithSessionPolicy(flows, client, scoring.DefaultSessionIDFunc(), cfg.Session.ReuseIDOnRetry)
	wsHandler := transport.NewWSHandler(service, results)
	resultsHandler := transport.NewResultsHandler(results)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	mux.Handle("/results/", resultsHandler)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("starting quiz gateway on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
