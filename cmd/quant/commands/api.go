package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/wonny/astroquant/internal/api"
	"github.com/wonny/astroquant/internal/api/handlers"
	"github.com/wonny/astroquant/internal/ratelimit"
	"github.com/wonny/astroquant/pkg/logger"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                   - Health check
  GET  /metrics                  - Prometheus metrics
  POST /api/horoscopes           - 호로스코프 생성
  POST /api/horoscopes/batch     - 호로스코프 일괄 생성
  POST /api/features             - 피처 추출
  POST /api/scores               - 점수 집계
  POST /api/scores/rank          - 상위 N 랭킹
  POST /api/scores/distribution  - 점수 분포
  GET  /api/scoring/config       - 점수 규칙 조회
  POST /api/prices/series        - 합성 가격 시계열
  POST /api/prices/stats         - 수익률/변동성/이동평균
  POST /api/research             - 리서치 세션 실행
  GET  /api/research             - 세션 목록
  GET  /api/research/{id}        - 세션 조회

Example:
  go run ./cmd/quant api
  go run ./cmd/quant api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (default: PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== astroquant API Server ===")

	// 1. Load config
	cfg, err := loadConfig(cmd)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Wire pipeline, database and redis
	a, err := newApp(ctx, cfg, log, appOptions{persist: true, services: true})
	if err != nil {
		return err
	}
	defer a.Close()

	// 4. Create handlers
	scoreHandler, err := handlers.NewScoreHandler(a.aggregator, log)
	if err != nil {
		return fmt.Errorf("create score handler: %w", err)
	}

	checks := map[string]handlers.Check{}
	if a.db != nil {
		checks["database"] = func(ctx context.Context) error {
			_, err := a.db.HealthCheck(ctx)
			return err
		}
	}
	if a.redis != nil && a.redis.Enabled() {
		checks["redis"] = func(ctx context.Context) error {
			return a.redis.Redis().Ping(ctx).Err()
		}
	}

	h := api.Handlers{
		Health:   handlers.NewHealthHandler("astroquant-api", checks),
		Astro:    handlers.NewAstroHandler(a.generator, a.extractor, a.cache, log),
		Scores:   scoreHandler,
		Prices:   handlers.NewPriceHandler(a.synthesizer, log),
		Research: handlers.NewResearchHandler(a.orchestrator, log),
	}

	// 5. Rate limiting
	opts := api.RouterOptions{MetricsEnabled: cfg.MetricsEnabled}
	if cfg.RateLimit.Enabled {
		opts.Global = rate.NewLimiter(rate.Limit(cfg.RateLimit.GlobalRPS), cfg.RateLimit.GlobalBurst)
		opts.ClientLimiter = ratelimit.New(a.rateStore, cfg.RateLimit.Requests, cfg.RateLimit.Window)

		if mem, ok := a.rateStore.(*ratelimit.MemoryStore); ok {
			go sweepRateLimits(ctx, mem, cfg.RateLimit.Window, log)
		}
	}

	// 6. Create router and server
	router := api.NewRouter(h, opts, log)
	server := api.New(cfg, log, router)

	// 7. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// sweepRateLimits drops idle client windows from the in-memory store
func sweepRateLimits(ctx context.Context, store *ratelimit.MemoryStore, window time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := store.Sweep(now, window); n > 0 {
				log.WithField("removed", n).Debug("Rate limit windows swept")
			}
		}
	}
}
