package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/ps08022009/Know-Your-Bill/internal/adapters/api"
	"github.com/ps08022009/Know-Your-Bill/internal/adapters/congress"
	"github.com/ps08022009/Know-Your-Bill/internal/adapters/ranker"
	"github.com/ps08022009/Know-Your-Bill/internal/adapters/repo"
	"github.com/ps08022009/Know-Your-Bill/internal/adapters/summarizer"
	"github.com/ps08022009/Know-Your-Bill/internal/domain"
	"github.com/ps08022009/Know-Your-Bill/internal/infra/cache"
	"github.com/ps08022009/Know-Your-Bill/internal/infra/config"
	"github.com/ps08022009/Know-Your-Bill/internal/infra/db"
	httpinfra "github.com/ps08022009/Know-Your-Bill/internal/infra/http"
	applog "github.com/ps08022009/Know-Your-Bill/internal/infra/log"
	"github.com/ps08022009/Know-Your-Bill/internal/infra/metrics"
	"github.com/ps08022009/Know-Your-Bill/internal/infra/openai"
	"github.com/ps08022009/Know-Your-Bill/internal/usecase/progression"
	"github.com/ps08022009/Know-Your-Bill/internal/usecase/search"
	"github.com/ps08022009/Know-Your-Bill/internal/usecase/tracker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(cfg.PGDSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("api: database connection failed")
	}
	defer pool.Close()
	repoAdapter := repo.NewPostgres(pool)

	var detailCache domain.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		detailCache = cache.NewRedis(redisClient)
	}

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
	congressClient := congress.NewClient(cfg.Congress.APIKey, cfg.Congress.BaseURL, cfg.Congress.Timeout)
	semanticRanker := ranker.NewSemantic(openaiClient, cfg.OpenAI.EmbeddingModel)

	var sum domain.Summarizer
	switch cfg.SummarizerMode {
	case "extractive":
		sum = summarizer.NewExtractive()
	case "openai":
		sum = summarizer.NewOpenAI(openaiClient, cfg.OpenAI.SummaryModel, cfg.OpenAI.Timeout)
	default:
		logger.Fatal().Str("mode", cfg.SummarizerMode).Msg("api: unknown summarizer mode")
	}

	searchSvc := search.NewService(
		congressClient,
		congressClient,
		semanticRanker,
		sum,
		repoAdapter,
		repoAdapter,
		detailCache,
		logger.With().Str("component", "search").Logger(),
		cfg.Congress.FetchLimit,
		cfg.Search.TopK,
		cfg.Search.PerPage,
		cfg.Search.DetailCacheTTL,
	)
	trackerSvc := tracker.NewService(repoAdapter, repoAdapter, logger.With().Str("component", "tracker").Logger())
	progressionSvc := progression.NewService(congressClient, repoAdapter, logger.With().Str("component", "progression").Logger())

	handler := api.NewHandler(searchSvc, trackerSvc, progressionSvc, semanticRanker, logger.With().Str("component", "api").Logger())

	srv := httpinfra.NewServer(logger.With().Str("component", "http").Logger())
	handler.Register(srv.Router)

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("api: server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("api: graceful shutdown failed")
	}
}
