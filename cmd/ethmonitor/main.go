package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rbbozkurt/eth-monitor/internal/config"
	"github.com/rbbozkurt/eth-monitor/internal/domain/entity"
	"github.com/rbbozkurt/eth-monitor/internal/infrastructure/restapi"
	"github.com/rbbozkurt/eth-monitor/internal/pkg/logger"
	"github.com/rbbozkurt/eth-monitor/internal/pkg/utils"
	"github.com/rbbozkurt/eth-monitor/internal/service"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func main() {
	var (
		address      = flag.String("address", "", "wallet address to analyze")
		transfers    = flag.Int("transfers", 1000, "maximum number of historical transfers to fetch")
		apiKey       = flag.String("api-key", "", "Alchemy API key for all upstreams (falls back to ALCHEMY_API_KEY)")
		balancesKey  = flag.String("balances-key", "", "API key for the balances upstream (defaults to -api-key)")
		pricesKey    = flag.String("prices-key", "", "API key for the prices upstream (defaults to -api-key)")
		tokensKey    = flag.String("tokens-key", "", "API key for the token metadata upstream (defaults to -api-key)")
		transfersKey = flag.String("transfers-key", "", "API key for the transfers upstream (defaults to -api-key)")
		configPath   = flag.String("config", "", "path to YAML config file (optional)")
		outputPath   = flag.String("out", "", "write the report to this file as JSON instead of stdout")
		serve        = flag.Bool("serve", false, "run the HTTP API server instead of a one-shot analysis")
	)
	flag.Parse()

	// Bootstrap logging with logrus until the config tells us the real level.
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Warnf("Invalid log level in config: %s. Defaulting to Info.", cfg.Logging.Level)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer zapLogger.Sync()

	key := *apiKey
	if key == "" {
		key = os.Getenv("ALCHEMY_API_KEY")
	}
	creds := service.Credentials{
		BalancesAPIKey:  firstNonEmpty(*balancesKey, key),
		PricesAPIKey:    firstNonEmpty(*pricesKey, key),
		TokensAPIKey:    firstNonEmpty(*tokensKey, key),
		TransfersAPIKey: firstNonEmpty(*transfersKey, key),
	}
	if creds.BalancesAPIKey == "" || creds.PricesAPIKey == "" || creds.TokensAPIKey == "" || creds.TransfersAPIKey == "" {
		log.Fatal("No API key given. Pass -api-key or set ALCHEMY_API_KEY.")
	}

	ac := service.NewAnalyzerContext(cfg, creds, zapLogger)

	if *serve {
		runServer(cfg, ac, zapLogger)
		return
	}

	if !utils.IsValidAddress(*address) {
		log.Fatalf("Invalid wallet address: %q. Pass a 0x-prefixed 40-hex-digit address via -address.", *address)
	}
	if *transfers <= 0 {
		log.Fatalf("Invalid -transfers value %d, must be positive.", *transfers)
	}

	ctx := context.Background()
	if *outputPath != "" {
		if err := ac.Analyzer.AnalyzeAndExport(ctx, *address, *transfers, *outputPath); err != nil {
			zapLogger.Fatal("Analysis failed", zap.Error(err))
		}
		zapLogger.Info("Report written", zap.String("path", *outputPath))
		return
	}

	report, err := ac.Analyzer.Analyze(ctx, *address, *transfers)
	if err != nil {
		zapLogger.Fatal("Analysis failed", zap.Error(err))
	}
	printStats(report)
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		zapLogger.Fatal("Failed to marshal report", zap.Error(err))
	}
	fmt.Println(string(data))
}

// printStats writes the summary block to stderr so stdout stays parseable.
func printStats(report *entity.WalletAnalysisReport) {
	fmt.Fprintf(os.Stderr, "Wallet:            %s\n", report.WalletAddress)
	fmt.Fprintf(os.Stderr, "Transactions:      %d\n", report.TotalTransactionCount)
	fmt.Fprintf(os.Stderr, "Estimated swaps:   %d\n", report.EstimatedSwapCount)
	fmt.Fprintf(os.Stderr, "Total volume:      %s\n", report.TotalVolumeUsd)
	fmt.Fprintf(os.Stderr, "Balance (USD):     %s\n", report.TotalBalanceUsd)
	fmt.Fprintf(os.Stderr, "Token positions:   %d\n", len(report.Balances))
}

// runServer starts the HTTP API and blocks until SIGINT/SIGTERM.
func runServer(cfg *config.Config, ac *service.AnalyzerContext, zapLogger *zap.Logger) {
	handler := restapi.NewAnalyzeHandler(
		ac.Analyzer,
		time.Duration(cfg.Server.ResponseCacheTTLSeconds)*time.Second,
		zapLogger,
	)
	router := restapi.SetupRouter(handler, zapLogger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info(fmt.Sprintf("Server starting on port %s", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server exiting")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
