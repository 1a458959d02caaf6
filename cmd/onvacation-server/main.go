package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zombor/onvacation-ocr/internal/booking"
	"github.com/zombor/onvacation-ocr/internal/extraction"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("onvacation-server")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "onvacation.db", "Database file path")
		storagePath = fs.StringLong("storage", "./transcripts", "Transcript storage directory path")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		cacheSize   = fs.IntLong("cache-size", 256, "Number of parse results to cache (0 disables the cache)")
		cacheTTL    = fs.DurationLong("cache-ttl", 10*time.Minute, "How long a cached parse result stays valid")
		originPath  = fs.StringLong("origin-cities", "", "JSON file with origin city key/label pairs (optional)")
		destPath    = fs.StringLong("destination-cities", "", "JSON file with destination city key/label pairs (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("ONVACATION"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	opts, err := extraction.DictionaryFiles(*originPath, *destPath)
	if err != nil {
		slog.Error("Failed to load city dictionaries", "error", err)
		os.Exit(1)
	}
	parser := extraction.New(opts...)

	// Initialize database
	slog.Info("Initializing database...")
	db, err := booking.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	store, err := booking.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	var cache *booking.ResultCache
	if *cacheSize > 0 {
		cache = booking.NewResultCache(*cacheSize, *cacheTTL)
		slog.Info("Parse cache enabled", "size", *cacheSize, "ttl", *cacheTTL)
	}

	// Initialize service
	bookingService := booking.NewService(db, store, parser, cache, booking.NewMetrics(prometheus.DefaultRegisterer))

	// Initialize server
	basicAuth := booking.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	server := booking.NewServer(bookingService, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
