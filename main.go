package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"visualnotes/core"
	"visualnotes/logging"
	"visualnotes/scheduler"
	"visualnotes/session"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Warning: .env file not found: %v\n", err)
	}

	// Determine if running in development mode
	isDevelopment := core.ParseBoolEnv("DEV_MODE", false)

	// Initialize structured logger early
	logger, err := logging.NewLogger(isDevelopment, "app.log")
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(core.ExitCodeError)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Printf("Failed to sync logger: %v\n", syncErr)
		}
	}()

	if len(os.Args) < 2 {
		color.Red("Usage: %s <input.txt|input.pdf|input.md>", os.Args[0])
		os.Exit(core.ExitCodeError)
	}
	inputPath := os.Args[1]

	// Load and validate configuration before any pipeline work starts
	config, err := core.LoadConfig()
	if err != nil {
		reportConfigError(err)
		os.Exit(core.ExitCodeConfig)
	}
	if err := config.Validate(); err != nil {
		reportConfigError(err)
		os.Exit(core.ExitCodeConfig)
	}

	logger.Info("Configuration loaded", configFields(config, isDevelopment)...)

	// Create downloads directory
	if err := os.MkdirAll(config.DownloadsDir, 0755); err != nil {
		logger.Fatal("Failed to create downloads directory", zap.Error(err))
	}

	sess, err := session.New(config, logger)
	if err != nil {
		logger.Error("Failed to initialize session", zap.Error(err))
		color.Red("Failed to initialize: %v", err)
		os.Exit(core.ExitCodeError)
	}

	// Create context cancelled by interrupt signals; the exit code records
	// which signal arrived.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var signalExit atomic.Int32
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logger.Info("Received interrupt signal. Shutting down...", zap.String("signal", sig.String()))
		if sig == syscall.SIGTERM {
			signalExit.Store(int32(core.ExitCodeSIGTERM))
		} else {
			signalExit.Store(int32(core.ExitCodeSIGINT))
		}
		cancel()
	}()

	exitCode := run(ctx, sess, config, logger, inputPath)
	if code := signalExit.Load(); code != 0 {
		exitCode = int(code)
	}
	os.Exit(exitCode)
}

// run drives the full pipeline for one input file: split, organize, design,
// paint, export. Units that fail a phase are reported but never block their
// siblings.
func run(ctx context.Context, sess *session.Session, config *core.Config, logger *logging.Logger, inputPath string) int {
	text, err := loadInput(inputPath)
	if err != nil {
		logger.Error("Failed to load input", zap.String("path", inputPath), zap.Error(err))
		color.Red("Failed to load input: %v", err)
		return core.ExitCodeError
	}

	color.Cyan("Splitting input (%d characters)...", len([]rune(text)))
	units, err := sess.RunSplit(ctx, text)
	if err != nil {
		color.Red("Split failed: %v", err)
		return core.ExitCodeError
	}
	color.Green("Input split into %d note unit(s)", len(units))

	color.Cyan("Structuring %d unit(s)...", len(units))
	summary, err := sess.RunBatchOrganize(ctx)
	if err != nil {
		color.Red("Structuring failed: %v", err)
		return core.ExitCodeError
	}
	reportWave("Structuring", summary)

	count, err := sess.RunBatchDesign()
	if err != nil {
		color.Red("Prompt synthesis failed: %v", err)
		return core.ExitCodeError
	}
	color.Green("Synthesized %d prompt(s)", count)

	color.Cyan("Rendering %d unit(s) in chunks of %d...", count, config.RenderChunkSize)
	summary, err = sess.RunBatchPaint(ctx)
	if err != nil {
		color.Red("Rendering failed: %v", err)
		return core.ExitCodeError
	}
	reportWave("Rendering", summary)

	saved, err := exportImages(sess.Units(), config.DownloadsDir)
	if err != nil {
		logger.Error("Failed to export images", zap.Error(err))
		color.Red("Failed to export images: %v", err)
		return core.ExitCodeError
	}
	for _, path := range saved {
		color.Green("Saved %s", path)
	}

	if failed := len(sess.FailedUnits()); failed > 0 {
		color.Yellow("%d unit(s) failed; see app.log for details", failed)
		return core.ExitCodeError
	}
	color.Green("All %d note(s) rendered successfully", len(saved))
	return core.ExitCodeSuccess
}

func reportWave(name string, summary scheduler.Summary) {
	if summary.Failed == 0 {
		color.Green("%s complete: %d/%d succeeded", name, summary.Succeeded, summary.Total)
		return
	}
	color.Yellow("%s complete: %d/%d succeeded", name, summary.Succeeded, summary.Total)
	for _, outcome := range summary.Failures() {
		color.Red("  unit %s: %v", outcome.UnitID, outcome.Err)
	}
}

// reportConfigError prints configuration errors with their remediation
// action when available.
func reportConfigError(err error) {
	var configErr *core.ConfigError
	if errors.As(err, &configErr) {
		color.Red("Configuration error [%s]: %s", configErr.Code, configErr.Message)
		if configErr.Action != "" {
			color.Yellow("  -> %s", configErr.Action)
		}
		return
	}
	color.Red("Configuration error: %v", err)
}

func configFields(config *core.Config, isDevelopment bool) []zap.Field {
	fields := []zap.Field{
		zap.String("text_model", config.TextModel),
		zap.String("image_model", config.ImageModel),
		zap.String("style", config.StyleID),
		zap.Int("render_max_attempts", config.RenderMaxAttempts),
		zap.Int("render_chunk_size", config.RenderChunkSize),
		zap.Duration("ai_timeout", config.AITimeout),
		zap.String("downloads_dir", config.DownloadsDir),
		zap.Bool("dev_mode", isDevelopment),
	}
	for key, value := range config.Redacted() {
		fields = append(fields, zap.String(key, value))
	}
	return fields
}
