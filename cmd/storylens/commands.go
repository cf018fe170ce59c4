package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Sriram-PR/storylens/pkg/api"
	"github.com/Sriram-PR/storylens/pkg/models"
	"github.com/Sriram-PR/storylens/pkg/orchestrate"
	"github.com/Sriram-PR/storylens/pkg/render"
	"github.com/Sriram-PR/storylens/pkg/utils"
)

const shutdownGracePeriod = 30 * time.Second

// runServe handles the serve subcommand
func runServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configFile := fs.String("config", defaultConfigPath, "Path to config file")
	listenAddr := fs.String("listen", "", "Listen address (overrides listen_addr)")
	logLevel := fs.String("loglevel", "info", "Log level (debug, info, warn, error)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: storylens serve [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	log := setupLogger(*logLevel, os.Stderr)
	appCfg := loadAndValidateConfig(*configFile, log)
	if *listenAddr != "" {
		appCfg.ListenAddr = *listenAddr
	}

	pipeline, err := buildPipeline(appCfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := serveHTTP(ctx, appCfg.ListenAddr, api.NewRouter(pipeline, log.WithField("app", "storylens")), log); err != nil {
		log.Errorf("Server error: %v", err)
		os.Exit(1)
	}
	log.Info("Server stopped")
}

// serveHTTP runs handler on addr until ctx is canceled, then shuts down gracefully.
func serveHTTP(ctx context.Context, addr string, handler http.Handler, log *logrus.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Warn("Shutting down, waiting for in-flight requests...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Summarizer is the pipeline surface the summarize command needs.
type Summarizer interface {
	Run(ctx context.Context, articleURL string) (*models.StoryRecord, error)
	RunAll(ctx context.Context, urls []string, concurrency int) []orchestrate.URLResult
}

// runSummarize handles the summarize subcommand
func runSummarize(args []string) {
	fs := flag.NewFlagSet("summarize", flag.ExitOnError)
	configFile := fs.String("config", defaultConfigPath, "Path to config file")
	urlFlag := fs.String("url", "", "Article URL to summarize")
	urlsFlag := fs.String("urls", "", "Comma-separated article URLs (summarized in parallel)")
	format := fs.String("format", "json", "Output format (json, markdown, html)")
	concurrency := fs.Int("concurrency", 4, "Parallel pipelines when several URLs are given")
	logLevel := fs.String("loglevel", "warn", "Log level (debug, info, warn, error)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: storylens summarize [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  storylens summarize -url https://example.com/news/story\n")
		fmt.Fprintf(os.Stderr, "  storylens summarize -url https://example.com/news/story -format markdown\n")
		fmt.Fprintf(os.Stderr, "  storylens summarize -urls https://a.example/1,https://b.example/2\n")
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	urls := collectURLs(*urlFlag, *urlsFlag)
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -url or -urls is required")
		fs.Usage()
		os.Exit(1)
	}

	log := setupLogger(*logLevel, os.Stderr)
	appCfg := loadAndValidateConfig(*configFile, log)
	pipeline, err := buildPipeline(appCfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(doSummarize(ctx, pipeline, urls, *format, *concurrency, os.Stdout, os.Stderr))
}

// collectURLs merges -url and -urls, dropping blanks.
func collectURLs(single, multi string) []string {
	var urls []string
	if s := strings.TrimSpace(single); s != "" {
		urls = append(urls, s)
	}
	for _, u := range strings.Split(multi, ",") {
		if u = strings.TrimSpace(u); u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// doSummarize runs the pipeline and writes each record in the requested format.
// Returns exit code (0 = every URL succeeded, 1 = otherwise).
func doSummarize(ctx context.Context, s Summarizer, urls []string, format string, concurrency int, stdout, stderr io.Writer) int {
	if format != "json" && format != "markdown" && format != "html" {
		fmt.Fprintf(stderr, "Error: unknown format %q (supported: json, markdown, html)\n", format)
		return 1
	}

	var results []orchestrate.URLResult
	if len(urls) == 1 {
		record, err := s.Run(ctx, urls[0])
		results = []orchestrate.URLResult{{URL: urls[0], Record: record, Error: err}}
	} else {
		results = s.RunAll(ctx, urls, concurrency)
	}

	exitCode := 0
	for _, r := range results {
		if !r.Success() {
			fmt.Fprintf(stderr, "Error: %s: %s [%s]\n", r.URL, utils.PublicMessage(r.Error), utils.CategorizeError(r.Error))
			exitCode = 1
			continue
		}
		out, err := formatRecord(r.Record, format)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", r.URL, err)
			exitCode = 1
			continue
		}
		fmt.Fprintln(stdout, out)
	}
	return exitCode
}

func formatRecord(record *models.StoryRecord, format string) (string, error) {
	switch format {
	case "markdown":
		return render.Markdown(record), nil
	case "html":
		return render.HTML(record)
	default:
		b, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode record: %w", err)
		}
		return string(b), nil
	}
}

// Extractor is the pipeline surface the extract command needs.
type Extractor interface {
	Extract(ctx context.Context, articleURL string) (*orchestrate.ExtractResult, error)
}

// runExtract handles the extract subcommand
func runExtract(args []string) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	configFile := fs.String("config", defaultConfigPath, "Path to config file")
	urlFlag := fs.String("url", "", "Article URL to extract (required)")
	asJSON := fs.Bool("json", false, "Print the full extraction as JSON instead of markdown")
	logLevel := fs.String("loglevel", "warn", "Log level (debug, info, warn, error)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: storylens extract [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if strings.TrimSpace(*urlFlag) == "" {
		fmt.Fprintln(os.Stderr, "Error: -url is required")
		fs.Usage()
		os.Exit(1)
	}

	log := setupLogger(*logLevel, os.Stderr)
	appCfg := loadAndValidateConfig(*configFile, log)
	pipeline, err := buildPipeline(appCfg, log)
	if err != nil {
		log.Fatalf("Failed to initialize pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	os.Exit(doExtract(ctx, pipeline, *urlFlag, *asJSON, os.Stdout, os.Stderr))
}

// doExtract prints the extraction. Returns exit code (0 = success, 1 = error).
func doExtract(ctx context.Context, e Extractor, articleURL string, asJSON bool, stdout, stderr io.Writer) int {
	result, err := e.Extract(ctx, articleURL)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s [%s]\n", utils.PublicMessage(err), utils.CategorizeError(err))
		return 1
	}

	if asJSON {
		b, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			fmt.Fprintf(stderr, "Error: encode result: %v\n", err)
			return 1
		}
		fmt.Fprintln(stdout, string(b))
		return 0
	}

	fmt.Fprintf(stdout, "# %s\n\n", result.Content.Title)
	fmt.Fprintf(stdout, "Source: %s\n", result.Content.InferredSource)
	if result.Metadata.Author != nil {
		fmt.Fprintf(stdout, "Author: %s\n", *result.Metadata.Author)
	}
	if result.Metadata.PublishedDate != nil {
		fmt.Fprintf(stdout, "Published: %s\n", *result.Metadata.PublishedDate)
	}
	if result.Metadata.PrimaryImageURL != nil {
		fmt.Fprintf(stdout, "Image: %s\n", *result.Metadata.PrimaryImageURL)
	}
	if result.Fallback {
		fmt.Fprintln(stdout, "Note: readability found no article; showing page text")
	}
	fmt.Fprintf(stdout, "\n%s\n", result.Markdown)
	return 0
}

// runValidate handles the validate subcommand
func runValidate(args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	configFile := fs.String("config", defaultConfigPath, "Path to config file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: storylens validate [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	exitCode := doValidate(*configFile, os.Getenv, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// doValidate performs validation and writes output to provided writers.
// Returns exit code (0 = success, 1 = error).
func doValidate(configPath string, getenv func(string) string, stdout, stderr io.Writer) int {
	appCfg, warnings, err := prepareConfig(configPath, false, getenv)
	for _, w := range warnings {
		fmt.Fprintf(stdout, "WARN: %s\n", w)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "OK: completion provider %s, model %s\n", appCfg.Completion.Provider, appCfg.Completion.Model)
	if appCfg.HasCredential() {
		fmt.Fprintln(stdout, "OK: completion API key configured")
	} else {
		fmt.Fprintln(stdout, "WARN: no completion API key; summarize requests will fail")
	}
	fmt.Fprintf(stdout, "OK: fetch timeout %v, max page %d bytes, max article %d chars\n",
		appCfg.FetchTimeout, appCfg.MaxPageBytes, appCfg.MaxArticleChars)
	fmt.Fprintln(stdout, "Configuration valid")
	return 0
}
