package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/Sriram-PR/storylens/pkg/config"
	"github.com/Sriram-PR/storylens/pkg/fetch"
	"github.com/Sriram-PR/storylens/pkg/llm"
	"github.com/Sriram-PR/storylens/pkg/orchestrate"
)

const (
	version           = "0.4.0"
	defaultConfigPath = "storylens.yaml"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env is normal; the environment may already carry the key
	_ = godotenv.Load()

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "summarize":
		runSummarize(os.Args[2:])
	case "extract":
		runExtract(os.Args[2:])
	case "validate":
		runValidate(os.Args[2:])
	case "mcp-server":
		runMcpServer(os.Args[2:])
	case "version":
		fmt.Printf("storylens %s\n", version)
	case "-h", "--help", "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	printUsageTo(os.Stdout)
}

// printUsageTo writes usage information to the provided writer.
func printUsageTo(w io.Writer) {
	fmt.Fprintln(w, `storylens - Article summarizer

Usage:
  storylens <command> [options]

Commands:
  serve       Start the HTTP API (POST /api/summarize, GET /api/health)
  summarize   Summarize one or more article URLs
  extract     Print an article's metadata and markdown without summarizing
  validate    Validate configuration file
  mcp-server  Start MCP server for AI tool integration
  version     Show version info

The completion API key is read from STORYLENS_API_KEY, ANTHROPIC_API_KEY or
OPENAI_API_KEY (a .env file in the working directory is loaded first).

Run 'storylens <command> -h' for command-specific help.`)
}

// loadConfig loads and parses the config file. An empty path, or a missing file at the
// default path, yields an empty config that Validate fills with defaults.
func loadConfig(path string, optional bool) (*config.AppConfig, error) {
	var cfg config.AppConfig
	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// prepareConfig loads and validates the file, then overlays the environment credential.
func prepareConfig(path string, optional bool, getenv func(string) string) (*config.AppConfig, []string, error) {
	appCfg, err := loadConfig(path, optional)
	if err != nil {
		return nil, nil, err
	}

	warnings, err := appCfg.Validate()
	if err != nil {
		return nil, warnings, err
	}
	// After Validate so the provider is normalized when picking its variable
	appCfg.ApplyEnv(getenv)
	return appCfg, warnings, nil
}

// setupLogger creates a configured logrus.Logger with the given log level.
func setupLogger(logLevelStr string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "15:04:05.000"})
	log.SetLevel(logrus.InfoLevel)

	level, err := logrus.ParseLevel(logLevelStr)
	if err != nil {
		log.Warnf("Invalid log level '%s', using default 'info'. Error: %v", logLevelStr, err)
	} else {
		log.SetLevel(level)
	}

	return log
}

// loadAndValidateConfig loads the config, logs warnings and exits on a fatal error.
func loadAndValidateConfig(configFile string, log *logrus.Logger) *config.AppConfig {
	log.Infof("Loading configuration from %s", configFile)
	appCfg, warnings, err := prepareConfig(configFile, configFile == defaultConfigPath, os.Getenv)
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	logAppConfig(appCfg, log)
	return appCfg
}

// buildPipeline wires the pipeline. Without a credential the completer is left nil so
// summarize requests fail with a configuration error while extract and health still work.
func buildPipeline(appCfg *config.AppConfig, log *logrus.Logger) (*orchestrate.Pipeline, error) {
	entry := log.WithField("app", "storylens")

	if err := llm.InitTokenizer(appCfg.Completion.TokenizerEncoding); err != nil {
		entry.Warnf("Tokenizer unavailable, prompt token counts will not be logged: %v", err)
	}

	httpClient := fetch.NewClient(appCfg.HTTPClientSettings, entry)

	var completer orchestrate.Completer
	if appCfg.HasCredential() {
		model, err := llm.NewModel(appCfg.Completion, nil)
		if err != nil {
			return nil, err
		}
		completer = llm.NewClient(model, appCfg.Completion, entry)
	} else {
		entry.Warn("No completion API key configured; summarize requests will fail until one is set")
	}

	return orchestrate.NewPipeline(appCfg, httpClient, completer, entry), nil
}

// logAppConfig logs the effective configuration. The API key itself is never logged.
func logAppConfig(appCfg *config.AppConfig, log *logrus.Logger) {
	log.Infof("Config: ListenAddr:%s, FetchTimeout:%v, MaxPageBytes:%d, MaxArticleChars:%d",
		appCfg.ListenAddr, appCfg.FetchTimeout, appCfg.MaxPageBytes, appCfg.MaxArticleChars)
	log.Infof("Config Completion: Provider:%s, Model:%s, MaxOutputTokens:%d, Timeout:%v, Credential:%t",
		appCfg.Completion.Provider, appCfg.Completion.Model, appCfg.Completion.MaxOutputTokens,
		appCfg.Completion.Timeout, appCfg.HasCredential())
	log.Infof("Config HTTP Client: MaxIdle:%d, MaxIdlePerHost:%d, IdleTimeout:%v, TLSTimeout:%v, DialerTimeout:%v",
		appCfg.HTTPClientSettings.MaxIdleConns, appCfg.HTTPClientSettings.MaxIdleConnsPerHost,
		appCfg.HTTPClientSettings.IdleConnTimeout, appCfg.HTTPClientSettings.TLSHandshakeTimeout,
		appCfg.HTTPClientSettings.DialerTimeout)
	if len(appCfg.DisallowedImageDomains) > 0 {
		log.Infof("Config Images: Disallowed domains: %v", appCfg.DisallowedImageDomains)
	}
}
