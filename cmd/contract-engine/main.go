// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the contract-engine CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/contract-engine/internal/container"
	"github.com/pdiddy/contract-engine/internal/convert"
	"github.com/pdiddy/contract-engine/internal/httputil"
	"github.com/pdiddy/contract-engine/internal/llm"
	"github.com/pdiddy/contract-engine/internal/secrets"
	"github.com/pdiddy/contract-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	secretsDir = ".secrets/"
	dotenvFile = ".env"
)

var (
	// loadedSecrets holds API keys loaded from .secrets/ and .env at startup.
	loadedSecrets map[string]string

	// cfg is the effective configuration: defaults, then the config file,
	// then CONTRACT_ENGINE_* environment variables.
	cfg = types.DefaultConfig()

	log = logrus.New()
)

// secretDefault returns fallback when set, otherwise the loaded secret for key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the contract-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "contract-engine",
	Short: "Contract risk analysis for small-business owners",
	Long: `contract-engine reads a contract (plain text, PDF or DOCX), splits it into
numbered clauses and asks a hosted language model for a plain-language risk
analysis. It can answer follow-up questions about the document, reformat it
into a standard agreement template, and keeps a searchable history of past
analyses.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(logrus.DebugLevel)
		}

		c, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = c

		s, err := secrets.LoadAll(secretsDir, dotenvFile)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.WithField("keys", keys).Debug("loaded secrets")
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./contract-engine.yaml or ~/.config/contract-engine/contract-engine.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log diagnostics to stderr")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("contract-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "contract-engine"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("CONTRACT_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

// setDefaults registers scalar defaults so environment variables can
// override keys that the config file does not mention.
func setDefaults(d types.Config) {
	viper.SetDefault("segment.min_clause_length", d.Segment.MinClauseLength)
	viper.SetDefault("ai.provider", string(d.AI.Provider))
	viper.SetDefault("ai.model", d.AI.Model)
	viper.SetDefault("ai.base_url", d.AI.BaseURL)
	viper.SetDefault("ai.max_tokens", d.AI.MaxTokens)
	viper.SetDefault("ai.max_retries", d.AI.MaxRetries)
	viper.SetDefault("ai.timeout", d.AI.Timeout)
	viper.SetDefault("languages.default", d.Languages.Default)
	viper.SetDefault("conversion.image", d.Conversion.Image)
	viper.SetDefault("store.dir", d.Store.Dir)
	viper.SetDefault("store.max_results", d.Store.MaxResults)
}

// loadConfig unmarshals viper's settings over the defaults and validates them.
func loadConfig() (types.Config, error) {
	c := types.DefaultConfig()
	if err := viper.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("reading configuration: %w", err)
	}
	if err := c.Validate(); err != nil {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, nil
}

// newCompleter builds the configured LLM backend. apiKey overrides the
// loaded secret; model overrides the configured model when set.
func newCompleter(apiKey, model string) (llm.Completer, error) {
	ai := cfg.AI
	if model != "" {
		ai.Model = model
	}
	key := secretDefault(llm.SecretKey(ai.Provider), apiKey)
	if key == "" {
		return nil, fmt.Errorf("no API key for %s: write it to %s%s or set it in %s",
			ai.Provider, secretsDir, llm.SecretKey(ai.Provider), dotenvFile)
	}
	client := httputil.NewClient(ai.Timeout, ai.MaxRetries, log)
	log.WithFields(logrus.Fields{"provider": ai.Provider, "model": ai.Model}).Debug("using AI backend")
	return llm.New(ai, key, client)
}

// loadDocument extracts and normalises the text of a contract file. A
// container runtime is detected only for PDF and DOCX files.
func loadDocument(ctx context.Context, path string) (types.Document, error) {
	kind, err := convert.TypeOf(path)
	if err != nil {
		return types.Document{}, err
	}
	router := convert.Router{Text: convert.TextExtractor{}}
	if kind != types.DocumentText {
		rt, err := container.DetectRuntime()
		if err != nil {
			return types.Document{}, err
		}
		log.WithField("runtime", rt.Name()).Debug("converting with container")
		office, err := convert.NewMarkitdownExtractor(rt, cfg.Conversion.Image)
		if err != nil {
			return types.Document{}, err
		}
		router.Office = office
	}
	doc, err := convert.Load(ctx, router, path)
	if err != nil {
		return types.Document{}, err
	}
	log.WithFields(logrus.Fields{"path": path, "type": doc.Type, "language": doc.Language}).Debug("loaded document")
	return doc, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
