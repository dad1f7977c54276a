package cmd

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "hire-agent"
)

type Config struct {
	LLM        *LLMConfig        `mapstructure:"llm"`
	Invitation *InvitationConfig `mapstructure:"invitation"`
	Cache      *CacheConfig      `mapstructure:"cache"`
}

type LLMConfig struct {
	Provider     string        `mapstructure:"provider"`
	Model        string        `mapstructure:"model"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	OpenAI       *VendorConfig `mapstructure:"openai"`
	OpenRouter   *VendorConfig `mapstructure:"openrouter"`
	Google       *VendorConfig `mapstructure:"google"`
	Kimi         *VendorConfig `mapstructure:"kimi"`
}

type VendorConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
}

type InvitationConfig struct {
	// Mode is "draft" (LLM-written email) or "api" (external invitation service).
	Mode           string        `mapstructure:"mode"`
	APIURL         string        `mapstructure:"api-url"`
	RecruiterEmail string        `mapstructure:"recruiter-email"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	// Path of the sqlite file holding parsed documents. Empty disables the cache.
	Path string `mapstructure:"path"`
}

var envBindings = map[string]string{
	"llm.provider":            "LLM_PROVIDER",
	"llm.model":               "LLM_MODEL",
	"llm.openai.api-key":      "OPENAI_API_KEY",
	"llm.openrouter.api-key":  "OPENROUTER_API_KEY",
	"llm.google.api-key":      "GOOGLE_API_KEY",
	"llm.kimi.api-key":        "KIMI_API_KEY",
	"invitation.api-url":      "INVITATION_API_URL",
	"invitation.mode":         "INVITATION_MODE",
	"cache.path":              "HIRE_AGENT_CACHE",
	"llm.openai.api-key-file": "OPENAI_API_KEY_FILE",
	"llm.google.api-key-file": "GOOGLE_API_KEY_FILE",
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "hire-agent runs the recruiting agents: parsing, matching, invitations, evaluation and JD consulting",
		SilenceUsage: true,
	}
)

// Execute executes the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

func init() {
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("llm.max-log-length", 200)
	viper.SetDefault("invitation.mode", "draft")
	viper.SetDefault("invitation.timeout", 30*time.Second)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hire-agent.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error); overrides --debug")
	rootCmd.PersistentFlags().String("log-file", "", "also write logs to this file")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log.file", rootCmd.PersistentFlags().Lookup("log-file"))
}

func initConfig() {
	// Environment variables win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		if _, err := os.Stat(app + ".yaml"); err != nil {
			return
		}
		viper.SetConfigFile(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.LLM == nil {
		config.LLM = &LLMConfig{}
	}
	if config.Invitation == nil {
		config.Invitation = &InvitationConfig{}
	}
	if config.Cache == nil {
		config.Cache = &CacheConfig{}
	}

	return config, nil
}
