package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "voxhire"

	defaultStorePath   = "voxhire.db"
	defaultGeminiModel = "gemini-2.0-flash"
)

type Config struct {
	Candidate *CandidateConfig `mapstructure:"candidate"`
	Store     *StoreConfig     `mapstructure:"store"`
	Threshold *ThresholdConfig `mapstructure:"threshold"`
	AI        *AIConfig        `mapstructure:"ai"`
}

// CandidateConfig pre-fills the onboarding prompts.
type CandidateConfig struct {
	Name            string `mapstructure:"name"`
	Company         string `mapstructure:"company"`
	RoleTitle       string `mapstructure:"role-title"`
	ExperienceLevel string `mapstructure:"experience-level"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// ThresholdConfig selects a pass policy. Mode "experience" derives the
// threshold from the candidate's experience level; "fixed" uses Score.
type ThresholdConfig struct {
	Mode  string  `mapstructure:"mode"`
	Score float64 `mapstructure:"score"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "voxhire is a cli that runs an AI-scored multi-round mock interview against a job description",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is voxhire.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// Every command works without a config file. An explicitly requested
	// file must parse though.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config == nil {
		config = &Config{}
	}

	if config.Candidate == nil {
		config.Candidate = &CandidateConfig{}
	}

	if config.Store == nil {
		config.Store = &StoreConfig{}
	}
	if config.Store.Path == "" {
		config.Store.Path = defaultStorePath
	}

	if config.Threshold == nil {
		config.Threshold = &ThresholdConfig{Mode: "experience"}
	}
	if config.Threshold.Mode == "" {
		config.Threshold.Mode = "experience"
	}

	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Gemini.Model == "" {
		config.AI.Gemini.Model = defaultGeminiModel
	}

	return config, nil
}
