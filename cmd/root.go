package cmd

import (
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "job-hunt"
)

type Config struct {
	Resume     string         `mapstructure:"resume"`
	Keywords   []string       `mapstructure:"keywords"`
	Export     string         `mapstructure:"export"`
	FeedbackDB string         `mapstructure:"feedback-db"`
	Sources    *SourcesConfig `mapstructure:"sources"`
	AI         *AIConfig      `mapstructure:"ai"`
}

type SourcesConfig struct {
	Arbeitnow   *ArbeitnowConfig   `mapstructure:"arbeitnow"`
	RSS         []RSSFeedConfig    `mapstructure:"rss"`
	EnglishJobs *EnglishJobsConfig `mapstructure:"englishjobs"`
}

type ArbeitnowConfig struct {
	Keywords  string   `mapstructure:"keywords"`
	Countries []string `mapstructure:"countries"`
}

type RSSFeedConfig struct {
	Name string `mapstructure:"name"`
	URL  string `mapstructure:"url"`
}

type EnglishJobsConfig struct {
	Keyword string `mapstructure:"keyword"`
}

type AIConfig struct {
	Provider     string        `mapstructure:"provider"`
	MaxLogLength int           `mapstructure:"max-log-length"`
	OpenAI       *OpenAIConfig `mapstructure:"openai"`
	Gemini       *GeminiConfig `mapstructure:"gemini"`
}

type OpenAIConfig struct {
	APIKeyFile     string `mapstructure:"api-key-file"`
	BaseURL        string `mapstructure:"base-url"`
	Model          string `mapstructure:"model"`
	EmbeddingModel string `mapstructure:"embedding-model"`
}

type GeminiConfig struct {
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-hunt is a cli for collecting job postings and ranking them against your resume",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("feedback-db", "JOB_HUNT_FEEDBACK_DB"); err != nil {
		log.Fatalf("binding JOB_HUNT_FEEDBACK_DB environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-hunt.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the match command. If there is no config, we can skip initialization
	if matchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
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

	return config, nil
}
