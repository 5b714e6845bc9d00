package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/alegato/internal/logging"
	"github.com/ppiankov/alegato/internal/model"
)

const version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "alegato",
	Short: "Alegato - Deterministic quality assessment for legal submissions",
	Long: `Alegato is a deterministic, explainable assessor of legal submissions.

It reviews how a pleading or appeal is drafted: argument weaknesses,
internal contradictions, semantic coherence, rhetoric and court style.
It combines those signals into a decision score with a full breakdown
and a heuristic outcome estimate.

It does not judge the merits of a case and it is not legal advice.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Alegato.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("alegato " + version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.alegato/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.alegato")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// ALEGATO_PRECEDENT_TOP_K maps to precedent.top_k
	viper.SetEnvPrefix("ALEGATO")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about
	if err := registerDefaults(model.DefaultConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error registering config defaults: %v\n", err)
	}
	_ = viper.BindEnv("precedent.openai.api_key", "ALEGATO_PRECEDENT_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = viper.BindEnv("precedent.openai.base_url", "ALEGATO_PRECEDENT_OPENAI_BASE_URL", "OPENAI_BASE_URL")
	_ = viper.BindEnv("precedent.milvus.password", "ALEGATO_PRECEDENT_MILVUS_PASSWORD")
	_ = viper.BindEnv("cache.redis.addr", "ALEGATO_CACHE_REDIS_ADDR")
	_ = viper.BindEnv("cache.redis.password", "ALEGATO_CACHE_REDIS_PASSWORD")
	_ = viper.BindEnv("http.http_proxy", "ALEGATO_HTTP_HTTP_PROXY", "HTTP_PROXY")
	_ = viper.BindEnv("http.https_proxy", "ALEGATO_HTTP_HTTPS_PROXY", "HTTPS_PROXY")
	_ = viper.BindEnv("http.no_proxy", "ALEGATO_HTTP_NO_PROXY", "NO_PROXY")

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// registerDefaults walks the YAML form of cfg and registers every leaf as a
// viper default
func registerDefaults(cfg *model.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setDefaults("", tree)
	return nil
}

func setDefaults(prefix string, tree map[string]interface{}) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if sub, ok := v.(map[string]interface{}); ok {
			setDefaults(key, sub)
			continue
		}
		viper.SetDefault(key, v)
	}
}

// loadConfig resolves defaults, config file and environment into a Config
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}

// setupLogger builds the process logger from cfg.Log; verbose forces debug
func setupLogger(cfg *model.Config) (logging.Logger, error) {
	level := cfg.Log.Level
	if cfg.Output.Verbose {
		level = "debug"
	}
	logger, err := logging.NewLogger(logging.Config{Level: level, Format: cfg.Log.Format})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	logging.SetDefault(logger)
	return logger, nil
}
