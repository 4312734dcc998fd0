package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Loader handles configuration loading from various sources
type Loader struct{}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadForBuild loads the effective configuration for one build invocation:
// defaults, then the global config file, then a local .spv file found by
// walking up from the source document, then command flags.
func (l *Loader) LoadForBuild(cmd *cobra.Command, args []string) (*Config, error) {
	l.setupViperDefaults()
	l.loadGlobalConfig()
	l.loadLocalConfig(args)
	l.bindCommandFlags(cmd)

	source := ""
	if len(args) > 0 {
		source = args[0]
	}

	return Load(source)
}

// setupViperDefaults sets up default values for viper
func (l *Loader) setupViperDefaults() {
	viper.SetDefault("out", DefaultOut)
	viper.SetDefault("compiler", DefaultCompiler)
	viper.SetDefault("compiler_args", DefaultCompilerArgs)
	viper.SetDefault("passes", DefaultPasses)
	viper.SetDefault("prefix", DefaultPrefix)
	viper.SetDefault("ignore_errors", false)
	viper.SetDefault("force", false)
	viper.SetDefault("watch", false)
	viper.SetDefault("jobs", 0)
	viper.SetDefault("number_frames", false)
	viper.SetDefault("verbose", false)
}

// loadGlobalConfig loads global configuration from the user config directory
func (l *Loader) loadGlobalConfig() {
	base, err := os.UserConfigDir()
	if err != nil {
		return
	}

	globalDir := filepath.Join(base, "spv")

	for _, ext := range []string{"yml", "yaml", "json", "toml"} {
		globalPath := filepath.Join(globalDir, "config."+ext)

		if _, err := os.Stat(globalPath); err == nil {
			viper.SetConfigFile(globalPath)

			if err := viper.ReadInConfig(); err == nil {
				break
			}
		}
	}
}

// loadLocalConfig loads local configuration from the document's directory
func (l *Loader) loadLocalConfig(args []string) {
	if len(args) > 0 {
		absSource, err := filepath.Abs(args[0])
		if err != nil {
			return // silently ignore, Load() will handle validation
		}

		dir := filepath.Dir(absSource)
		localPath := FindLocalConfig(dir)
		if localPath != "" {
			viper.SetConfigFile(localPath)
			_ = viper.MergeInConfig()
		}
	}
}

// bindCommandFlags binds command flags to viper
func (l *Loader) bindCommandFlags(cmd *cobra.Command) {
	_ = viper.BindPFlag("out", cmd.Flags().Lookup("out"))
	_ = viper.BindPFlag("compiler", cmd.Flags().Lookup("compiler"))
	_ = viper.BindPFlag("compiler_args", cmd.Flags().Lookup("compiler-arg"))
	_ = viper.BindPFlag("passes", cmd.Flags().Lookup("passes"))
	_ = viper.BindPFlag("prefix", cmd.Flags().Lookup("prefix"))
	_ = viper.BindPFlag("ignore_errors", cmd.Flags().Lookup("ignore-errors"))
	_ = viper.BindPFlag("force", cmd.Flags().Lookup("force"))
	_ = viper.BindPFlag("watch", cmd.Flags().Lookup("watch"))
	_ = viper.BindPFlag("jobs", cmd.Flags().Lookup("jobs"))
	_ = viper.BindPFlag("number_frames", cmd.Flags().Lookup("number-frames"))
	_ = viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
}
