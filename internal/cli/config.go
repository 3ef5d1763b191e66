package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/backlog/internal/paths"
	"github.com/mesh-intelligence/backlog/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// envPrefix makes BACKLOG_<KEY> override any config key.
	envPrefix = "BACKLOG"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyDBFile     = "db_file"
	cfgKeyPlain      = "plain"
	cfgKeyAccessible = "accessible"
	cfgKeyLogLevel   = "log_level"
	cfgKeyLogFile    = "log_file"

	defaultBackend  = types.BackendJSON
	defaultLogLevel = "info"
	defaultLogFile  = "backlog.log"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# backlog configuration

# Storage backend: json or sqlite
backend: json

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Database file name inside the data directory (default: db.json or db.sqlite)
# db_file:

# Disable colors and screen clearing
plain: false

# Ask questions one line at a time instead of drawing forms
accessible: false

# Session log: debug, info, warn or error
log_level: info
# log_file:
`

// settings is the effective configuration after flags, environment, and
// config.yaml are merged.
type settings struct {
	ConfigDir  string `yaml:"config_dir"`
	Backend    string `yaml:"backend"`
	DataDir    string `yaml:"data_dir"`
	DBFile     string `yaml:"db_file"`
	DBPath     string `yaml:"db_path"`
	Plain      bool   `yaml:"plain"`
	Accessible bool   `yaml:"accessible"`
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
}

func (s settings) storeConfig() types.Config {
	return types.Config{Backend: s.Backend, DataDir: s.DataDir, DBFile: s.DBFile}
}

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// load resolves the config directory, reads config.yaml, and merges it with
// the global flags into c.settings.
func (c *command) load() error {
	configDir, err := paths.ResolveConfigDir(c.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}

	v, err := loadConfig(configDir)
	if err != nil {
		return sysError(fmt.Errorf("load config: %w", err))
	}

	s, err := resolveSettings(v, configDir, c.flags)
	if err != nil {
		return err
	}
	c.settings = s
	return nil
}

// resolveSettings applies flag > environment > config.yaml > default for
// every setting.
func resolveSettings(v *viper.Viper, configDir string, f rootFlags) (settings, error) {
	backend := v.GetString(cfgKeyBackend)
	if f.backend != "" {
		backend = f.backend
	}

	dataDir, err := paths.ResolveDataDir(f.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return settings{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}

	s := settings{
		ConfigDir:  configDir,
		Backend:    backend,
		DataDir:    dataDir,
		DBFile:     v.GetString(cfgKeyDBFile),
		Plain:      f.plain || v.GetBool(cfgKeyPlain) || os.Getenv("NO_COLOR") != "",
		Accessible: v.GetBool(cfgKeyAccessible),
		LogLevel:   v.GetString(cfgKeyLogLevel),
		LogFile:    v.GetString(cfgKeyLogFile),
	}
	if err := s.storeConfig().Validate(); err != nil {
		return settings{}, userError(fmt.Errorf("backend %q: %w", backend, err))
	}
	if s.DBFile == "" {
		s.DBFile = types.DefaultDBFile(s.Backend)
	}
	s.DBPath = paths.DBPath(s.storeConfig())
	if s.LogFile == "" {
		s.LogFile = filepath.Join(configDir, defaultLogFile)
	}
	return s, nil
}

func (c *command) newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(c.settings); err != nil {
				return sysError(fmt.Errorf("encode config: %w", err))
			}
			return enc.Close()
		},
	}
}
