/*
Package config manages TOML config for sqlassist.
*/
package config

import (
	"os"
	"path/filepath"

	"github.com/bastiangx/sqlassist/internal/dialect"
	"github.com/bastiangx/sqlassist/internal/reqctx"
	"github.com/bastiangx/sqlassist/internal/util"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Analyzer AnalyzerConfig `toml:"analyzer"`
	Dialect  DialectConfig  `toml:"dialect"`
	Server   ServerConfig   `toml:"server"`
}

// AnalyzerConfig mirrors reqctx.Config's enumerated options verbatim, in
// their TOML-serializable form.
type AnalyzerConfig struct {
	InsertCase                    string `toml:"insert_case"`
	UseFQNames                    bool   `toml:"use_fq_names"`
	UseShortNames                 bool   `toml:"use_short_names"`
	SortAlphabetically            bool   `toml:"sort_alphabetically"`
	SearchInsideNames             bool   `toml:"search_inside_names"`
	SearchGlobally                bool   `toml:"search_globally"`
	SearchProcedures              bool   `toml:"search_procedures"`
	ShowValues                    bool   `toml:"show_values"`
	HideDuplicates                bool   `toml:"hide_duplicates"`
	SimpleMode                    bool   `toml:"simple_mode"`
	AliasInsertMode               string `toml:"alias_insert_mode"`
	ExperimentalReferenceAnalyzer bool   `toml:"experimental_reference_analyzer"`
	HippieEnabled                 bool   `toml:"hippie_enabled"`
	MaxAttributeValueProposals    int    `toml:"max_attribute_value_proposals"`
}

// DialectConfig selects and parameterizes the active SQL dialect.
type DialectConfig struct {
	Name        string `toml:"name"`
	KeywordCase string `toml:"keyword_case"`
}

// ServerConfig has IPC server related options.
type ServerConfig struct {
	LogLevel string `toml:"log_level"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := util.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", "sqlassist")
	if result := util.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", "sqlassist")
	if result := util.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := util.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/sqlassist/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	var config *Config
	var err error

	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err = LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err = InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config matching reqctx.DefaultConfig's values.
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			InsertCase:                 "AS-TYPED",
			SortAlphabetically:         true,
			AliasInsertMode:            "PLAIN",
			MaxAttributeValueProposals: 50,
		},
		Dialect: DialectConfig{
			Name:        "generic",
			KeywordCase: "UPPER",
		},
		Server: ServerConfig{
			LogLevel: "info",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := util.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !util.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := util.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse attempts to parse a TOML file
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := util.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if analyzerSection, ok := util.ExtractSection(tempConfig, "analyzer"); ok {
		extractAnalyzerConfig(analyzerSection, &config.Analyzer)
	}
	if dialectSection, ok := util.ExtractSection(tempConfig, "dialect"); ok {
		extractDialectConfig(dialectSection, &config.Dialect)
	}
	if serverSection, ok := util.ExtractSection(tempConfig, "server"); ok {
		extractServerConfig(serverSection, &config.Server)
	}
	return config, nil
}

func extractAnalyzerConfig(data map[string]any, a *AnalyzerConfig) {
	if val, ok := util.ExtractString(data, "insert_case"); ok {
		a.InsertCase = val
	}
	if val, ok := util.ExtractBool(data, "use_fq_names"); ok {
		a.UseFQNames = val
	}
	if val, ok := util.ExtractBool(data, "use_short_names"); ok {
		a.UseShortNames = val
	}
	if val, ok := util.ExtractBool(data, "sort_alphabetically"); ok {
		a.SortAlphabetically = val
	}
	if val, ok := util.ExtractBool(data, "search_inside_names"); ok {
		a.SearchInsideNames = val
	}
	if val, ok := util.ExtractBool(data, "search_globally"); ok {
		a.SearchGlobally = val
	}
	if val, ok := util.ExtractBool(data, "search_procedures"); ok {
		a.SearchProcedures = val
	}
	if val, ok := util.ExtractBool(data, "show_values"); ok {
		a.ShowValues = val
	}
	if val, ok := util.ExtractBool(data, "hide_duplicates"); ok {
		a.HideDuplicates = val
	}
	if val, ok := util.ExtractBool(data, "simple_mode"); ok {
		a.SimpleMode = val
	}
	if val, ok := util.ExtractString(data, "alias_insert_mode"); ok {
		a.AliasInsertMode = val
	}
	if val, ok := util.ExtractBool(data, "experimental_reference_analyzer"); ok {
		a.ExperimentalReferenceAnalyzer = val
	}
	if val, ok := util.ExtractBool(data, "hippie_enabled"); ok {
		a.HippieEnabled = val
	}
	if val, ok := util.ExtractInt64(data, "max_attribute_value_proposals"); ok {
		a.MaxAttributeValueProposals = val
	}
}

func extractDialectConfig(data map[string]any, d *DialectConfig) {
	if val, ok := util.ExtractString(data, "name"); ok {
		d.Name = val
	}
	if val, ok := util.ExtractString(data, "keyword_case"); ok {
		d.KeywordCase = val
	}
}

func extractServerConfig(data map[string]any, s *ServerConfig) {
	if val, ok := util.ExtractString(data, "log_level"); ok {
		s.LogLevel = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := util.EnsureDir(configDir); err != nil {
		return err
	}
	config := DefaultConfig()
	return util.SaveTOMLFile(config, defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return util.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return util.SaveTOMLFile(config, configPath)
}

// ToReqConfig translates the TOML-serializable AnalyzerConfig into the
// reqctx.Config the analyzer consumes directly.
func (c *Config) ToReqConfig() reqctx.Config {
	a := c.Analyzer
	return reqctx.Config{
		InsertCase:                    parseCaseTransform(a.InsertCase),
		UseFQNames:                    a.UseFQNames,
		UseShortNames:                 a.UseShortNames,
		SortAlphabetically:            a.SortAlphabetically,
		SearchInsideNames:             a.SearchInsideNames,
		SearchGlobally:                a.SearchGlobally,
		SearchProcedures:              a.SearchProcedures,
		ShowValues:                    a.ShowValues,
		HideDuplicates:                a.HideDuplicates,
		SimpleMode:                    a.SimpleMode,
		AliasInsertMode:               parseAliasInsertMode(a.AliasInsertMode),
		ExperimentalReferenceAnalyzer: a.ExperimentalReferenceAnalyzer,
		HippieEnabled:                 a.HippieEnabled,
		MaxAttributeValueProposals:    a.MaxAttributeValueProposals,
	}
}

func parseCaseTransform(s string) dialect.CaseTransform {
	switch s {
	case "UPPER":
		return dialect.CaseUpper
	case "LOWER":
		return dialect.CaseLower
	default:
		return dialect.CaseAsTyped
	}
}

// ResolveDialect builds the dialect named by c.Dialect.Name. "generic" is
// the only dialect this codebase ships; an unrecognized name falls back
// to it with a warning rather than failing the whole config load.
func (c *Config) ResolveDialect() dialect.Dialect {
	switch c.Dialect.Name {
	case "", "generic":
		return dialect.NewGeneric()
	default:
		log.Warnf("unknown dialect %q, falling back to generic", c.Dialect.Name)
		return dialect.NewGeneric()
	}
}

// KeywordCase returns the configured keyword-case policy for the syntax
// manager, as opposed to Analyzer.InsertCase which governs identifiers.
func (c *Config) KeywordCase() dialect.CaseTransform {
	return parseCaseTransform(c.Dialect.KeywordCase)
}

func parseAliasInsertMode(s string) reqctx.AliasInsertMode {
	switch s {
	case "EXTENDED":
		return reqctx.AliasInsertExtended
	case "NONE":
		return reqctx.AliasInsertNone
	default:
		return reqctx.AliasInsertPlain
	}
}
