package config

import (
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/conduit-lang/configkeys/internal/compiler/codegen"
	toolerrors "github.com/conduit-lang/configkeys/internal/compiler/errors"
	"github.com/conduit-lang/configkeys/internal/fragments"
	"github.com/conduit-lang/configkeys/internal/generator"
	"github.com/conduit-lang/configkeys/internal/manager"
)

// FileName is the base name of the tool configuration file
const FileName = "configkeys"

// EnvPrefix prefixes environment variables overriding configuration keys,
// e.g. CONFIGKEYS_ARTIFACT_PATH
const EnvPrefix = "CONFIGKEYS"

// Config represents the configkeys configuration
type Config struct {
	ConfigPath string          `mapstructure:"config_path"`
	Verbose    bool            `mapstructure:"verbose"`
	Artifact   ArtifactConfig  `mapstructure:"artifact"`
	Templates  TemplatesConfig `mapstructure:"templates"`
	Store      StoreConfig     `mapstructure:"store"`

	// File is the configuration file that was read; empty when only
	// defaults and environment variables apply
	File string `mapstructure:"-"`
}

// ArtifactConfig represents the generated configuration keys
type ArtifactConfig struct {
	Path     string `mapstructure:"path"`
	Package  string `mapstructure:"package"`
	RootType string `mapstructure:"root_type"`
}

// TemplatesConfig represents module template aggregation
type TemplatesConfig struct {
	ModuleRoots []string `mapstructure:"module_roots"`
	FileName    string   `mapstructure:"file_name"`
	Policy      string   `mapstructure:"policy"`
	Backup      bool     `mapstructure:"backup"`
}

// StoreConfig represents the backing store
type StoreConfig struct {
	Backup bool `mapstructure:"backup"`
}

// Load loads the configuration. An explicit file must exist; otherwise
// configkeys.yml is looked up in the project root and defaults apply when
// there is none. Relative paths are resolved against the directory of the
// file that was read.
func Load(file string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("config_path", manager.DefaultStorePath)
	v.SetDefault("verbose", false)
	v.SetDefault("artifact.path", generator.DefaultArtifactPath)
	v.SetDefault("artifact.package", "configkeys")
	v.SetDefault("artifact.root_type", "ConfigKeys")
	v.SetDefault("templates.module_roots", []string{"modules"})
	v.SetDefault("templates.file_name", fragments.DefaultFileName)
	v.SetDefault("templates.policy", string(fragments.PolicyExisting))
	v.SetDefault("templates.backup", true)
	v.SetDefault("store.backup", false)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		if root, err := GetProjectRoot(); err == nil {
			v.AddConfigPath(root)
		}
		v.AddConfigPath(".")
	}

	// Enable environment variable support
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || file != "" {
			return nil, toolerrors.NewConfigRead(v.ConfigFileUsed(), err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.File = v.ConfigFileUsed()

	// Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	if config.File != "" {
		config.resolve(filepath.Dir(config.File))
	}

	return &config, nil
}

// resolve makes relative paths relative to dir
func (c *Config) resolve(dir string) {
	join := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}

	c.ConfigPath = join(c.ConfigPath)
	c.Artifact.Path = join(c.Artifact.Path)
	for i, root := range c.Templates.ModuleRoots {
		c.Templates.ModuleRoots[i] = join(root)
	}
}

// ManagerOptions returns the options of the configuration manager
func (c *Config) ManagerOptions() manager.Options {
	return manager.Options{
		StorePath:   c.ConfigPath,
		StoreBackup: c.Store.Backup,
		Artifact: generator.Options{
			ArtifactPath: c.Artifact.Path,
			Package:      c.Artifact.Package,
			RootName:     c.Artifact.RootType,
			Source:       filepath.Base(c.ConfigPath),
		},
	}
}

// FragmentOptions returns the options of the module template aggregator
func (c *Config) FragmentOptions() fragments.Options {
	return fragments.Options{
		ModuleRoots: c.Templates.ModuleRoots,
		FileName:    c.Templates.FileName,
		StorePath:   c.ConfigPath,
		Backup:      c.Templates.Backup,
	}
}

// InProject checks if the current directory holds a configkeys project
func InProject() bool {
	for _, name := range []string{FileName + ".yml", FileName + ".yaml", manager.DefaultStorePath} {
		if _, err := os.Stat(name); err == nil {
			return true
		}
	}
	return false
}

// GetProjectRoot tries to find the project root by looking for configkeys.yml
func GetProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		// Check for configkeys.yml or configkeys.yaml
		if _, err := os.Stat(filepath.Join(dir, FileName+".yml")); err == nil {
			return dir, nil
		}
		if _, err := os.Stat(filepath.Join(dir, FileName+".yaml")); err == nil {
			return dir, nil
		}

		// Move up one directory
		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return "", fmt.Errorf("not in a configkeys project (no %s.yml found)", FileName)
		}
		dir = parent
	}
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if cfg.ConfigPath == "" {
		return toolerrors.NewConfigInvalid("config_path", "must not be empty")
	}

	if !strings.HasSuffix(cfg.Artifact.Path, ".go") {
		return toolerrors.NewConfigInvalid("artifact.path", fmt.Sprintf("must be a .go file, got: %s", cfg.Artifact.Path))
	}

	if !token.IsIdentifier(cfg.Artifact.Package) || cfg.Artifact.Package == "_" {
		return toolerrors.NewConfigInvalid("artifact.package", fmt.Sprintf("must be a Go package name, got: %s", cfg.Artifact.Package))
	}

	if !token.IsIdentifier(cfg.Artifact.RootType) || !token.IsExported(cfg.Artifact.RootType) {
		return toolerrors.NewConfigInvalid("artifact.root_type", fmt.Sprintf("must be an exported Go identifier, got: %s", cfg.Artifact.RootType))
	}

	for _, reserved := range codegen.ReservedIdents {
		if cfg.Artifact.RootType == reserved {
			return toolerrors.NewConfigInvalid("artifact.root_type", fmt.Sprintf("%s is declared by the generated file itself", reserved))
		}
	}

	if _, err := fragments.ParsePolicy(cfg.Templates.Policy); err != nil {
		return toolerrors.NewConfigInvalid("templates.policy", fmt.Sprintf("must be 'existing' or 'new', got: %s", cfg.Templates.Policy))
	}

	return nil
}
