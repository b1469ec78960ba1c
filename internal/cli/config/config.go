package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/routegen/internal/compiler/ast"
	"github.com/conduit-lang/routegen/internal/compiler/codegen"
	cerrors "github.com/conduit-lang/routegen/internal/compiler/errors"
	"github.com/conduit-lang/routegen/internal/compiler/naming"
	"github.com/conduit-lang/routegen/pkg/apigen"
	"github.com/conduit-lang/routegen/pkg/openapi"
)

// FileName is the configuration file looked up in the project directory.
const FileName = "routegen.yaml"

// EnvPrefix prefixes environment overrides, e.g. ROUTEGEN_PACKAGE_NAME.
const EnvPrefix = "ROUTEGEN"

// Config represents the routegen configuration
type Config struct {
	Package PackageConfig     `mapstructure:"package" yaml:"package"`
	Spec    SpecConfig        `mapstructure:"spec" yaml:"spec"`
	Naming  NamingConfig      `mapstructure:"naming" yaml:"naming"`
	Output  OutputConfig      `mapstructure:"output" yaml:"output"`
	Imports map[string]string `mapstructure:"imports" yaml:"imports,omitempty"`

	// File is the config file that was read, empty when defaults were used.
	File string `mapstructure:"-" yaml:"-"`
}

// PackageConfig is the package metadata written into the OpenAPI info block
type PackageConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Version     string `mapstructure:"version" yaml:"version"`
	Description string `mapstructure:"description" yaml:"description,omitempty"`
	Repository  string `mapstructure:"repository" yaml:"repository,omitempty"`
	Homepage    string `mapstructure:"homepage" yaml:"homepage,omitempty"`
}

// SpecConfig configures the document route
type SpecConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// NamingConfig configures the companion naming rule. Leaving both empty
// selects the Operation suffix.
type NamingConfig struct {
	Prefix string `mapstructure:"prefix" yaml:"prefix,omitempty"`
	Suffix string `mapstructure:"suffix" yaml:"suffix,omitempty"`
}

// OutputConfig configures the generated file
type OutputConfig struct {
	File    string `mapstructure:"file" yaml:"file,omitempty"`
	Package string `mapstructure:"package" yaml:"package,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Spec:    SpecConfig{Path: openapi.DefaultJSONPath},
		Imports: map[string]string{},
	}
}

// Load loads routegen.yaml from dir. A missing file is not an error.
func Load(dir string) (*Config, error) {
	v := newViper()
	v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	return read(v)
}

// LoadFile loads configuration from an explicit path.
func LoadFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	return read(v)
}

func newViper() *viper.Viper {
	v := viper.New()

	// Every key needs a default so environment overrides are seen by Unmarshal.
	v.SetDefault("package.name", "")
	v.SetDefault("package.version", "")
	v.SetDefault("package.description", "")
	v.SetDefault("package.repository", "")
	v.SetDefault("package.homepage", "")
	v.SetDefault("spec.path", openapi.DefaultJSONPath)
	v.SetDefault("naming.prefix", "")
	v.SetDefault("naming.suffix", "")
	v.SetDefault("output.file", "")
	v.SetDefault("output.package", "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func read(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	config.File = v.ConfigFileUsed()
	if config.Imports == nil {
		config.Imports = map[string]string{}
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Metadata returns the package metadata for the document info block.
func (c *Config) Metadata() apigen.Metadata {
	return apigen.Metadata{
		Name:          c.Package.Name,
		Version:       c.Package.Version,
		Description:   c.Package.Description,
		RepositoryURL: c.Package.Repository,
		HomepageURL:   c.Package.Homepage,
	}
}

// Rule returns the companion naming rule.
func (c *Config) Rule() naming.Rule {
	return naming.AffixRule(c.Naming.Prefix, c.Naming.Suffix)
}

// Settings returns the document settings.
func (c *Config) Settings() openapi.Settings {
	return openapi.Settings{JSONPath: c.Spec.Path}
}

// OutputFile returns where the file generated from source is written:
// output.file when set, otherwise <name>_gen.go next to source.
func (c *Config) OutputFile(source string) string {
	if c.Output.File != "" {
		if filepath.IsAbs(c.Output.File) {
			return c.Output.File
		}
		return filepath.Join(filepath.Dir(source), c.Output.File)
	}
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return filepath.Join(filepath.Dir(source), base+"_gen.go")
}

// OutputPackage returns the Go package of the generated file: output.package
// when set, otherwise derived from the output directory name.
func (c *Config) OutputPackage(source string) string {
	if c.Output.Package != "" {
		return c.Output.Package
	}
	dir, err := filepath.Abs(filepath.Dir(c.OutputFile(source)))
	if err != nil {
		dir = filepath.Dir(source)
	}
	return packageName(filepath.Base(dir))
}

// CodegenOptions builds generator options for source.
func (c *Config) CodegenOptions(source string) codegen.Options {
	return codegen.Options{
		SourceFile: filepath.Base(source),
		Package:    c.OutputPackage(source),
		Metadata:   c.Metadata(),
		SpecPath:   c.Spec.Path,
		Imports:    c.Imports,
		Rule:       c.Rule(),
	}
}

// MissingMetadata converts a metadata ConfigurationError into a CFG001
// diagnostic, or returns nil.
func MissingMetadata(err error) *cerrors.CompilerError {
	var cfgErr *apigen.ConfigurationError
	if !errors.As(err, &cfgErr) {
		return nil
	}
	return cerrors.NewMissingMetadata(cfgErr.Field, cfgErr)
}

// Diagnostic converts any generation error into a CompilerError so it can be
// rendered and serialized uniformly.
func Diagnostic(err error) *cerrors.CompilerError {
	var compErr *cerrors.CompilerError
	if errors.As(err, &compErr) {
		return compErr
	}
	if diag := MissingMetadata(err); diag != nil {
		return diag
	}
	return cerrors.NewCodeGenFailed(ast.SourceLocation{}, err.Error()).WithCause(err)
}

// validateConfig validates the configuration
func validateConfig(cfg *Config) error {
	if !strings.HasPrefix(cfg.Spec.Path, "/") {
		return cerrors.NewInvalidSpecPath(cfg.Spec.Path)
	}
	for alias, path := range cfg.Imports {
		if strings.TrimSpace(path) == "" {
			return fmt.Errorf("imports.%s must name an import path", alias)
		}
	}
	return nil
}

// packageName lowercases dir and drops characters Go package names cannot
// contain.
func packageName(dir string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(dir) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		return "routes"
	}
	return name
}
