package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/workbench/pkg/errors"
	"github.com/arthur-debert/workbench/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	gotoml "github.com/pelletier/go-toml/v2"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

const (
	EnvPrefix        = "WORKBENCH_"
	SystemConfigPath = "/etc/workbench/config.toml"
)

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// Sources lists the files merged over the embedded defaults
type Sources struct {
	// Optional files, skipped when absent
	System string
	User   string

	// Explicit file, must exist when set
	Explicit string
}

// DefaultSources returns the standard file locations plus explicit
func DefaultSources(explicit string) Sources {
	return Sources{
		System:   SystemConfigPath,
		User:     filepath.Join(xdg.ConfigHome, "workbench", "config.toml"),
		Explicit: explicit,
	}
}

// Default returns the embedded configuration alone
func Default() *Config {
	cfg, err := Load(Sources{})
	if err != nil {
		panic("embedded defaults are invalid: " + err.Error())
	}
	return cfg
}

// Load merges every layer and validates the result
func Load(src Sources) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse embedded defaults")
	}

	for _, optional := range []string{src.System, src.User} {
		if optional == "" {
			continue
		}
		if _, err := os.Stat(optional); err != nil {
			continue
		}
		if err := loadFile(k, optional); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", optional).Msg("Loaded config file")
	}

	if src.Explicit != "" {
		if _, err := os.Stat(src.Explicit); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", src.Explicit).
				WithDetail("path", src.Explicit)
		}
		if err := loadFile(k, src.Explicit); err != nil {
			return nil, err
		}
		logger.Debug().Str("path", src.Explicit).Msg("Loaded config file")
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps WORKBENCH_VIM__PLUGIN_DEPTH to vim.plugin_depth
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

func loadFile(k *koanf.Koanf, path string) error {
	if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
		return errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path).
			WithDetail("path", path)
	}
	return nil
}

// Validate checks the values the installer and provisioner rely on
func (c *Config) Validate() error {
	invalid := func(key, msg string) error {
		return errors.Newf(errors.ErrConfigValid, "%s: %s", key, msg).WithDetail("key", key)
	}

	if strings.TrimSpace(c.Install.StatusFormat) == "" {
		return invalid("install.status_format", "must not be empty")
	}
	for _, name := range append(c.RequiredPackages(), append(c.VimPackages(), c.ProfilePackages()...)...) {
		if strings.TrimSpace(name) == "" {
			return invalid("packages", "package names must not be empty")
		}
	}
	if !filepath.IsAbs(c.Vim.Runtime) {
		return invalid("vim.runtime", "must be an absolute path")
	}
	if filepath.Clean(c.Vim.Runtime) == "/" {
		return invalid("vim.runtime", "must not be the filesystem root")
	}
	if c.Vim.BaseSource == "" {
		return invalid("vim.base_source", "must not be empty")
	}
	if c.Vim.BaseDepth < 0 || c.Vim.PluginDepth < 0 {
		return invalid("vim.depth", "must not be negative")
	}
	for _, p := range c.Vim.Plugins {
		if RepoName(p) == "" || RepoName(p) == "." {
			return invalid("vim.plugins", "invalid plugin source "+p)
		}
	}
	if c.Profile.PromptMarker == "" {
		return invalid("profile.prompt_marker", "must not be empty")
	}
	return nil
}

// TOML renders the configuration as a TOML document
func (c *Config) TOML() ([]byte, error) {
	data, err := gotoml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return data, nil
}
