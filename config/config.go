// Package config loads client settings from an optional YAML file and the
// environment, and turns them into a ready [imagine.Client].
//
// Precedence is defaults, then the file, then environment variables:
//
//	cfg, err := config.Load(config.WithFile("imagine.yaml"))
//	if err != nil {
//		return err
//	}
//	c, err := cfg.NewClient()
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adamwoolhether/imagine"
	"github.com/adamwoolhether/imagine/catalog"
	"github.com/adamwoolhether/imagine/client"
	"github.com/adamwoolhether/imagine/client/throttle"
)

// DefaultEnvPrefix prefixes every environment variable Load reads.
const DefaultEnvPrefix = "IMAGINE"

// Config is the file and environment view of a client.
type Config struct {
	BaseURL   string          `yaml:"base_url"`
	AuthToken string          `yaml:"auth_token"`
	Dialect   string          `yaml:"dialect"`
	Timeout   time.Duration   `yaml:"timeout"`
	UserAgent string          `yaml:"user_agent"`
	Throttle  throttle.Config `yaml:"throttle"`
}

// Defaults returns the settings used when nothing overrides them.
func Defaults() Config {
	return Config{
		Dialect: "a",
		Timeout: 2 * time.Minute,
	}
}

// Option configures Load.
type Option func(*loadOpts) error
type loadOpts struct {
	path   string
	prefix string
	lookup func(string) (string, bool)
}

// WithFile reads YAML settings from path. A missing file is an error.
func WithFile(path string) Option {
	return func(o *loadOpts) error {
		if path == "" {
			return errors.New("config path must not be empty")
		}
		o.path = path
		return nil
	}
}

func WithEnvPrefix(prefix string) Option {
	return func(o *loadOpts) error {
		if prefix == "" {
			return errors.New("env prefix must not be empty")
		}
		o.prefix = prefix
		return nil
	}
}

// WithLookup replaces os.LookupEnv, mostly for tests.
func WithLookup(fn func(string) (string, bool)) Option {
	return func(o *loadOpts) error {
		if fn == nil {
			return errors.New("lookup must not be nil")
		}
		o.lookup = fn
		return nil
	}
}

// Load builds a Config from defaults, the optional file and the environment.
func Load(optFns ...Option) (Config, error) {
	opts := loadOpts{
		prefix: DefaultEnvPrefix,
		lookup: os.LookupEnv,
	}
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return Config{}, fmt.Errorf("applying config option: %w", err)
		}
	}

	cfg := Defaults()

	if opts.path != "" {
		b, err := os.ReadFile(opts.path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := decode(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", opts.path, err)
		}
	}

	if err := applyEnv(&cfg, opts.prefix, opts.lookup); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func decode(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func applyEnv(cfg *Config, prefix string, lookup func(string) (string, bool)) error {
	env := func(name string) (string, bool) {
		v, ok := lookup(prefix + "_" + name)
		if !ok {
			return "", false
		}
		return strings.TrimSpace(v), true
	}

	if v, ok := env("BASE_URL"); ok {
		cfg.BaseURL = v
	}
	if v, ok := env("AUTH_TOKEN"); ok {
		cfg.AuthToken = v
	}
	if v, ok := env("DIALECT"); ok {
		cfg.Dialect = v
	}
	if v, ok := env("USER_AGENT"); ok {
		cfg.UserAgent = v
	}

	if v, ok := env("TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parsing %s_TIMEOUT: %w", prefix, err)
		}
		cfg.Timeout = d
	}

	for name, dst := range map[string]*int{
		"THROTTLE_RPS":   &cfg.Throttle.RPS,
		"THROTTLE_BURST": &cfg.Throttle.Burst,
	} {
		v, ok := env(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parsing %s_%s: %w", prefix, name, err)
		}
		*dst = n
	}

	return nil
}

// NewClient builds a client from cfg. extra options are applied after the
// ones derived from cfg. Failures wrap [imagine.ErrInvalidConfiguration].
func (cfg Config) NewClient(extra ...imagine.Option) (*imagine.Client, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	return imagine.New(imagine.Config{
		BaseURL:   cfg.BaseURL,
		AuthToken: cfg.AuthToken,
	}, append(opts, extra...)...)
}

// Options translates cfg into client options.
func (cfg Config) Options() ([]imagine.Option, error) {
	dialect, err := catalog.ByName(cfg.Dialect)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", imagine.ErrInvalidConfiguration, err)
	}

	var httpOpts []client.Option
	if cfg.Timeout > 0 {
		httpOpts = append(httpOpts, client.WithTimeout(cfg.Timeout))
	}
	if cfg.UserAgent != "" {
		httpOpts = append(httpOpts, client.WithUserAgent(cfg.UserAgent))
	}
	if cfg.Throttle.RPS > 0 || cfg.Throttle.Burst > 0 {
		httpOpts = append(httpOpts, client.WithThrottle(cfg.Throttle.RPS, cfg.Throttle.Burst))
	}

	return []imagine.Option{
		imagine.WithDialect(dialect),
		imagine.WithHTTPOptions(httpOpts...),
	}, nil
}
