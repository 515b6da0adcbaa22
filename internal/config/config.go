// Package config loads the observer settings from defaults, an optional
// config file, VITALMON_* environment variables and command line flags.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/mutker/vitalmon/internal/errors"
	"codeberg.org/mutker/vitalmon/internal/metrics"
	"codeberg.org/mutker/vitalmon/internal/poller"
	"codeberg.org/mutker/vitalmon/internal/prefs"
	"codeberg.org/mutker/vitalmon/internal/reader"
	"codeberg.org/mutker/vitalmon/internal/render"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix  = "VITALMON"
	DefaultLogLevel   = LogLevelWarning
	DefaultConfigName = "vitalmon"
	DefaultSQLiteName = "prefs.db"

	DefaultPrefsSaveTimeout = 5 * time.Second

	// staleFactor times a poll interval is the age at which a reading is
	// reported stale.
	staleFactor = 2
)

// Config holds every observer setting. Display preferences are not part of
// it; those belong to the prefs package.
type Config struct {
	LogLevel LogLevel `mapstructure:"log_level"`

	CPUInterval time.Duration `mapstructure:"cpu_interval"`
	MemInterval time.Duration `mapstructure:"mem_interval"`
	NWInterval  time.Duration `mapstructure:"nw_interval"`
	CPUTimeout  time.Duration `mapstructure:"cpu_timeout"`
	MemTimeout  time.Duration `mapstructure:"mem_timeout"`
	NWTimeout   time.Duration `mapstructure:"nw_timeout"`

	RenderInterval   time.Duration `mapstructure:"render_interval"`
	RotationInterval time.Duration `mapstructure:"rotation_interval"`

	ProbeAddress    string        `mapstructure:"probe_address"`
	CPUSampleWindow time.Duration `mapstructure:"cpu_sample_window"`

	Thresholds ThresholdConfig `mapstructure:"thresholds"`

	PrefsBackend     Backend       `mapstructure:"prefs_backend"`
	PrefsPath        string        `mapstructure:"prefs_path"`
	PrefsSaveTimeout time.Duration `mapstructure:"prefs_save_timeout"`
	Sink             SinkKind      `mapstructure:"sink"`
	SinkPath         string        `mapstructure:"sink_path"`
	PIDDir           string        `mapstructure:"pid_dir"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `mapstructure:"-"`
}

// ThresholdConfig holds [normal, warning, critical] per metric.
type ThresholdConfig struct {
	CPU []float64 `mapstructure:"cpu"`
	Mem []float64 `mapstructure:"mem"`
	NW  []float64 `mapstructure:"nw"`
}

// RegisterFlags adds the observer flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file path")
	fs.String("log-level", string(DefaultLogLevel), "Log level (debug, info, warn, error)")
	fs.String("prefs-backend", string(BackendJSON), "Preference storage backend (json, sqlite)")
	fs.String("prefs-path", "", "Preference storage path")
	fs.String("sink", string(SinkTerminal), "Status line destination (terminal, file)")
	fs.String("sink-path", "", "Status file path when --sink=file")
	fs.String("pid-dir", "", "Directory of the PID file")
	fs.String("probe-address", reader.DefaultProbeAddress, "host:port dialled for network latency")
}

var flagKeys = map[string]string{
	"log-level":     "log_level",
	"prefs-backend": "prefs_backend",
	"prefs-path":    "prefs_path",
	"sink":          "sink",
	"sink-path":     "sink_path",
	"pid-dir":       "pid_dir",
	"probe-address": "probe_address",
}

func setDefaults(v *viper.Viper) {
	pc := poller.DefaultConfig()
	rc := render.DefaultConfig()
	p := metrics.DefaultPolicies()

	v.SetDefault("log_level", string(DefaultLogLevel))
	v.SetDefault("cpu_interval", pc.CPU.Interval)
	v.SetDefault("mem_interval", pc.Memory.Interval)
	v.SetDefault("nw_interval", pc.Network.Interval)
	v.SetDefault("cpu_timeout", pc.CPU.Timeout)
	v.SetDefault("mem_timeout", pc.Memory.Timeout)
	v.SetDefault("nw_timeout", pc.Network.Timeout)
	v.SetDefault("render_interval", rc.RenderInterval)
	v.SetDefault("rotation_interval", rc.RotationInterval)
	v.SetDefault("probe_address", reader.DefaultProbeAddress)
	v.SetDefault("cpu_sample_window", reader.DefaultCPUSampleWindow)
	v.SetDefault("thresholds.cpu", triple(p.CPU))
	v.SetDefault("thresholds.mem", triple(p.Memory))
	v.SetDefault("thresholds.nw", triple(p.Network))
	v.SetDefault("prefs_backend", string(BackendJSON))
	v.SetDefault("prefs_path", "")
	v.SetDefault("prefs_save_timeout", DefaultPrefsSaveTimeout)
	v.SetDefault("sink", string(SinkTerminal))
	v.SetDefault("sink_path", "")
	v.SetDefault("pid_dir", os.TempDir())
}

func triple(t metrics.Thresholds) []float64 {
	return []float64{t.Normal, t.Warning, t.Critical}
}

// Load resolves the configuration. fs may be nil when no flags apply.
func Load(fs *pflag.FlagSet, opts ...Option) (*Config, error) {
	errFactory := errors.New()
	o := &options{envPrefix: DefaultEnvPrefix}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs != nil {
		for name, key := range flagKeys {
			f := fs.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, errFactory.Wrap(errors.ErrBindFlags, err)
			}
		}
	}

	if o.configPath == "" {
		o.configPath = os.Getenv(o.envPrefix + "_CONFIG")
	}

	if err := readConfigFile(v, o.configPath); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()
	cfg.LogLevel = LogLevel(strings.ToLower(string(cfg.LogLevel)))
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = LogLevelWarning
	}

	if cfg.PrefsPath == "" {
		path, err := defaultPrefsPath(cfg.PrefsBackend)
		if err != nil {
			return nil, err
		}
		cfg.PrefsPath = path
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile reads path, or searches the default locations when path is
// empty. A missing file in the default locations is not an error.
func readConfigFile(v *viper.Viper, path string) error {
	errFactory := errors.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
		return nil
	}

	v.SetConfigName(DefaultConfigName)
	v.SetConfigType("toml")
	if dir, err := prefs.DefaultDir(); err == nil {
		v.AddConfigPath(dir)
	}
	v.AddConfigPath("/etc")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	return nil
}

func defaultPrefsPath(backend Backend) (string, error) {
	dir, err := prefs.DefaultDir()
	if err != nil {
		return "", err
	}
	if backend == BackendSQLite {
		return filepath.Join(dir, DefaultSQLiteName), nil
	}

	return filepath.Join(dir, prefs.DefaultFileName), nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !c.LogLevel.IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if err := c.Poller().Validate(); err != nil {
		return err
	}
	if c.RenderInterval <= 0 || c.RotationInterval <= 0 || c.CPUSampleWindow <= 0 || c.PrefsSaveTimeout <= 0 {
		return errFactory.WithData(errors.ErrInvalidInterval, map[string]time.Duration{
			"render_interval":    c.RenderInterval,
			"rotation_interval":  c.RotationInterval,
			"cpu_sample_window":  c.CPUSampleWindow,
			"prefs_save_timeout": c.PrefsSaveTimeout,
		})
	}

	if c.ProbeAddress == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "probe_address must not be empty")
	}

	if _, err := c.Policies(); err != nil {
		return err
	}

	switch c.PrefsBackend {
	case BackendJSON, BackendSQLite:
	default:
		return errFactory.WithData(errors.ErrInvalidConfig, "unknown prefs_backend "+string(c.PrefsBackend))
	}

	switch c.Sink {
	case SinkTerminal:
	case SinkFile:
		if c.SinkPath == "" {
			return errFactory.WithMessage(errors.ErrInvalidConfig, "sink_path is required when sink is file")
		}
	default:
		return errFactory.WithData(errors.ErrInvalidConfig, "unknown sink "+string(c.Sink))
	}

	return nil
}

// Poller returns the acquisition schedule.
func (c *Config) Poller() poller.Config {
	return poller.Config{
		CPU:     poller.Schedule{Interval: c.CPUInterval, Timeout: c.CPUTimeout},
		Memory:  poller.Schedule{Interval: c.MemInterval, Timeout: c.MemTimeout},
		Network: poller.Schedule{Interval: c.NWInterval, Timeout: c.NWTimeout},
	}
}

// Render returns the render scheduler intervals.
func (c *Config) Render() render.Config {
	return render.Config{
		RenderInterval:   c.RenderInterval,
		RotationInterval: c.RotationInterval,
		StaleAfter: map[metrics.Kind]time.Duration{
			metrics.KindCPU:     staleFactor * c.CPUInterval,
			metrics.KindMemory:  staleFactor * c.MemInterval,
			metrics.KindNetwork: staleFactor * c.NWInterval,
		},
	}
}

// Reader returns the system reader settings.
func (c *Config) Reader() reader.Config {
	return reader.Config{
		ProbeAddress:    c.ProbeAddress,
		CPUSampleWindow: c.CPUSampleWindow,
	}
}

// Policies returns the classification thresholds.
func (c *Config) Policies() (metrics.Policies, error) {
	cpu, err := thresholds("cpu", c.Thresholds.CPU)
	if err != nil {
		return metrics.Policies{}, err
	}
	mem, err := thresholds("mem", c.Thresholds.Mem)
	if err != nil {
		return metrics.Policies{}, err
	}
	nw, err := thresholds("nw", c.Thresholds.NW)
	if err != nil {
		return metrics.Policies{}, err
	}

	p := metrics.Policies{CPU: cpu, Memory: mem, Network: nw}

	return p, p.Validate()
}

func thresholds(name string, values []float64) (metrics.Thresholds, error) {
	if len(values) != 3 {
		return metrics.Thresholds{}, errors.New().WithData(metrics.ErrInvalidThresholds, map[string]any{
			"metric": name,
			"values": values,
		})
	}

	return metrics.NewThresholds(values[0], values[1], values[2])
}
