package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	apierrors "github.com/matzehuels/apiviz/pkg/errors"
	"github.com/matzehuels/apiviz/pkg/graphviz"
)

// Render engines selectable with --engine or graphviz.engine.
const (
	engineExternal = "external" // the dot program
	engineEmbedded = "embedded" // go-graphviz, in process
)

const configFileName = "config.toml"

// Config is the apiviz configuration file.
//
//	[graphviz]
//	home = "/opt/graphviz"
//	executable = ""
//	timeout = "2m"
//	engine = "external"
type Config struct {
	Graphviz GraphvizConfig `toml:"graphviz"`
}

// GraphvizConfig selects and bounds the renderer.
type GraphvizConfig struct {
	Home       string   `toml:"home"`
	Executable string   `toml:"executable"`
	Timeout    Duration `toml:"timeout"`
	Engine     string   `toml:"engine"`
}

// Duration is a time.Duration written as a string such as "90s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	if v < 0 {
		return errors.New("duration must not be negative")
	}
	d.Duration = v
	return nil
}

// configDir returns the config directory using XDG standard (~/.config/apiviz/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// loadConfig reads the config file at path. An empty path means the default
// location, where a missing file is not an error.
func loadConfig(path string) (Config, error) {
	var cfg Config

	explicit := path != ""
	if !explicit {
		dir, err := configDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(dir, configFileName)
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, apierrors.Wrap(apierrors.ErrCodeConfig, err, "read config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, apierrors.New(apierrors.ErrCodeConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Graphviz.validate(); err != nil {
		return Config{}, apierrors.Wrap(apierrors.ErrCodeConfig, err, "invalid config %s", path)
	}
	return cfg, nil
}

func (g GraphvizConfig) validate() error {
	switch g.Engine {
	case "", engineExternal, engineEmbedded:
		return nil
	}
	return apierrors.New(apierrors.ErrCodeInvalidInput, "unknown engine %q (must be %q or %q)", g.Engine, engineExternal, engineEmbedded)
}

func (g GraphvizConfig) locator() graphviz.Locator {
	return graphviz.Locator{Home: g.Home, Executable: g.Executable}
}

func (g GraphvizConfig) embedded() bool {
	return g.Engine == engineEmbedded
}

// graphvizFlags are the per-command overrides of [GraphvizConfig].
type graphvizFlags struct {
	home       string
	executable string
	timeout    time.Duration
	engine     string
}

func (f *graphvizFlags) register(cmd *cobra.Command, withRender bool) {
	cmd.Flags().StringVar(&f.home, "graphviz-home", "", "Graphviz install directory (default $"+graphviz.HomeEnv+")")
	cmd.Flags().StringVar(&f.executable, "dot", "", "dot executable to run (default dot, or dot.exe in the Graphviz home on Windows)")
	if withRender {
		cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "abort a render after this long (0 waits indefinitely)")
		cmd.Flags().StringVar(&f.engine, "engine", "", "render engine: external (default), embedded")
	}
}

// apply overlays flags that were set on top of the file config.
func (f graphvizFlags) apply(g GraphvizConfig) GraphvizConfig {
	if f.home != "" {
		g.Home = f.home
	}
	if f.executable != "" {
		g.Executable = f.executable
	}
	if f.timeout > 0 {
		g.Timeout = Duration{f.timeout}
	}
	if f.engine != "" {
		g.Engine = f.engine
	}
	return g
}

// graphvizConfig resolves the effective renderer settings:
// flags, then the config file, then GRAPHVIZ_HOME, then defaults.
func (c *CLI) graphvizConfig(f graphvizFlags) (GraphvizConfig, error) {
	cfg, err := loadConfig(c.configPath)
	if err != nil {
		return GraphvizConfig{}, err
	}
	g := f.apply(cfg.Graphviz)
	if err := g.validate(); err != nil {
		return GraphvizConfig{}, err
	}
	c.Logger.Debug("Graphviz settings", "home", g.Home, "executable", g.Executable, "timeout", g.Timeout.Duration, "engine", g.Engine)
	return g, nil
}

// renderer builds the configured renderer.
func (c *CLI) renderer(g GraphvizConfig) graphviz.Renderer {
	if g.embedded() {
		return &graphviz.Embedded{Logger: c.Logger}
	}
	return &graphviz.Invoker{
		Locator: g.locator(),
		Logger:  c.Logger,
		Timeout: g.Timeout.Duration,
	}
}
