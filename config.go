package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Input     string        `yaml:"input"`
	Output    string        `yaml:"output"`
	Journal   string        `yaml:"journal"`
	LogLevel  string        `yaml:"log_level"`
	FitLength bool          `yaml:"fit_length"`
	Debounce  time.Duration `yaml:"debounce"`
	Select    Selection     `yaml:"select"`
}

// Selection picks the sliders to reverse. Objects takes precedence over the
// time window; with neither set every slider is selected.
type Selection struct {
	All     bool  `yaml:"all"`
	Objects []int `yaml:"objects"`
	From    int   `yaml:"from"`
	To      int   `yaml:"to"`
}

func (s Selection) Matches(index, time int) bool {
	switch {
	case s.All:
		return true
	case len(s.Objects) > 0:
		return slices.Contains(s.Objects, index)
	case s.From > 0 || s.To > 0:
		return time >= s.From && (s.To <= 0 || time <= s.To)
	}
	return true
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "info",
		Debounce: 200 * time.Millisecond,
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(filename string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("config: load %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}
	return cfg, nil
}

func (c Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return l, fmt.Errorf("config: log_level: %w", err)
	}
	return l, nil
}

// OutputPath is Output, or the input name with ".reversed" before the
// extension.
func (c Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	ext := filepath.Ext(c.Input)
	return strings.TrimSuffix(c.Input, ext) + ".reversed" + ext
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("config: no input file")
	}
	if filepath.Clean(c.OutputPath()) == filepath.Clean(c.Input) {
		return fmt.Errorf("config: output %s overwrites the input", c.Input)
	}
	if c.Select.From > 0 && c.Select.To > 0 && c.Select.From > c.Select.To {
		return fmt.Errorf("config: select window %d..%d is empty", c.Select.From, c.Select.To)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// parseConfig parses the flags shared by reverse and watch. A -config file is
// loaded first; flags given on the command line override its fields.
func parseConfig(name string, args []string) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	in := fs.String("in", "", "input .osu or .osz file")
	out := fs.String("out", "", "output file (default: <input>.reversed.<ext>)")
	journalPath := fs.String("journal", "", "SQLite edit journal")
	level := fs.String("log-level", "", "debug, info, warn or error")
	fit := fs.Bool("fit", false, "set each slider's length to its reversed geometry")
	objects := fs.String("objects", "", "comma separated hit object indices")
	from := fs.Int("from", 0, "select sliders starting at or after this time (ms)")
	to := fs.Int("to", 0, "select sliders starting at or before this time (ms)")
	debounce := fs.Duration("debounce", 0, "watch: wait this long after the last change")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return cfg, err
		}
	}

	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			cfg.Input = *in
		case "out":
			cfg.Output = *out
		case "journal":
			cfg.Journal = *journalPath
		case "log-level":
			cfg.LogLevel = *level
		case "fit":
			cfg.FitLength = *fit
		case "objects":
			cfg.Select.Objects, err = parseIndices(*objects)
		case "from":
			cfg.Select.From = *from
		case "to":
			cfg.Select.To = *to
		case "debounce":
			cfg.Debounce = *debounce
		}
	})
	if err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 && cfg.Input == "" {
		cfg.Input = fs.Arg(0)
	}
	return cfg, cfg.Validate()
}

func parseIndices(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		i, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("config: object index %q: %w", f, err)
		}
		out = append(out, i)
	}
	return out, nil
}
