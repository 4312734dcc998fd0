package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Default configuration values
const (
	DefaultOut      = "slides.pdf"
	DefaultCompiler = "latexmk"
	DefaultPasses   = 1
	DefaultPrefix   = ".spv-cache"
)

// DefaultCompilerArgs are the passthrough flags used when none are
// configured; they suit latexmk.
var DefaultCompilerArgs = []string{"-pdf", "-interaction=nonstopmode", "-halt-on-error"}

// Config holds the options for one invocation. It is built once by the
// loader and passed explicitly into every component; nothing reads viper
// after loading.
type Config struct {
	// Source is the Beamer document to compile.
	Source string

	// Out is the combined output PDF path.
	Out string

	// Compiler is the external TeX compiler executable.
	Compiler string

	// CompilerArgs are extra flags passed through to the compiler.
	CompilerArgs []string

	// Passes is the number of compiler passes per slide.
	Passes int

	// Prefix is the cache and compiler output directory.
	Prefix string

	// IgnoreErrors continues the pass over reported errors.
	IgnoreErrors bool

	// Force recompiles every slide regardless of cache state.
	Force bool

	// Watch recompiles on changes to the source file.
	Watch bool

	// Jobs is the compile worker pool size.
	Jobs int

	// NumberFrames injects each slide's document position as a frame
	// number counter.
	NumberFrames bool

	// Verbose enables debug output.
	Verbose bool
}

// Load builds a Config from the current viper state and validates it.
func Load(source string) (*Config, error) {
	cfg := &Config{
		Source:       source,
		Out:          viper.GetString("out"),
		Compiler:     viper.GetString("compiler"),
		CompilerArgs: viper.GetStringSlice("compiler_args"),
		Passes:       viper.GetInt("passes"),
		Prefix:       viper.GetString("prefix"),
		IgnoreErrors: viper.GetBool("ignore_errors"),
		Force:        viper.GetBool("force"),
		Watch:        viper.GetBool("watch"),
		Jobs:         viper.GetInt("jobs"),
		NumberFrames: viper.GetBool("number_frames"),
		Verbose:      viper.GetBool("verbose"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate resolves paths and checks the configuration is usable.
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("no source document specified")
	}

	abs, err := filepath.Abs(c.Source)
	if err != nil {
		return fmt.Errorf("invalid source path: %v", err)
	}
	c.Source = abs

	if c.Compiler == "" {
		return fmt.Errorf("no compiler specified")
	}

	if c.Out == "" {
		c.Out = DefaultOut
	}

	abs, err = filepath.Abs(c.Out)
	if err != nil {
		return fmt.Errorf("invalid output path: %v", err)
	}
	c.Out = abs

	if c.Prefix == "" {
		c.Prefix = DefaultPrefix
	}

	abs, err = filepath.Abs(c.Prefix)
	if err != nil {
		return fmt.Errorf("invalid prefix path: %v", err)
	}
	c.Prefix = abs

	if c.Passes < 1 {
		return fmt.Errorf("passes must be at least 1, got %d", c.Passes)
	}

	if c.Jobs < 1 {
		c.Jobs = runtime.NumCPU()
	}

	return nil
}
