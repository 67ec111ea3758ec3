// internal/cli/options.go
package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"ava/internal/cliutil"
	"ava/internal/region"
)

// EnvPrefix namespaces environment overrides: AVA_THREADS, AVA_OUTPUT_WIDTH...
const EnvPrefix = "AVA"

// Options holds the flags of the main command.
type Options struct {
	// Input
	Input  string
	Config string

	// Output
	Output      string
	OutputWidth int
	LogFile     string
	KeepIndex   bool
	Format      string

	// Performance
	Threads int

	// Misc
	Progress       bool
	Quiet          bool
	FailedExitCode int
	Settings       string
}

// PrepOptions holds the flags of `ava prep`.
type PrepOptions struct {
	Input string
	Name  string
	Quiet bool
}

// CollectOptions holds the flags of `ava collect`.
type CollectOptions struct {
	Input  string
	Output string
	Quiet  bool
}

// DefaultPrepName is the suffix variant callers append to exported tables.
const DefaultPrepName = " (Variants, filtered)"

// Register wires the main command's flags onto fs.
func Register(fs *pflag.FlagSet) {
	// Input
	fs.StringP("input", "i", "", "directory holding reference FASTA files and variant tables [*]")
	fs.StringP("config", "c", "", "region table CSV (Chromosome_ID, Gene_ID, Region) [*]")

	// Output
	fs.StringP("output", "o", "", "output directory [*]")
	fs.Int("output-width", region.DefaultWidth, "bases per output line")
	fs.String("log-file", "output.log", "diagnostic log, relative to --output")
	fs.Bool("keep-index", false, "keep .fai files created next to the references")
	fs.String("format", "tsv", "status stream on stdout: tsv | jsonl")

	// Performance
	fs.IntP("threads", "t", 0, "worker threads (0=all CPUs)")

	// Misc
	fs.Bool("progress", false, "draw a progress bar on stderr")
	fs.BoolP("quiet", "q", false, "suppress non-essential console warnings")
	fs.Int("failed-exit-code", 0, "exit code when at least one operation failed")
	fs.String("settings", "", "settings file (toml, yaml or json)")
}

// RegisterPrep wires the flags of `ava prep` onto fs.
func RegisterPrep(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "", "directory holding variant tables [*]")
	fs.StringP("name", "n", DefaultPrepName, "substring removed from table file names")
	fs.BoolP("quiet", "q", false, "suppress non-essential console warnings")
}

// RegisterCollect wires the flags of `ava collect` onto fs.
func RegisterCollect(fs *pflag.FlagSet) {
	fs.StringP("input", "i", "", "directory holding ava outputs [*]")
	fs.StringP("output", "o", "", "directory receiving one folder per chromosome and gene [*]")
	fs.BoolP("quiet", "q", false, "suppress non-essential console warnings")
}

// NewViper binds fs to a fresh viper instance. Precedence, highest first:
// explicit flag, AVA_* environment variable, settings file, flag default.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}
	return v, nil
}

func readSettings(v *viper.Viper) error {
	path := v.GetString("settings")
	if path == "" {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("settings %s: %w", path, err)
	}
	return nil
}

// Load resolves Options from v and validates them.
func Load(v *viper.Viper) (Options, error) {
	if err := readSettings(v); err != nil {
		return Options{}, err
	}
	o := Options{
		Input:          v.GetString("input"),
		Config:         v.GetString("config"),
		Output:         v.GetString("output"),
		OutputWidth:    v.GetInt("output-width"),
		LogFile:        v.GetString("log-file"),
		KeepIndex:      v.GetBool("keep-index"),
		Format:         v.GetString("format"),
		Threads:        v.GetInt("threads"),
		Progress:       v.GetBool("progress"),
		Quiet:          v.GetBool("quiet"),
		FailedExitCode: v.GetInt("failed-exit-code"),
		Settings:       v.GetString("settings"),
	}
	return o, Validate(o)
}

// LoadPrep resolves PrepOptions from v.
func LoadPrep(v *viper.Viper) (PrepOptions, error) {
	o := PrepOptions{Input: v.GetString("input"), Name: v.GetString("name"), Quiet: v.GetBool("quiet")}
	switch {
	case o.Input == "":
		return o, errors.New("--input is required")
	case o.Name == "":
		return o, errors.New("--name must not be empty")
	}
	return o, nil
}

// LoadCollect resolves CollectOptions from v.
func LoadCollect(v *viper.Viper) (CollectOptions, error) {
	o := CollectOptions{Input: v.GetString("input"), Output: v.GetString("output"), Quiet: v.GetBool("quiet")}
	switch {
	case o.Input == "":
		return o, errors.New("--input is required")
	case o.Output == "":
		return o, errors.New("--output is required")
	case cliutil.SamePath(o.Input, o.Output):
		return o, errors.New("--output must differ from --input")
	}
	return o, nil
}

// Validate applies the invariants of the main command.
func Validate(o Options) error {
	switch {
	case o.Input == "":
		return errors.New("--input is required")
	case o.Config == "":
		return errors.New("--config is required")
	case o.Output == "":
		return errors.New("--output is required")
	case cliutil.SamePath(o.Input, o.Output):
		return errors.New("--output must differ from --input")
	}
	if !strings.EqualFold(filepath.Ext(o.Config), ".csv") {
		return fmt.Errorf("--config %q is not a .csv file", o.Config)
	}
	if o.Format != "tsv" && o.Format != "jsonl" {
		return fmt.Errorf("--format must be tsv or jsonl, got %q", o.Format)
	}
	if o.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if o.OutputWidth < 1 {
		return errors.New("--output-width must be ≥ 1")
	}
	if o.LogFile == "" {
		return errors.New("--log-file must not be empty")
	}
	if o.FailedExitCode < 0 || o.FailedExitCode > 255 {
		return errors.New("--failed-exit-code must be in 0..255")
	}
	return nil
}
