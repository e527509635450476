// Package config handles TOML run files for the intcode command.
package config

import (
	"errors"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/ezrec/intcode/translate"
)

var f = translate.From

var (
	ErrSourceConflict = errors.New(f("only one of program or source may be set"))
	ErrPhasesMissing  = errors.New(f("amplifier search requires phases"))
)

// ErrKeyUnknown is a run file key that does not map to any setting.
type ErrKeyUnknown string

func (err ErrKeyUnknown) Error() string {
	return f("unknown key '%v'", string(err))
}

// ErrConfig locates a run file failure.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}

// Config represents a run file.
//
//	program = "day09.txt"
//	input = "-"
//
//	[amplifier]
//	phases = [5, 6, 7, 8, 9]
//	feedback = true
//	search = true
type Config struct {
	Program   string    `toml:"program"` // Comma separated program words.
	Source    string    `toml:"source"`  // Assembly source.
	Input     string    `toml:"input"`   // Tape input, "-" for stdin.
	Output    string    `toml:"output"`  // Tape output, "-" for stdout.
	Verbose   bool      `toml:"verbose"`
	Amplifier Amplifier `toml:"amplifier"`

	// Dir is the directory containing the run file (set at load time).
	Dir string `toml:"-"`
}

// Amplifier configures an amplifier ring.
type Amplifier struct {
	Phases   []int64 `toml:"phases"`
	Feedback bool    `toml:"feedback"`
	Search   bool    `toml:"search"`
	Signal   int64   `toml:"signal"`
}

// Load parses a run file. Relative paths in the file are resolved against
// the directory containing it.
func Load(path string) (conf *Config, err error) {
	defer func() {
		if err != nil {
			conf = nil
			err = &ErrConfig{Path: path, Err: err}
		}
	}()

	conf = &Config{}
	meta, err := toml.DecodeFile(path, conf)
	if err != nil {
		return
	}

	if undecoded := meta.Undecoded(); len(undecoded) != 0 {
		err = ErrKeyUnknown(undecoded[0].String())
		return
	}

	if len(conf.Program) != 0 && len(conf.Source) != 0 {
		err = ErrSourceConflict
		return
	}

	if conf.Amplifier.Search && len(conf.Amplifier.Phases) == 0 {
		err = ErrPhasesMissing
		return
	}

	conf.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return
	}

	conf.Program = conf.resolve(conf.Program)
	conf.Source = conf.resolve(conf.Source)
	conf.Input = conf.resolve(conf.Input)
	conf.Output = conf.resolve(conf.Output)

	return
}

// resolve makes name relative to the run file directory. Empty names and
// "-" (standard I/O) are left alone.
func (conf *Config) resolve(name string) string {
	if len(name) == 0 || name == "-" || filepath.IsAbs(name) {
		return name
	}

	return filepath.Join(conf.Dir, name)
}
