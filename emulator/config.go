package emulator

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
)

// Config holds the settings for a run, as read from a TOML file.
//
//	memory_size = 256
//	limit = 1000
//	verbose = false
//	input = "input.txt"
type Config struct {
	MemorySize int    `toml:"memory_size"` // Data memory size in words.
	Limit      int    `toml:"limit"`       // Watchdog instruction limit.
	Verbose    bool   `toml:"verbose"`     // Per-tick trace logging.
	Input      string `toml:"input"`       // Input tape file, "-" for stdin.
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		MemorySize: MEMORY_SIZE,
		Limit:      INSTRUCTION_LIMIT,
	}
}

// DecodeConfig reads TOML settings over the defaults. Unknown keys are an
// error.
func DecodeConfig(in io.Reader) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.NewDecoder(in).Decode(&cfg)
	if err != nil {
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		err = fmt.Errorf("%w: %v", ErrConfigKey, undecoded[0])
	}

	return
}

// LoadConfig reads TOML settings from a file.
func LoadConfig(filename string) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.DecodeFile(filename, &cfg)
	if err != nil {
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		err = fmt.Errorf("%w: %v", ErrConfigKey, undecoded[0])
	}

	return
}

// Apply copies the settings to an emulator.
func (cfg Config) Apply(emu *Emulator) {
	emu.MemorySize = cfg.MemorySize
	emu.Limit = cfg.Limit
	emu.Verbose = cfg.Verbose
}
