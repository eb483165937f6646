package heap

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
)

const (
	// DefaultSize is the number of bytes reserved when no size is configured.
	DefaultSize = 4096

	// DefaultBaseAddress is the preferred address of the heap region.
	DefaultBaseAddress = uintptr(0x600000000000)

	// EnvSize overrides Config.Size in ConfigFromEnv. Decimal or 0x-prefixed hex.
	EnvSize = "HEAPKIT_SIZE"

	// EnvBase overrides Config.BaseAddress in ConfigFromEnv. "0" lets the OS choose.
	EnvBase = "HEAPKIT_BASE"
)

// Config controls heap bootstrap.
type Config struct {
	// Size is the total number of bytes to reserve, block overhead included.
	Size int

	// BaseAddress is the required address of the first heap byte.
	// Zero lets the operating system place the region.
	BaseAddress uintptr

	// Logger receives debug records for bootstrap, teardown, splits and merges.
	// Nil selects logger.FromEnv().
	Logger *slog.Logger
}

// DefaultConfig returns the build-time heap configuration.
func DefaultConfig() Config {
	return Config{
		Size:        DefaultSize,
		BaseAddress: DefaultBaseAddress,
	}
}

// ConfigFromEnv returns DefaultConfig with EnvSize and EnvBase applied.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if v, ok := os.LookupEnv(EnvSize); ok && v != "" {
		n, err := strconv.ParseInt(v, 0, 0)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q: %w", ErrBadConfig, EnvSize, v, err)
		}
		cfg.Size = int(n)
	}
	if v, ok := os.LookupEnv(EnvBase); ok && v != "" {
		addr, err := ParseAddress(v)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q: %w", ErrBadConfig, EnvBase, v, err)
		}
		cfg.BaseAddress = addr
	}
	return cfg, nil
}

// ParseAddress parses a base address written in decimal or with a 0x prefix.
func ParseAddress(s string) (uintptr, error) {
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return uintptr(v), nil
}
