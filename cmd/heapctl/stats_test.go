package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStatsCommand(t *testing.T) {
	tests := []struct {
		name           string
		size           string
		noBlocks       bool
		wantErr        bool
		wantContain    []string
		wantNotContain []string
	}{
		{
			name: "default size",
			size: "4096",
			wantContain: []string{
				"HEAP STATS (overhead per node: 40)",
				"total_bytes: 4096",
				"AVAILABLE LIST: {length:   1  bytes:  4096}",
				"{state: a  size:  4056}",
				"USED LIST: {length:   0  bytes:     0}",
			},
		},
		{
			name:        "unit size",
			size:        "8KiB",
			wantContain: []string{"total_bytes: 8192", "{state: a  size:  8152}"},
		},
		{
			name:           "totals only",
			size:           "4096",
			noBlocks:       true,
			wantContain:    []string{"AVAILABLE LIST: {length:   1  bytes:  4096}"},
			wantNotContain: []string{"head @", "foot @"},
		},
		{
			name:    "too small",
			size:    "39",
			wantErr: true,
		},
		{
			name:    "bad size",
			size:    "huge",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags(t, tt.size)
			statsNoBlocks = tt.noBlocks

			output, err := captureOutput(t, func() error {
				return runStats(nil)
			})

			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assertContains(t, output, tt.wantContain)
			assertNotContains(t, output, tt.wantNotContain)
		})
	}
}

func TestStatsCommand_JSON(t *testing.T) {
	resetFlags(t, "4096")
	jsonOut = true

	output, err := captureOutput(t, func() error {
		return runStats(nil)
	})
	require.NoError(t, err)

	result := assertJSON(t, output)
	require.EqualValues(t, 4096, result["total_bytes"])
	require.EqualValues(t, 40, result["overhead"])
	avail := result["available"].(map[string]interface{})
	require.EqualValues(t, 1, avail["length"])
}

func TestStatsCommand_Quiet(t *testing.T) {
	resetFlags(t, "4096")
	quiet = true

	output, err := captureOutput(t, func() error {
		return runStats(nil)
	})
	require.NoError(t, err)
	require.Empty(t, output)
}

func TestFormatHelpers(t *testing.T) {
	require.Equal(t, "16,384", formatNumber(16384))
	require.Equal(t, "999", formatNumber(999))
	require.Equal(t, "4.0 KiB", formatBytes(4096))
	require.Equal(t, "100 B", formatBytes(100))
}

func TestHeapConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("HEAPKIT_SIZE", "1024")
	t.Setenv("HEAPKIT_BASE", "0x610000000000")

	resetFlags(t, "")
	heapBase = ""
	cfg, err := heapConfig()
	require.NoError(t, err)
	require.Equal(t, 1024, cfg.Size)
	require.Equal(t, uintptr(0x610000000000), cfg.BaseAddress)

	heapSize = "2KiB"
	heapBase = "0"
	cfg, err = heapConfig()
	require.NoError(t, err)
	require.Equal(t, 2048, cfg.Size)
	require.Zero(t, cfg.BaseAddress)

	heapBase = "nowhere"
	_, err = heapConfig()
	require.Error(t, err)
}
