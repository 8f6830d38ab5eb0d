package version

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseISOTime(t *testing.T) {
	tests := []struct {
		input    string
		expected time.Time
	}{
		{"2025-03-01T10:20:30Z", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2025-03-01T10:20:30", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"2025-03-01 10:20:30", time.Date(2025, 3, 1, 10, 20, 30, 0, time.UTC)},
		{"unknown", time.Time{}},
		{"", time.Time{}},
		{"yesterday", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.True(t, tt.expected.Equal(parseISOTime(tt.input)))
		})
	}
}

func TestBuildInfoString(t *testing.T) {
	info := &BuildInfo{Version: "3.4.1", GitCommit: "abcdef0123456"}
	assert.Equal(t, "3.4.1 (abcdef0)", info.String())

	info.Dirty = true
	assert.Equal(t, "3.4.1 (abcdef0) (dirty)", info.String())

	info = &BuildInfo{Version: "3.4.1", GitCommit: "unknown"}
	assert.Equal(t, "3.4.1", info.String())
	assert.Empty(t, info.ShortCommit())
}

func TestGetBuildInfo(t *testing.T) {
	oldCommit, oldTime := GitCommit, BuildTime
	t.Cleanup(func() { GitCommit, BuildTime = oldCommit, oldTime })

	GitCommit = "1234567890"
	BuildTime = "2025-01-02T03:04:05Z"

	info := GetBuildInfo("3.0.0")

	assert.Equal(t, "3.0.0", info.Version)
	assert.Equal(t, "1234567890", info.GitCommit)
	assert.Equal(t, 2025, info.BuildTime.Year())
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)

	detailed := info.Detailed()
	assert.Contains(t, detailed, "Version: 3.0.0")
	assert.Contains(t, detailed, "Commit: 1234567890")
	assert.Contains(t, detailed, "Built: 2025-01-02T03:04:05Z")
}
