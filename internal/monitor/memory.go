package monitor

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessMemory reports the resident set size of the current process. It
// falls back to Go heap statistics when the platform probe fails.
func ProcessMemory(ctx context.Context) (uint64, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err == nil {
		info, infoErr := p.MemoryInfoWithContext(ctx)
		if infoErr == nil && info != nil {
			return info.RSS, nil
		}
		err = infoErr
	}

	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	if stats.Sys == 0 {
		return 0, fmt.Errorf("failed to read process memory: %w", err)
	}
	return stats.Sys, nil
}

// FormatBytes renders a byte count with binary units, e.g. "1.5 MiB".
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
