//go:build unix

package debug

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// residentSetSize returns the peak resident set size in bytes.
func residentSetSize() (uint64, error) {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0, err
	}
	maxrss := uint64(ru.Maxrss)
	if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
		return maxrss, nil // bytes
	}
	return maxrss * 1024, nil // kilobytes
}
