//go:build arm64

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl performs CPU feature detection on arm64 systems.
//
// On ARMv8 (arm64), Advanced SIMD is mandatory, so HasASIMD should always be true.
func detectFeaturesImpl() Features {
	return Features{
		HasASIMD:     cpu.ARM64.HasASIMD,
		Architecture: runtime.GOARCH,
	}
}
