//go:build amd64

package cpu

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// detectFeaturesImpl performs CPU feature detection on amd64 systems.
//
// POPCNT is not part of the x86-64 baseline, so it is read from CPUID through
// golang.org/x/sys/cpu.
func detectFeaturesImpl() Features {
	return Features{
		HasPOPCNT:    cpu.X86.HasPOPCNT,
		Architecture: runtime.GOARCH,
	}
}
