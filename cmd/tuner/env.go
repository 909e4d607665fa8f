package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-tuner/dsp/note"
)

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return def
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(envString(key, ""))
	if err != nil {
		return def
	}
	return v
}

func envFloat(key string, def float64) float64 {
	v, err := strconv.ParseFloat(envString(key, ""), 64)
	if err != nil {
		return def
	}
	return v
}

// parseReference resolves a target given as a note name, a frequency in Hz,
// or "auto". Auto mode returns 0.
func parseReference(s string, a4 float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "auto") {
		return 0, nil
	}

	if hz, err := strconv.ParseFloat(s, 64); err == nil {
		if !(hz > 0) || hz > 1e6 {
			return 0, fmt.Errorf("reference frequency must be positive: %q", s)
		}
		return hz, nil
	}

	n, err := note.Parse(s, a4)
	if err != nil {
		return 0, err
	}

	return n.Frequency, nil
}
