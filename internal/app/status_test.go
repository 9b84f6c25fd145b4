package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadinessFor(t *testing.T) {
	cases := []struct {
		pct  float64
		want Readiness
	}{
		{100, ReadinessReady},
		{90, ReadinessReady},
		{89.9, ReadinessOnTrack},
		{70, ReadinessOnTrack},
		{62.5, ReadinessAtRisk},
		{40, ReadinessAtRisk},
		{0, ReadinessCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ReadinessFor(tc.pct), "pct=%v", tc.pct)
	}
}
