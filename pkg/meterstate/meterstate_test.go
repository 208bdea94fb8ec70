package meterstate

import "testing"

func TestClassifyLoudnessBands(t *testing.T) {
	cases := []struct {
		lufs, target float64
		want         LoudnessColour
	}{
		{-23, -23, ColourGreen},
		{-22.5, -23, ColourGreen},
		{-25, -23, ColourCyan},
		{-20.5, -23, ColourAmber},
		{-19, -23, ColourRed},
	}
	for _, c := range cases {
		if got := ClassifyLoudness(c.lufs, c.target); got != c.want {
			t.Errorf("ClassifyLoudness(%v, %v) = %v, want %v", c.lufs, c.target, got, c.want)
		}
	}
}

func TestFormatLUFSSentinelWhenNotReady(t *testing.T) {
	if got := FormatLUFS(-23, false); got != "--.- LUFS" {
		t.Errorf("FormatLUFS not ready = %q, want sentinel", got)
	}
	if got := FormatLUFS(-23, true); got != "-23.0 LUFS" {
		t.Errorf("FormatLUFS ready = %q, want -23.0 LUFS", got)
	}
}

func TestFormatPPMDBuSentinelWhenSilent(t *testing.T) {
	if got := FormatPPMDBu(0, true); got != SilenceSentinel {
		t.Errorf("FormatPPMDBu silent = %q, want sentinel", got)
	}
}
