package main

import (
	"testing"

	"github.com/wavefield/stereometer/pkg/generator"
)

func TestBuildPresetMapsEachFlagValue(t *testing.T) {
	cases := map[string]generator.PresetType{
		"sine":       generator.PresetSine,
		"pink":       generator.PresetPink,
		"white":      generator.PresetWhite,
		"brown":      generator.PresetBrown,
		"sweep":      generator.PresetSweep,
		"glits":      generator.PresetGLITS,
		"lissajous":  generator.PresetLissajous,
		"vectortext": generator.PresetVectorText,
	}

	for name, want := range cases {
		c := &CLI{Preset: name, SampleRate: 48000, FreqHz: 1000, LevelDBFS: -18}
		got := buildPreset(c)
		if got.Type != want {
			t.Errorf("preset %q: got type %v, want %v", name, got.Type, want)
		}
	}
}

func TestBuildPresetCarriesFrequencyAndLevel(t *testing.T) {
	c := &CLI{Preset: "sine", FreqHz: 997, LevelDBFS: -20}
	p := buildPreset(c)
	if p.FreqHz != 997 || p.LevelDBFS != -20 {
		t.Errorf("expected frequency/level to pass through, got %+v", p)
	}
}
