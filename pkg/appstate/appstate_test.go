package appstate

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultTargetLUFS, s.TargetLUFS())
	assert.Equal(t, DefaultTruePeakLimitDBTP, s.TruePeakLimitDBTP())
	assert.Equal(t, DefaultRadarWindowS, s.RadarWindowS())
}

func TestSubscribeNotifiesOnChange(t *testing.T) {
	s := New()
	var got float64
	calls := 0
	sub := s.Subscribe(KeyTargetLUFS, func(v float64) {
		got = v
		calls++
	})
	defer sub.Unsubscribe()

	s.SetTargetLUFS(-18.0)

	require.Equal(t, 1, calls)
	assert.Equal(t, -18.0, got)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	s := New()
	calls := 0
	sub := s.Subscribe(KeyTargetLUFS, func(float64) { calls++ })
	sub.Unsubscribe()

	s.SetTargetLUFS(-16.0)
	assert.Equal(t, 0, calls)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := New()
	s.SetTargetLUFS(-16.0)
	s.SetTruePeakLimitDBTP(-2.0)
	s.SetRadarWindowS(120.0)
	s.SetTrim("capture_a", 3.5)
	s.SetMonitorLevel("generator", 0.8)
	s.SetGeneratorPreset("glits")

	var buf bytes.Buffer
	require.NoError(t, s.Save(&buf))

	loaded := New()
	require.NoError(t, loaded.Load(&buf))

	assert.Equal(t, -16.0, loaded.TargetLUFS())
	assert.Equal(t, 3.5, loaded.Trim("capture_a"))
	assert.Equal(t, "glits", loaded.GeneratorPreset())
}
