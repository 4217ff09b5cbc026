package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSilentWAV(t *testing.T, samples int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chime.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	format := beep.Format{SampleRate: 22050, NumChannels: 2, Precision: 2}
	require.NoError(t, wav.Encode(f, generators.Silence(samples), format))
	return path
}

func TestDecodeWAV(t *testing.T) {
	path := writeSilentWAV(t, 2205)

	buffer, err := decode(path)
	require.NoError(t, err)
	assert.Equal(t, 2205, buffer.Len())
	assert.Equal(t, beep.SampleRate(22050), buffer.Format().SampleRate)
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "chime.txt")
	require.NoError(t, os.WriteFile(txt, []byte("not audio"), 0644))
	garbage := filepath.Join(dir, "broken.wav")
	require.NoError(t, os.WriteFile(garbage, []byte("not audio"), 0644))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.wav")},
		{"unsupported extension", txt},
		{"corrupt wav", garbage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(tt.path)
			assert.Error(t, err)
		})
	}
}

func TestPlayWithoutSound(t *testing.T) {
	p := NewPlayer(nil)
	assert.ErrorIs(t, p.Play(), ErrNoSound)
}

func TestPlayMissingFile(t *testing.T) {
	p := NewPlayer(nil)
	p.Configure(filepath.Join(t.TempDir(), "missing.ogg"), 50)
	assert.Error(t, p.Play())
}

func TestConfigureClampsVolume(t *testing.T) {
	p := NewPlayer(nil)

	p.Configure("", 40)
	assert.InDelta(t, 0.4, p.Volume(), 1e-9)

	p.Configure("", 250)
	assert.Equal(t, 1.0, p.Volume())

	p.Configure("", -5)
	assert.Equal(t, 0.0, p.Volume())
}

func TestVolumeToDecibels(t *testing.T) {
	assert.Equal(t, -100.0, volumeToDecibels(0))
	assert.InDelta(t, 0.0, volumeToDecibels(1), 1e-9)
	assert.InDelta(t, -6.02, volumeToDecibels(0.5), 0.01)
	assert.InDelta(t, -12.04, volumeToDecibels(0.25), 0.01)
}
