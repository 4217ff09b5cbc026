package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrNoSound is returned by Play when no sound file is configured.
var ErrNoSound = errors.New("no sound configured")

// Player plays a single configured chime. The decoded sound is kept in
// memory until the path changes.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	path   string
	volume float64 // 0.0 to 1.0
	buffer *beep.Buffer

	// Whether speaker has been initialized
	initialized bool
	sampleRate  beep.SampleRate
}

// NewPlayer creates a new chime player.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{
		logger:     logger,
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
	}
}

// Configure sets the sound file and volume (0-100). Changing the path drops
// the decoded sound so the next Play reloads it.
func (p *Player) Configure(path string, volume int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if path != p.path {
		p.path = path
		p.buffer = nil
	}
	p.volume = min(max(float64(volume)/100.0, 0), 1)
	p.logger.Debug("chime configured", "path", path, "volume", volume)
}

// Volume returns the current volume (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play plays the configured sound without waiting for it to finish.
func (p *Player) Play() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.path == "" {
		return ErrNoSound
	}

	if p.buffer == nil {
		buffer, err := decode(p.path)
		if err != nil {
			return err
		}
		p.buffer = buffer
	}

	if err := p.ensureInitialized(p.buffer.Format().SampleRate); err != nil {
		return err
	}

	var streamer beep.Streamer = p.buffer.Streamer(0, p.buffer.Len())
	if p.buffer.Format().SampleRate != p.sampleRate {
		streamer = beep.Resample(4, p.buffer.Format().SampleRate, p.sampleRate, streamer)
	}
	if p.volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeToDecibels(p.volume),
			Silent:   p.volume == 0,
		}
	}

	speaker.Play(streamer)
	return nil
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	p.buffer = nil
	p.logger.Debug("audio player closed")
}

// ensureInitialized initializes the speaker if not already done.
// Callers hold p.mu.
func (p *Player) ensureInitialized(sampleRate beep.SampleRate) error {
	if p.initialized {
		return nil
	}

	// 100ms keeps latency low without underruns
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	p.sampleRate = sampleRate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

// decode loads and decodes a sound file into a buffer.
func decode(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound %s: %w", path, err)
	}
	defer func() { _ = streamer.Close() }()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// volumeToDecibels converts a linear volume (0-1) to decibels.
func volumeToDecibels(volume float64) float64 {
	if volume <= 0 {
		return -100
	}
	// 0.5 = -6dB, 0.25 = -12dB
	return 20 * math.Log10(volume)
}
