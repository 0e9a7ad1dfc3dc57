package frontend

import (
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// ringBufferCapacity is ~167ms at 48kHz stereo 16-bit.
const ringBufferCapacity = 32768

// AudioPlayer plays int16 stereo samples through oto. Samples go into a
// ring buffer that oto's player pulls from.
type AudioPlayer struct {
	player     *oto.Player
	ringBuffer *AudioRingBuffer
	audioBytes []byte

	mu     sync.Mutex
	volume float64
	muted  bool
}

// oto allows one context per process.
var (
	otoCtx      *oto.Context
	otoInitOnce sync.Once
	otoInitErr  error
)

func ensureOtoContext(sampleRate int) (*oto.Context, error) {
	otoInitOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   50 * time.Millisecond,
		}
		var readyChan chan struct{}
		otoCtx, readyChan, otoInitErr = oto.NewContext(op)
		if otoInitErr != nil {
			return
		}
		<-readyChan
	})
	return otoCtx, otoInitErr
}

// NewAudioPlayer starts playback at the core's sample rate. The volume is
// applied before Play to avoid a pop when starting muted.
func NewAudioPlayer(sampleRate int, volume float64, muted bool) (*AudioPlayer, error) {
	ctx, err := ensureOtoContext(sampleRate)
	if err != nil {
		return nil, fmt.Errorf("oto audio not available: %w", err)
	}

	rb := NewAudioRingBuffer(ringBufferCapacity)
	player := ctx.NewPlayer(rb)
	// ~50ms keeps the pacing loop from over-correcting at startup.
	player.SetBufferSize(19200)

	a := &AudioPlayer{
		player:     player,
		ringBuffer: rb,
		audioBytes: make([]byte, 0, 4096),
		volume:     clampVolume(volume),
		muted:      muted,
	}
	a.apply()
	player.Play()
	return a, nil
}

// QueueSamples converts int16 stereo samples to little-endian bytes and
// queues them.
func (a *AudioPlayer) QueueSamples(samples []int16) {
	if len(samples) == 0 {
		return
	}

	needed := len(samples) * 2
	if cap(a.audioBytes) < needed {
		a.audioBytes = make([]byte, 0, needed)
	}
	a.audioBytes = a.audioBytes[:0]
	for _, sample := range samples {
		a.audioBytes = append(a.audioBytes, byte(sample), byte(sample>>8))
	}

	a.ringBuffer.Write(a.audioBytes)
}

// GetBufferLevel returns the bytes buffered in the ring buffer and inside
// the oto player.
func (a *AudioPlayer) GetBufferLevel() int {
	return a.ringBuffer.Buffered() + a.player.BufferedSize()
}

// ClearQueue drops buffered audio.
func (a *AudioPlayer) ClearQueue() {
	a.ringBuffer.Clear()
}

// SetVolume sets the volume, clamped to [0.0, 2.0].
func (a *AudioPlayer) SetVolume(vol float64) {
	a.mu.Lock()
	a.volume = clampVolume(vol)
	a.mu.Unlock()
	a.apply()
}

// SetMuted silences output without losing the volume. The slot picker mutes
// while a preview frame runs.
func (a *AudioPlayer) SetMuted(muted bool) {
	a.mu.Lock()
	a.muted = muted
	a.mu.Unlock()
	if muted {
		a.ClearQueue()
	}
	a.apply()
}

func (a *AudioPlayer) apply() {
	a.mu.Lock()
	vol := a.volume
	if a.muted {
		vol = 0
	}
	a.mu.Unlock()
	a.player.SetVolume(vol)
}

// Close stops playback.
func (a *AudioPlayer) Close() {
	if a.ringBuffer != nil {
		a.ringBuffer.Close()
	}
	if a.player != nil {
		a.player.Close()
	}
}

func clampVolume(vol float64) float64 {
	return max(0, min(vol, 2.0))
}
