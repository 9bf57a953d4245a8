package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamAll(s beep.Streamer) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 256)
	for {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok || n == 0 {
			return out
		}
	}
}

func TestTone_LengthAndRange(t *testing.T) {
	rate := beep.SampleRate(44100)
	samples := streamAll(NewTone(440, 100*time.Millisecond, rate))

	require.Len(t, samples, rate.N(100*time.Millisecond))
	for i, s := range samples {
		assert.InDelta(t, 0, s[0], 1.0, "sample %d", i)
		assert.Equal(t, s[0], s[1], "mono on both channels")
	}
}

func TestEnvelope_FadesInAndOut(t *testing.T) {
	rate := beep.SampleRate(44100)
	duration := 40 * time.Millisecond
	samples := streamAll(NewEnvelope(NewTone(440, duration, rate), duration, 5*time.Millisecond, 20*time.Millisecond, rate))

	require.NotEmpty(t, samples)
	assert.Equal(t, 0.0, samples[0][0], "attack starts silent")

	last := samples[len(samples)-1][0]
	assert.InDelta(t, 0, last, 0.01, "release ends near silence")
}

func TestCue_Streamers(t *testing.T) {
	rate := beep.SampleRate(44100)

	want := map[Cue]int{
		CueEnter: rate.N(blipDuration),
		CueLeave: rate.N(blipDuration),
		CueClose: 2 * rate.N(closeDuration),
	}
	for c, n := range want {
		s := c.Streamer(rate)
		require.NotNil(t, s)
		assert.Equal(t, n, len(streamAll(s)), "cue %d", c)
	}
	assert.Nil(t, Cue(99).Streamer(rate))
}

func TestPlayer_SilentUntilInit(t *testing.T) {
	p := NewPlayer()
	// None of these touch the speaker before Init
	p.Enter()
	p.Leave()
	p.Farewell()
	p.Close()
}
