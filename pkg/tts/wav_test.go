package tts

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildWav assembles a minimal canonical WAV file with silent samples.
func buildWav(t *testing.T, sampleRate, channels, bitsPerSample, frames int) []byte {
	t.Helper()

	bytesPerFrame := channels * bitsPerSample / 8
	dataSize := frames * bytesPerFrame

	buf := make([]byte, 0, 44+dataSize)
	u32 := func(v int) []byte {
		b := make([]byte, 4)
		binary.LittleEndian.PutUint32(b, uint32(v))
		return b
	}
	u16 := func(v int) []byte {
		b := make([]byte, 2)
		binary.LittleEndian.PutUint16(b, uint16(v))
		return b
	}

	buf = append(buf, []byte("RIFF")...)
	buf = append(buf, u32(36+dataSize)...)
	buf = append(buf, []byte("WAVE")...)
	buf = append(buf, []byte("fmt ")...)
	buf = append(buf, u32(16)...)
	buf = append(buf, u16(1)...) // PCM
	buf = append(buf, u16(channels)...)
	buf = append(buf, u32(sampleRate)...)
	buf = append(buf, u32(sampleRate*bytesPerFrame)...)
	buf = append(buf, u16(bytesPerFrame)...)
	buf = append(buf, u16(bitsPerSample)...)
	buf = append(buf, []byte("data")...)
	buf = append(buf, u32(dataSize)...)
	buf = append(buf, make([]byte, dataSize)...)
	return buf
}

func TestParseWav(t *testing.T) {
	data := buildWav(t, 22050, 1, 16, 44100)

	info, err := ParseWav(data)
	require.NoError(t, err)

	assert.Equal(t, 22050, info.SampleRate)
	assert.Equal(t, 1, info.Channels)
	assert.Equal(t, 16, info.BitsPerSample)
	assert.Equal(t, 44100, info.Frames)
	assert.InDelta(t, 2.0, info.Duration(), 1e-9)
}

func TestParseWav_Stereo(t *testing.T) {
	data := buildWav(t, 48000, 2, 16, 24000)

	info, err := ParseWav(data)
	require.NoError(t, err)
	assert.Equal(t, 24000, info.Frames)
	assert.InDelta(t, 0.5, info.Duration(), 1e-9)
}

func TestParseWav_DurationRounding(t *testing.T) {
	// 11037 frames at 22050 Hz is 0.50054...s, reported as 0.5.
	data := buildWav(t, 22050, 1, 16, 11037)

	info, err := ParseWav(data)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, info.Duration(), 1e-9)
}

func TestParseWav_NotWav(t *testing.T) {
	_, err := ParseWav([]byte("definitely not audio"))
	assert.Error(t, err)

	_, err = ParseWav(nil)
	assert.Error(t, err)
}

func TestParseWav_TruncatedData(t *testing.T) {
	data := buildWav(t, 22050, 1, 16, 1000)
	// Chop half the sample data off; frame count follows the real bytes.
	data = data[:len(data)-1000]

	info, err := ParseWav(data)
	require.NoError(t, err)
	assert.Equal(t, 500, info.Frames)
}
