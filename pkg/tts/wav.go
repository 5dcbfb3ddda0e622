package tts

import (
	"encoding/binary"
	"fmt"
	"math"
)

// WavInfo is what the synthesis endpoints report about a generated clip.
type WavInfo struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
	Frames        int
}

// Duration returns the clip length in seconds, rounded to 2 decimals.
func (w WavInfo) Duration() float64 {
	if w.SampleRate <= 0 {
		return 0
	}
	d := float64(w.Frames) / float64(w.SampleRate)
	return math.Round(d*100) / 100
}

// ParseWav walks the RIFF chunks of a WAV payload and extracts the format
// and frame count. It only reads headers; samples are never decoded.
func ParseWav(data []byte) (*WavInfo, error) {
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("not a RIFF/WAVE payload")
	}

	info := &WavInfo{}
	var haveFmt, haveData bool

	offset := 12
	for offset+8 <= len(data) {
		chunkID := string(data[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(data[offset+4 : offset+8]))
		body := offset + 8

		switch chunkID {
		case "fmt ":
			if body+16 > len(data) {
				return nil, fmt.Errorf("truncated fmt chunk")
			}
			info.Channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			info.SampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			info.BitsPerSample = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			if !haveFmt {
				return nil, fmt.Errorf("data chunk before fmt chunk")
			}
			bytesPerFrame := info.Channels * info.BitsPerSample / 8
			if bytesPerFrame <= 0 {
				return nil, fmt.Errorf("invalid frame size")
			}
			if body+chunkSize > len(data) {
				chunkSize = len(data) - body
			}
			info.Frames = chunkSize / bytesPerFrame
			haveData = true
		}

		// Chunks are word-aligned.
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
		if haveFmt && haveData {
			break
		}
	}

	if !haveFmt || !haveData {
		return nil, fmt.Errorf("missing fmt or data chunk")
	}
	return info, nil
}
