// Package tts turns text into WAV audio through an external Piper voice
// process. The voice model itself is opaque; this package only runs the
// binary and inspects the WAV it produces.
package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// MaxTextLength bounds a single synthesis request.
const MaxTextLength = 5000

// ErrInvalidText marks empty or oversized synthesis input.
var ErrInvalidText = fmt.Errorf("tts: invalid text")

// Synthesizer produces WAV audio for a piece of text.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	SampleRate() int
	Ready() bool
}

// PiperConfig locates the piper binary and voice model.
type PiperConfig struct {
	BinaryPath string // defaults to "piper" on PATH
	ModelPath  string // .onnx voice model, required
	SampleRate int    // reported sample rate of the voice, defaults to 22050
}

// Piper shells out to the piper binary, streaming WAV to stdout.
type Piper struct {
	binary     string
	modelPath  string
	sampleRate int

	// run is swapped out in tests.
	run func(ctx context.Context, name string, args []string, stdin string) ([]byte, error)
}

// NewPiper validates the voice model path and returns a Piper.
func NewPiper(cfg PiperConfig) (*Piper, error) {
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("piper voice model path is required")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("piper voice model not found: %w", err)
	}

	binary := cfg.BinaryPath
	if binary == "" {
		binary = "piper"
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 22050
	}

	p := &Piper{
		binary:     binary,
		modelPath:  cfg.ModelPath,
		sampleRate: sampleRate,
		run:        runCommand,
	}

	log.Info().Str("model", cfg.ModelPath).Msg("Piper voice loaded")
	return p, nil
}

// Synthesize renders text to WAV bytes.
func (p *Piper) Synthesize(ctx context.Context, text string) ([]byte, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: text is empty", ErrInvalidText)
	}
	if len(text) > MaxTextLength {
		return nil, fmt.Errorf("%w: text exceeds %d characters", ErrInvalidText, MaxTextLength)
	}

	args := []string{"--model", p.modelPath, "--output_file", "-"}
	audio, err := p.run(ctx, p.binary, args, trimmed)
	if err != nil {
		return nil, fmt.Errorf("piper synthesis failed: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("piper produced no audio")
	}

	log.Debug().Int("bytes", len(audio)).Int("text_length", len(text)).Msg("Synthesis complete")
	return audio, nil
}

// SampleRate returns the voice sample rate.
func (p *Piper) SampleRate() int {
	return p.sampleRate
}

// Ready reports whether the configured voice model is still present.
func (p *Piper) Ready() bool {
	_, err := os.Stat(p.modelPath)
	return err == nil
}

func runCommand(ctx context.Context, name string, args []string, stdin string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = strings.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("%w: %s", err, detail)
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}
