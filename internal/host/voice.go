// Package host provides environment-derived defaults for gavpi settings.
package host

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Voice is one synthesis voice reported by speech-dispatcher.
type Voice struct {
	Name     string
	Language string
	Variant  string
}

// SpeechDispatcher reads synthesis voices from `spd-say -L`.
type SpeechDispatcher struct {
	Binary  string
	Timeout time.Duration
	// Fallback is returned by DefaultVoice when no voice can be listed.
	Fallback string
}

// NewSpeechDispatcher returns a provider with a short command timeout.
func NewSpeechDispatcher() SpeechDispatcher {
	return SpeechDispatcher{Binary: "spd-say", Timeout: 2 * time.Second, Fallback: "default"}
}

// DefaultVoice returns the first voice speech-dispatcher lists for the active
// output module, or the fallback name.
func (s SpeechDispatcher) DefaultVoice() string {
	voices, err := s.Voices(context.Background())
	if err != nil || len(voices) == 0 {
		return s.Fallback
	}
	return voices[0].Name
}

// Voices lists the installed synthesis voices.
func (s SpeechDispatcher) Voices(ctx context.Context) ([]Voice, error) {
	binary := s.Binary
	if binary == "" {
		binary = "spd-say"
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	out, err := exec.CommandContext(ctx, binary, "-L").Output()
	if err != nil {
		return nil, fmt.Errorf("list voices with %s: %w", binary, err)
	}
	return parseVoiceList(out), nil
}

// parseVoiceList reads the NAME/LANGUAGE/VARIANT table printed by spd-say -L.
// Voice names may contain spaces, so the last two columns are taken from the
// right.
func parseVoiceList(out []byte) []Voice {
	var voices []Voice
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "NAME" && fields[1] == "LANGUAGE" {
			continue
		}

		switch len(fields) {
		case 1:
			voices = append(voices, Voice{Name: fields[0]})
		case 2:
			voices = append(voices, Voice{Name: fields[0], Language: fields[1]})
		default:
			n := len(fields)
			voices = append(voices, Voice{
				Name:     strings.Join(fields[:n-2], " "),
				Language: fields[n-2],
				Variant:  fields[n-1],
			})
		}
	}
	return voices
}

// FixedVoice is a VoiceProvider that always returns the same name.
type FixedVoice string

// DefaultVoice returns v.
func (v FixedVoice) DefaultVoice() string { return string(v) }
