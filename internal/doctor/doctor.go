// Package doctor runs readiness diagnostics for the settings document and the
// host speech environment.
package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rbright/gavpi/internal/audio"
	"github.com/rbright/gavpi/internal/host"
	"github.com/rbright/gavpi/internal/settings"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// VoiceLister enumerates installed synthesis voices.
type VoiceLister interface {
	Voices(ctx context.Context) ([]host.Voice, error)
}

// Inputs is what doctor inspects. Nil probes are skipped.
type Inputs struct {
	Path    string
	Record  settings.Record
	LoadErr error

	Voices          VoiceLister
	RecognizerInput func(ctx context.Context) (audio.Device, error)
	LookPath        func(string) (string, error)
}

// Run executes settings and environment checks.
func Run(ctx context.Context, in Inputs) Report {
	checks := []Check{checkLoad(in.Path, in.LoadErr)}

	if err := settings.Validate(in.Record); err != nil {
		checks = append(checks, Check{Name: "settings.validate", Pass: false, Message: err.Error()})
	} else {
		checks = append(checks, Check{Name: "settings.validate", Pass: true, Message: "record can be saved"})
	}

	checks = append(checks,
		checkRecognizer(in.Record),
		checkPushToTalk(in.Record),
		checkProfile(in.Record),
	)

	lookPath := in.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	checks = append(checks, checkBinary(lookPath, "spd-say", "voice listing uses speech-dispatcher"))

	if in.Voices != nil {
		checks = append(checks, checkVoice(ctx, in.Voices, in.Record.VoiceInfo))
	}
	if in.RecognizerInput != nil {
		checks = append(checks, checkRecognizerInput(ctx, in.RecognizerInput))
	}

	return Report{Checks: checks}
}

func checkLoad(path string, loadErr error) Check {
	if loadErr == nil {
		return Check{Name: "settings.file", Pass: true, Message: fmt.Sprintf("loaded %q", path)}
	}
	if errors.Is(loadErr, settings.ErrFileUnavailable) {
		return Check{Name: "settings.file", Pass: false, Message: fmt.Sprintf("%v (run `gavpi save` to write defaults)", loadErr)}
	}
	return Check{Name: "settings.file", Pass: false, Message: loadErr.Error()}
}

func checkRecognizer(rec settings.Record) Check {
	raw := rec.RecognizerString()
	if raw == "" {
		return Check{Name: settings.FieldRecognizerInfo, Pass: false, Message: "recognizer locale is unset"}
	}
	if _, err := settings.ParseLocale(raw); err != nil {
		return Check{Name: settings.FieldRecognizerInfo, Pass: false, Message: err.Error()}
	}
	return Check{Name: settings.FieldRecognizerInfo, Pass: true, Message: raw}
}

func checkPushToTalk(rec settings.Record) Check {
	if !settings.ValidPushToTalkMode(rec.PushToTalkMode) {
		return Check{
			Name:    settings.FieldPushToTalkMode,
			Pass:    false,
			Message: fmt.Sprintf("%q is not one of %s", rec.PushToTalkMode, strings.Join(settings.PushToTalkModes, ", ")),
		}
	}
	if rec.PushToTalkMode != settings.PushToTalkOff && strings.TrimSpace(rec.PushToTalkKey) == "" {
		return Check{Name: settings.FieldPushToTalkKey, Pass: false, Message: "push-to-talk is enabled without a key"}
	}
	return Check{Name: settings.FieldPushToTalkMode, Pass: true, Message: fmt.Sprintf("%s (key %s)", rec.PushToTalkMode, rec.PushToTalkKey)}
}

func checkProfile(rec settings.Record) Check {
	name, path := rec.DefaultProfileName, rec.DefaultProfileFilepath
	switch {
	case name == "" && path == "":
		return Check{Name: "default_profile", Pass: true, Message: "no default profile"}
	case name == "" || path == "":
		return Check{Name: "default_profile", Pass: false, Message: "default_profile_name and default_profile_filepath must be set together"}
	}
	if _, err := os.Stat(path); err != nil {
		return Check{Name: "default_profile", Pass: false, Message: fmt.Sprintf("profile %q: %v", name, err)}
	}
	return Check{Name: "default_profile", Pass: true, Message: fmt.Sprintf("%s at %s", name, path)}
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(lookPath func(string) (string, error), bin string, okMsg string) Check {
	path, err := lookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkVoice confirms the configured voice is installed. An unreachable
// speech-dispatcher is reported by the spd-say check, not here.
func checkVoice(ctx context.Context, lister VoiceLister, voice string) Check {
	voices, err := lister.Voices(ctx)
	if err != nil {
		return Check{Name: settings.FieldVoiceInfo, Pass: true, Message: fmt.Sprintf("%q not verified: %v", voice, err)}
	}
	for _, v := range voices {
		if strings.EqualFold(v.Name, voice) {
			return Check{Name: settings.FieldVoiceInfo, Pass: true, Message: fmt.Sprintf("%q installed (%s)", v.Name, v.Language)}
		}
	}
	return Check{Name: settings.FieldVoiceInfo, Pass: false, Message: fmt.Sprintf("%q is not among %d installed voices", voice, len(voices))}
}

// checkRecognizerInput runs live source discovery to surface capture issues.
func checkRecognizerInput(ctx context.Context, probe func(context.Context) (audio.Device, error)) Check {
	dev, err := probe(ctx)
	if err != nil {
		return Check{Name: "audio.input", Pass: false, Message: err.Error()}
	}
	return Check{Name: "audio.input", Pass: true, Message: fmt.Sprintf("recognizer listens on %q", dev.ID)}
}
