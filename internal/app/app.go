// Package app dispatches gavpi commands against the settings store.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/rbright/gavpi/internal/audio"
	"github.com/rbright/gavpi/internal/cli"
	"github.com/rbright/gavpi/internal/doctor"
	"github.com/rbright/gavpi/internal/host"
	"github.com/rbright/gavpi/internal/logging"
	"github.com/rbright/gavpi/internal/prompt"
	"github.com/rbright/gavpi/internal/settings"
	"github.com/rbright/gavpi/internal/version"
	"github.com/rbright/gavpi/internal/watch"
)

// VoiceSource names the default voice and lists installed voices.
type VoiceSource interface {
	settings.VoiceProvider
	doctor.VoiceLister
}

type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Host collaborators; nil selects the live implementations.
	Voices          VoiceSource
	Locales         settings.LocaleProvider
	RecognizerInput func(context.Context) (audio.Device, error)
}

func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r := Runner{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("gavpi"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("gavpi"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	path, err := settings.ResolvePath(parsed.SettingsPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if parsed.Command == cli.CommandPath {
		fmt.Fprintln(r.Stdout, path)
		return 0
	}

	level := slog.LevelInfo
	if parsed.Debug {
		level = slog.LevelDebug
	}
	logRuntime, err := logging.New(level)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}
	logger.Info("command start", "command", parsed.Command, "settings", path, "log", logRuntime.Path)

	s := r.openStore(parsed, path, logger)

	switch parsed.Command {
	case cli.CommandShow:
		r.printRecord(s.store.Record())
		return 0
	case cli.CommandGet:
		value, err := s.store.Get(parsed.Args[0])
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		fmt.Fprintln(r.Stdout, value)
		return 0
	case cli.CommandSet:
		return r.commandSet(s.store, parsed.Args[0], parsed.Args[1])
	case cli.CommandUnset:
		return r.commandUnset(s.store, parsed.Args[0])
	case cli.CommandSave:
		return r.save(s.store)
	case cli.CommandReset:
		s.store.Reset()
		return r.save(s.store)
	case cli.CommandValidate:
		return r.commandValidate(s)
	case cli.CommandVoices:
		return r.commandVoices(ctx, s.store.Record().VoiceInfo)
	case cli.CommandDoctor:
		report := doctor.Run(ctx, doctor.Inputs{
			Path:            path,
			Record:          s.store.Record(),
			LoadErr:         s.loadErr,
			Voices:          r.voices(),
			RecognizerInput: r.recognizerInput(),
		})
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandWatch:
		return r.commandWatch(ctx, s.store, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

type openedStore struct {
	store   *settings.Store
	loadErr error
}

// openStore constructs the store with the decider the command calls for and
// remembers the construction-time load error.
func (r Runner) openStore(parsed cli.Parsed, path string, logger *slog.Logger) *openedStore {
	terminal := prompt.NewTerminal(r.stdin(), r.Stderr)

	var decider settings.Decider = terminal
	switch {
	case parsed.Command == cli.CommandDoctor:
		// doctor reports the load error itself.
		decider = prompt.Fixed{Answer: false}
	case parsed.Command == cli.CommandWatch:
		// watch prints reload failures itself.
		decider = prompt.Fixed{Answer: false}
	case parsed.Command == cli.CommandReset:
		decider = prompt.Fixed{Answer: false, Out: r.Stderr}
	case parsed.Restore == cli.RestoreYes:
		decider = prompt.Fixed{Answer: true, Out: r.Stderr}
	case parsed.Restore == cli.RestoreNo:
		decider = prompt.Fixed{Answer: false, Out: r.Stderr}
	}

	var notifier settings.Notifier = terminal
	if parsed.Desktop {
		notifier = prompt.NewDesktop(terminal)
	}

	opened := &openedStore{}
	opened.store = settings.New(settings.Options{
		Path:    path,
		Voices:  r.voices(),
		Locales: r.locales(),
		Decider: settings.DeciderFunc(func(err error) bool {
			opened.loadErr = err
			return decider.RestoreDefaults(err)
		}),
		Notifier: notifier,
		Logger:   logger,
	})
	return opened
}

func (r Runner) commandSet(store *settings.Store, field, value string) int {
	if err := store.Set(field, value); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return r.save(store)
}

func (r Runner) commandUnset(store *settings.Store, field string) int {
	if field != settings.FieldDefaultProfileName && field != settings.FieldDefaultProfileFilepath {
		fmt.Fprintf(r.Stderr, "error: only %s and %s can be unset\n", settings.FieldDefaultProfileName, settings.FieldDefaultProfileFilepath)
		return 1
	}
	return r.commandSet(store, field, "")
}

// save writes the store. The notifier has already shown any failure.
func (r Runner) save(store *settings.Store) int {
	if err := store.Save(); err != nil {
		return 1
	}
	fmt.Fprintf(r.Stdout, "saved %s\n", store.Path())
	return 0
}

func (r Runner) commandValidate(s *openedStore) int {
	if s.loadErr != nil {
		fmt.Fprintf(r.Stdout, "invalid: %v\n", s.loadErr)
		return 1
	}
	if err := s.store.Validate(); err != nil {
		fmt.Fprintf(r.Stdout, "invalid: %v\n", err)
		return 1
	}
	fmt.Fprintln(r.Stdout, "valid")
	return 0
}

func (r Runner) commandVoices(ctx context.Context, current string) int {
	voices, err := r.voices().Voices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(voices) == 0 {
		fmt.Fprintln(r.Stdout, "no synthesis voices found")
		return 1
	}

	for _, voice := range voices {
		mark := " "
		if voice.Name == current {
			mark = "*"
		}
		fmt.Fprintf(r.Stdout, "%s %s | language=%s | variant=%s\n", mark, voice.Name, voice.Language, voice.Variant)
	}
	return 0
}

func (r Runner) commandWatch(ctx context.Context, store *settings.Store, logger *slog.Logger) int {
	r.printRecord(store.Record())
	err := watch.Run(ctx, store, watch.DefaultDebounce, func(rec settings.Record, loadErr error) {
		if loadErr != nil {
			fmt.Fprintf(r.Stderr, "reload failed: %v\n", loadErr)
			return
		}
		logger.Info("settings reloaded", "path", store.Path())
		fmt.Fprintln(r.Stdout, "---")
		r.printRecord(rec)
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func (r Runner) printRecord(rec settings.Record) {
	for _, attr := range rec.Attributes() {
		fmt.Fprintf(r.Stdout, "%s = %q\n", attr[0], attr[1])
	}
}

func (r Runner) stdin() io.Reader {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r Runner) voices() VoiceSource {
	if r.Voices != nil {
		return r.Voices
	}
	return host.NewSpeechDispatcher()
}

func (r Runner) locales() settings.LocaleProvider {
	if r.Locales != nil {
		return r.Locales
	}
	return host.EnvLocale{}
}

func (r Runner) recognizerInput() func(context.Context) (audio.Device, error) {
	if r.RecognizerInput != nil {
		return r.RecognizerInput
	}
	return audio.RecognizerInput
}
