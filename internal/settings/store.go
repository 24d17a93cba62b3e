package settings

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
)

// Decider answers whether current in-memory values should be written back
// after a failed load.
type Decider interface {
	RestoreDefaults(err error) bool
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(err error) bool

// RestoreDefaults calls f(err).
func (f DeciderFunc) RestoreDefaults(err error) bool { return f(err) }

// Notifier displays a message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify calls f(message).
func (f NotifierFunc) Notify(message string) { f(message) }

// Options wires a Store to its collaborators. Nil collaborators are replaced
// with fallbacks: the decider answers no and the notifier discards.
type Options struct {
	Path     string
	Voices   VoiceProvider
	Locales  LocaleProvider
	Decider  Decider
	Notifier Notifier
	Logger   *slog.Logger
}

// Store holds the settings record and persists it to a settings document.
//
// A Store is not safe for concurrent use; callers serialize Load, Save, and
// mutation themselves.
type Store struct {
	path     string
	defaults Record
	record   Record
	decider  Decider
	notifier Notifier
	logger   *slog.Logger
}

// New builds a Store populated with host defaults and immediately overlays the
// document at opts.Path. Load failures are routed to the decider and never
// fail construction.
func New(opts Options) *Store {
	s := &Store{
		path:     opts.Path,
		decider:  opts.Decider,
		notifier: opts.Notifier,
		logger:   opts.Logger,
	}
	if s.path == "" {
		s.path = DefaultFilename
	}
	if s.decider == nil {
		s.decider = DeciderFunc(func(error) bool { return false })
	}
	if s.notifier == nil {
		s.notifier = NotifierFunc(func(string) {})
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.defaults = Defaults(opts.Voices, opts.Locales)
	s.record = s.defaults
	_ = s.Load()
	return s
}

// Path returns the document path used by Load and Save.
func (s *Store) Path() string { return s.path }

// Record returns a copy of the current settings.
func (s *Store) Record() Record { return s.record }

// Defaults returns the host-derived defaults computed at construction.
func (s *Store) Defaults() Record { return s.defaults }

// Update applies a host edit to the in-memory record.
func (s *Store) Update(mutate func(*Record)) {
	mutate(&s.record)
}

// Reset replaces the in-memory record with the construction defaults.
func (s *Store) Reset() {
	s.record = s.defaults
}

// Validate reports whether the current record may be saved.
func (s *Store) Validate() error {
	return Validate(s.record)
}

// Get returns one field by attribute name.
func (s *Store) Get(field string) (string, error) {
	return s.record.Value(field)
}

// Set assigns one field by attribute name. An empty value clears the field.
// Values must be representable in XML, push-to-talk modes must come from
// PushToTalkModes, and recognizer locales must parse.
func (s *Store) Set(field, value string) error {
	if err := checkText(value); err != nil {
		return &Error{Kind: KindInvalidValue, Detail: field, Err: err}
	}
	switch field {
	case FieldDefaultProfileName:
		s.record.DefaultProfileName = value
	case FieldDefaultProfileFilepath:
		s.record.DefaultProfileFilepath = value
	case FieldVoiceInfo:
		s.record.VoiceInfo = value
	case FieldPushToTalkMode:
		if value != "" && !ValidPushToTalkMode(value) {
			return &Error{Kind: KindInvalidValue, Detail: fmt.Sprintf("%s %q is not one of %v", field, value, PushToTalkModes)}
		}
		s.record.PushToTalkMode = value
	case FieldPushToTalkKey:
		s.record.PushToTalkKey = value
	case FieldRecognizerInfo:
		if value == "" {
			s.record.RecognizerInfo = language.Und
			return nil
		}
		tag, err := ParseLocale(value)
		if err != nil {
			return &Error{Kind: KindInvalidLocale, Detail: value, Err: err}
		}
		s.record.RecognizerInfo = tag
	default:
		return &Error{Kind: KindUnknownField, Detail: field}
	}
	return nil
}

// Load overlays the document at the store path. See LoadFile.
func (s *Store) Load() error {
	return s.LoadFile(s.path)
}

// LoadFile overlays non-empty attributes from the document at path onto the
// in-memory record. On failure the decider is asked whether to persist the
// current values; a yes triggers SaveFile(path). The load error is returned
// either way.
func (s *Store) LoadFile(path string) error {
	err := s.overlay(path)
	if err == nil {
		s.logger.Info("settings loaded", "path", path, "recognizer", s.record.RecognizerString())
		return nil
	}

	s.logger.Warn("settings load failed", "path", path, "kind", string(KindOf(err)), "error", err.Error())
	if s.decider.RestoreDefaults(err) {
		s.logger.Info("restoring settings from in-memory values", "path", path)
		_ = s.SaveFile(path)
	}
	return err
}

func (s *Store) overlay(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &Error{Kind: KindFileUnavailable, Path: path, Err: err}
	}
	defer f.Close()

	elements, err := decodeDocument(f)
	if err != nil {
		var settingsErr *Error
		if errors.As(err, &settingsErr) {
			settingsErr.Path = path
			return settingsErr
		}
		return &Error{Kind: KindFileUnavailable, Path: path, Err: err}
	}

	for _, el := range elements {
		if err := s.apply(el); err != nil {
			var settingsErr *Error
			if errors.As(err, &settingsErr) {
				settingsErr.Path = path
			}
			return err
		}
	}
	return nil
}

// apply overlays one Settings element. Absent or empty attributes leave the
// current value in place; the locale is applied last so a bad locale never
// undoes the other fields.
func (s *Store) apply(el element) error {
	overlay := func(field string, dst *string) {
		if value := el[field]; value != "" {
			*dst = value
		}
	}
	overlay(FieldDefaultProfileName, &s.record.DefaultProfileName)
	overlay(FieldDefaultProfileFilepath, &s.record.DefaultProfileFilepath)
	overlay(FieldVoiceInfo, &s.record.VoiceInfo)
	overlay(FieldPushToTalkMode, &s.record.PushToTalkMode)
	overlay(FieldPushToTalkKey, &s.record.PushToTalkKey)

	raw := el[FieldRecognizerInfo]
	if raw == "" {
		return nil
	}
	tag, err := ParseLocale(raw)
	if err != nil {
		return &Error{Kind: KindInvalidLocale, Detail: raw, Err: err}
	}
	s.record.RecognizerInfo = tag
	return nil
}

// Save writes the current record to the store path. See SaveFile.
func (s *Store) Save() error {
	return s.SaveFile(s.path)
}

// SaveFile validates the record and writes it to path. Invalid records and
// I/O failures are reported to the notifier and returned; no partial document
// is left behind in either case.
func (s *Store) SaveFile(path string) error {
	if err := Validate(s.record); err != nil {
		s.logger.Warn("settings save rejected", "path", path, "error", err.Error())
		s.notifier.Notify("Cannot save settings, one or more values currently unset.")
		return err
	}

	if err := writeDocument(path, s.record); err != nil {
		werr := &Error{Kind: KindWriteFailure, Path: path, Err: err}
		s.logger.Error("settings save failed", "path", path, "error", err.Error())
		s.notifier.Notify("Error saving settings to file: " + err.Error())
		return werr
	}

	s.logger.Info("settings saved", "path", path)
	return nil
}

// writeDocument writes rec to a temp file beside path and renames it into
// place.
func writeDocument(path string, rec Record) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err = encodeDocument(tmp, rec); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
