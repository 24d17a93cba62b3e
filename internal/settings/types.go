// Package settings loads, validates, and persists the gavpi settings document.
package settings

import "golang.org/x/text/language"

// DefaultFilename is the settings document name used when no path is configured.
const DefaultFilename = "gavpi-settings.xml"

// Attribute names of the Settings element. They double as field names for Get/Set.
const (
	FieldDefaultProfileName     = "default_profile_name"
	FieldDefaultProfileFilepath = "default_profile_filepath"
	FieldVoiceInfo              = "voice_info"
	FieldPushToTalkMode         = "pushtotalk_mode"
	FieldPushToTalkKey          = "pushtotalk_key"
	FieldRecognizerInfo         = "recognizer_info"
)

// Fields lists every settings attribute in document order.
var Fields = []string{
	FieldDefaultProfileName,
	FieldDefaultProfileFilepath,
	FieldVoiceInfo,
	FieldPushToTalkMode,
	FieldPushToTalkKey,
	FieldRecognizerInfo,
}

// Push-to-talk modes understood by the host application.
const (
	PushToTalkOff    = "Off"
	PushToTalkPress  = "Press"
	PushToTalkHold   = "Hold"
	PushToTalkToggle = "Toggle"
)

// PushToTalkModes is the push-to-talk vocabulary.
var PushToTalkModes = []string{PushToTalkOff, PushToTalkPress, PushToTalkHold, PushToTalkToggle}

// DefaultPushToTalkKey is the key bound to push-to-talk out of the box.
const DefaultPushToTalkKey = "Scroll"

// Record is the in-memory settings aggregate.
//
// The profile pair is optional and may be empty. RecognizerInfo equal to
// language.Und means no recognizer locale is set.
type Record struct {
	DefaultProfileName     string
	DefaultProfileFilepath string
	VoiceInfo              string
	PushToTalkMode         string
	PushToTalkKey          string
	RecognizerInfo         language.Tag
}

// RecognizerString renders the recognizer locale in canonical form, or "" when unset.
func (r Record) RecognizerString() string {
	if r.RecognizerInfo == language.Und {
		return ""
	}
	return r.RecognizerInfo.String()
}

// Value returns the string form of one field by attribute name.
func (r Record) Value(field string) (string, error) {
	switch field {
	case FieldDefaultProfileName:
		return r.DefaultProfileName, nil
	case FieldDefaultProfileFilepath:
		return r.DefaultProfileFilepath, nil
	case FieldVoiceInfo:
		return r.VoiceInfo, nil
	case FieldPushToTalkMode:
		return r.PushToTalkMode, nil
	case FieldPushToTalkKey:
		return r.PushToTalkKey, nil
	case FieldRecognizerInfo:
		return r.RecognizerString(), nil
	default:
		return "", &Error{Kind: KindUnknownField, Detail: field}
	}
}

// Attributes returns every field as attribute name/value pairs in document order.
func (r Record) Attributes() [][2]string {
	attrs := make([][2]string, 0, len(Fields))
	for _, field := range Fields {
		value, _ := r.Value(field)
		attrs = append(attrs, [2]string{field, value})
	}
	return attrs
}

// ValidPushToTalkMode reports whether mode is part of the push-to-talk vocabulary.
func ValidPushToTalkMode(mode string) bool {
	for _, known := range PushToTalkModes {
		if mode == known {
			return true
		}
	}
	return false
}
