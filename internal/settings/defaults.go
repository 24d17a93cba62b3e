package settings

import "golang.org/x/text/language"

// FallbackVoice is used when the voice provider cannot name a voice.
const FallbackVoice = "default"

// FallbackLocale is used when the locale provider cannot determine a locale.
var FallbackLocale = language.AmericanEnglish

// VoiceProvider reports the host's currently selected synthesis voice.
type VoiceProvider interface {
	DefaultVoice() string
}

// LocaleProvider reports the host's current locale.
type LocaleProvider interface {
	DefaultLocale() language.Tag
}

// Defaults returns the settings record used before any document is overlaid.
// The profile pair starts empty; every other field is non-empty.
func Defaults(voices VoiceProvider, locales LocaleProvider) Record {
	voice := FallbackVoice
	if voices != nil {
		if name := voices.DefaultVoice(); name != "" {
			voice = name
		}
	}

	locale := FallbackLocale
	if locales != nil {
		if tag := locales.DefaultLocale(); tag != language.Und {
			locale = tag
		}
	}

	return Record{
		VoiceInfo:      voice,
		PushToTalkMode: PushToTalkOff,
		PushToTalkKey:  DefaultPushToTalkKey,
		RecognizerInfo: locale,
	}
}

// Validate reports whether rec holds anything worth saving.
//
// It fails only when voice, push-to-talk mode, push-to-talk key, and
// recognizer locale are all empty at once. The profile pair is optional and
// never checked.
func Validate(rec Record) error {
	if rec.VoiceInfo == "" &&
		rec.PushToTalkMode == "" &&
		rec.PushToTalkKey == "" &&
		rec.RecognizerString() == "" {
		return &Error{Kind: KindValidationFailed, Detail: "voice, push-to-talk, and recognizer values are all unset"}
	}
	return nil
}
