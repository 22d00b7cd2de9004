package locales

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed *.json
var localeFS embed.FS

// rtlLanguages lists the supported locales rendered right-to-left
var rtlLanguages = map[string]bool{
	"he": true,
}

// Locales wraps the i18n bundle for notification content. Constructed once at
// startup and injected; there is no package-global bundle.
type Locales struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
	supported   []string
}

// Load parses every embedded message file and returns the bundle. The default
// language is used when a recipient's locale has no translation.
func Load(defaultLangCode string) (*Locales, error) {
	defaultLang, err := language.Parse(defaultLangCode)
	if err != nil {
		defaultLang = language.English
	}

	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("read embedded locales: %w", err)
	}
	supported := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if _, err := bundle.LoadMessageFileFS(localeFS, entry.Name()); err != nil {
			return nil, fmt.Errorf("load message file %s: %w", entry.Name(), err)
		}
		supported = append(supported, strings.TrimSuffix(entry.Name(), ".json"))
	}
	if len(supported) == 0 {
		return nil, fmt.Errorf("no message files embedded")
	}

	return &Locales{bundle: bundle, defaultLang: defaultLang, supported: supported}, nil
}

// Supported returns the language codes with an embedded message file
func (l *Locales) Supported() []string {
	return l.supported
}

// IsSupported reports whether a language code has an embedded message file
func (l *Locales) IsSupported(lang string) bool {
	for _, s := range l.supported {
		if strings.EqualFold(s, lang) {
			return true
		}
	}
	return false
}

// DefaultLanguage returns the configured fallback language code
func (l *Locales) DefaultLanguage() string {
	return l.defaultLang.String()
}

// Localizer creates a localizer for the given language preferences
func (l *Locales) Localizer(langPrefs ...string) *i18n.Localizer {
	return i18n.NewLocalizer(l.bundle, langPrefs...)
}

// Message retrieves and formats a message by its ID. When the message is
// missing in the requested locale it falls back to the default language, and
// finally to the ID itself.
func (l *Locales) Message(localizer *i18n.Localizer, msgID string, templateData map[string]interface{}) string {
	msg, err := localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	})
	if err == nil {
		return msg
	}
	fallback := i18n.NewLocalizer(l.bundle, l.defaultLang.String())
	msg, err = fallback.Localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		TemplateData: templateData,
	})
	if err == nil {
		return msg
	}
	return msgID
}

// IsRTL reports whether a locale is rendered right-to-left
func IsRTL(lang string) bool {
	base := lang
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		base = lang[:i]
	}
	return rtlLanguages[strings.ToLower(base)]
}
