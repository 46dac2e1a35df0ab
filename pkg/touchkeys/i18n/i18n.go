package i18n

import (
	"embed"
	"encoding/json"
	"path"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var locales embed.FS

var (
	mu sync.RWMutex
	i  *I18N
)

type I18N struct {
	localizer *i18n.Localizer
	bundle    *i18n.Bundle
}

type MessageFile struct {
	Name    string
	Content []byte
}

func newBundle() *i18n.Bundle {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)
	return bundle
}

// BuiltinMessageFiles returns the message files shipped with the package.
func BuiltinMessageFiles() ([]MessageFile, error) {
	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	files := make([]MessageFile, 0, len(entries))
	for _, e := range entries {
		content, err := locales.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, err
		}
		files = append(files, MessageFile{Name: e.Name(), Content: content})
	}
	return files, nil
}

// InitDefault loads the built-in messages and selects English.
func InitDefault() error {
	files, err := BuiltinMessageFiles()
	if err != nil {
		return err
	}
	return InitI18NFromBytes(files)
}

func InitI18N(messageFilePaths []string) error {
	bundle := newBundle()

	for _, messageFile := range messageFilePaths {
		_, err := bundle.LoadMessageFile(messageFile)
		if err != nil {
			return err
		}
	}

	set(bundle, language.English.String(), language.Spanish.String())
	return nil
}

func InitI18NFromBytes(messageFiles []MessageFile) error {
	bundle := newBundle()

	for _, messageFile := range messageFiles {
		_, err := bundle.ParseMessageFileBytes(messageFile.Content, messageFile.Name)
		if err != nil {
			return err
		}
	}

	set(bundle, language.English.String(), language.Spanish.String())
	return nil
}

func set(bundle *i18n.Bundle, langs ...string) {
	mu.Lock()
	defer mu.Unlock()
	i = &I18N{localizer: i18n.NewLocalizer(bundle, langs...), bundle: bundle}
}

// current returns the active localizer, loading the built-in messages on
// first use.
func current() *I18N {
	mu.RLock()
	cur := i
	mu.RUnlock()
	if cur != nil {
		return cur
	}

	if err := InitDefault(); err != nil {
		set(newBundle(), language.English.String())
	}
	mu.RLock()
	defer mu.RUnlock()
	return i
}

func SetLanguage(lang language.Tag) {
	set(current().bundle, lang.String())
}

func SetWithCode(code string) error {
	lang, err := language.Parse(code)
	if err != nil {
		return err
	}
	SetLanguage(lang)
	return nil
}

// GetString retrieves a localized string by key
func GetString(key string) string {
	msg, err := current().localizer.Localize(&i18n.LocalizeConfig{
		MessageID: key,
	})
	if err != nil {
		return "I18N Error"
	}
	return msg
}

// GetStringWithData retrieves a localized string by key with template data
func GetStringWithData(key string, templateData map[string]interface{}) string {
	msg, err := current().localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: templateData,
	})
	if err != nil {
		return "I18N Error"
	}
	return msg
}

// GetPluralString retrieves a localized string with plural support.
// count selects the plural form and is available to the template as .Count
func GetPluralString(key string, count int) string {
	msg, err := current().localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		PluralCount:  count,
		TemplateData: map[string]interface{}{"Count": count},
	})
	if err != nil {
		return "I18N Error"
	}
	return msg
}

// Message is an alias for i18n.Message to avoid requiring users to import go-i18n directly
type Message = i18n.Message

// Localize retrieves a localized string using the go-i18n struct pattern.
// The DefaultMessage provides the message ID and fallback text.
//
//	i18n.Localize(&i18n.Message{
//	    ID:    "welcome_user",
//	    Other: "Welcome, {{.Name}}!",
//	}, map[string]interface{}{"Name": "Alice"})
func Localize(message *Message, templateData map[string]interface{}) string {
	if message == nil {
		return "I18N Error: nil message"
	}

	config := &i18n.LocalizeConfig{
		DefaultMessage: message,
	}

	if templateData != nil {
		config.TemplateData = templateData
	}

	msg, err := current().localizer.Localize(config)
	if err != nil {
		if message.Other != "" {
			return message.Other
		}
		return "I18N Error"
	}
	return msg
}
