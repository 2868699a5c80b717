package ows

import (
	"golang.org/x/text/language"
)

// LocalizedString is one translation of a text.
type LocalizedString struct {
	Lang  language.Tag
	Value string
}

// MultilingualString is a text available in several languages. Entries keep
// their insertion order; the first entry is the default translation.
type MultilingualString struct {
	entries []LocalizedString
}

// NewMultilingualString returns a string with a single translation.
func NewMultilingualString(lang language.Tag, value string) MultilingualString {
	var m MultilingualString
	m.Set(lang, value)
	return m
}

// Set adds or replaces the translation for lang.
func (m *MultilingualString) Set(lang language.Tag, value string) {
	for i := range m.entries {
		if m.entries[i].Lang == lang {
			m.entries[i].Value = value
			return
		}
	}
	m.entries = append(m.entries, LocalizedString{Lang: lang, Value: value})
}

// Entries returns all translations in insertion order.
func (m MultilingualString) Entries() []LocalizedString {
	return m.entries
}

// IsEmpty reports whether there is no translation.
func (m MultilingualString) IsEmpty() bool {
	return len(m.entries) == 0
}

// Languages returns the tags of all translations.
func (m MultilingualString) Languages() []language.Tag {
	tags := make([]language.Tag, len(m.entries))
	for i, e := range m.entries {
		tags[i] = e.Lang
	}
	return tags
}

// Get returns the translation best matching the preferred languages. With no
// preference, or no match, the default translation is returned.
func (m MultilingualString) Get(preferred ...language.Tag) (LocalizedString, bool) {
	if len(m.entries) == 0 {
		return LocalizedString{}, false
	}
	if len(preferred) == 0 {
		return m.entries[0], true
	}
	matcher := language.NewMatcher(m.Languages())
	_, idx, conf := matcher.Match(preferred...)
	if conf == language.No {
		return m.entries[0], true
	}
	return m.entries[idx], true
}

// Only returns a copy restricted to the best match for the preferred
// languages, or the full string when no preference is given.
func (m MultilingualString) Only(preferred ...language.Tag) MultilingualString {
	if len(preferred) == 0 || len(m.entries) == 0 {
		return m
	}
	best, _ := m.Get(preferred...)
	return MultilingualString{entries: []LocalizedString{best}}
}
