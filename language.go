package img2comment

import "strings"

const (
	hashPrefix  = "# "
	slashPrefix = "// "

	// DefaultMarker is used for unrecognized languages. It has no trailing
	// space, unlike the "# " of the recognized hash-comment languages, so
	// existing generated files stay byte-identical.
	DefaultMarker = "#"
)

// defaultLanguages lists the built-in comment prefixes in display order.
var defaultLanguages = []struct {
	name, prefix string
}{
	{"python", hashPrefix},
	{"c", slashPrefix},
	{"cpp", slashPrefix},
	{"c#", slashPrefix},
	{"csharp", slashPrefix},
	{"java", slashPrefix},
	{"rust", slashPrefix},
	{"js", slashPrefix},
	{"go", slashPrefix},
	{"arduino", slashPrefix},
	{"ruby", hashPrefix},
	{"bash", hashPrefix},
	{"swift", slashPrefix},
	{"kotlin", slashPrefix},
}

// LanguageTable maps lower-case language identifiers to comment prefixes.
type LanguageTable struct {
	prefixes      *OrderedMap[string, string]
	defaultMarker string
}

// NewLanguageTable returns the built-in table.
func NewLanguageTable() *LanguageTable {
	prefixes := NewOrderedMap[string, string]()
	for _, l := range defaultLanguages {
		prefixes.Set(l.name, l.prefix)
	}
	return &LanguageTable{prefixes: prefixes, defaultMarker: DefaultMarker}
}

func normalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}

// Register adds or replaces the prefix for a language.
func (lt *LanguageTable) Register(language, prefix string) {
	lt.prefixes.Set(normalizeLanguage(language), prefix)
}

// Prefix returns the comment prefix for language, matched
// case-insensitively, and whether the language was recognized.
func (lt *LanguageTable) Prefix(language string) (string, bool) {
	if prefix, ok := lt.prefixes.Get(normalizeLanguage(language)); ok {
		return prefix, true
	}
	return lt.defaultMarker, false
}

// Languages returns the recognized identifiers in table order.
func (lt *LanguageTable) Languages() []string {
	return lt.prefixes.Keys()
}

// Each calls f for every recognized language and its prefix in order.
func (lt *LanguageTable) Each(f func(language, prefix string)) {
	lt.prefixes.Iterate(f)
}

// DefaultMarker returns the prefix used for unrecognized languages.
func (lt *LanguageTable) DefaultMarker() string {
	return lt.defaultMarker
}

func (lt *LanguageTable) clone() *LanguageTable {
	return &LanguageTable{prefixes: lt.prefixes.Clone(), defaultMarker: lt.defaultMarker}
}

// CommentPrefix looks language up in the built-in table.
func CommentPrefix(language string) string {
	prefix, _ := builtinLanguages.Prefix(language)
	return prefix
}

// Languages lists the built-in language identifiers.
func Languages() []string {
	return builtinLanguages.Languages()
}

var builtinLanguages = NewLanguageTable()
