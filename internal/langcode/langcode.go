// Package langcode maps the FLORES-200 language codes used by NLLB-style
// translation models ("eng_Latn", "arb_Arab") to ISO 639-1 codes and
// English display names for backends that expect those instead.
package langcode

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

// Auto asks for the source language to be detected from the text.
const Auto = "auto"

var ErrUnsupported = errors.New("unsupported language code")

// Language describes one supported language.
type Language struct {
	Code string // FLORES-200, e.g. "arb_Arab"
	ISO  string // ISO 639-1, e.g. "ar"
	Name string // English name, e.g. "Arabic"
}

// Tag returns the BCP 47 tag for the language.
func (l Language) Tag() language.Tag {
	return language.Make(l.ISO)
}

func (l Language) String() string {
	return fmt.Sprintf("%s (%s)", l.Name, l.Code)
}

var table = []Language{
	{"arb_Arab", "ar", "Arabic"},
	{"ces_Latn", "cs", "Czech"},
	{"deu_Latn", "de", "German"},
	{"ell_Grek", "el", "Greek"},
	{"eng_Latn", "en", "English"},
	{"fra_Latn", "fr", "French"},
	{"heb_Hebr", "he", "Hebrew"},
	{"hin_Deva", "hi", "Hindi"},
	{"ind_Latn", "id", "Indonesian"},
	{"ita_Latn", "it", "Italian"},
	{"jpn_Jpan", "ja", "Japanese"},
	{"kor_Hang", "ko", "Korean"},
	{"nld_Latn", "nl", "Dutch"},
	{"pes_Arab", "fa", "Persian"},
	{"pol_Latn", "pl", "Polish"},
	{"por_Latn", "pt", "Portuguese"},
	{"rus_Cyrl", "ru", "Russian"},
	{"spa_Latn", "es", "Spanish"},
	{"swe_Latn", "sv", "Swedish"},
	{"tur_Latn", "tr", "Turkish"},
	{"ukr_Cyrl", "uk", "Ukrainian"},
	{"urd_Arab", "ur", "Urdu"},
	{"vie_Latn", "vi", "Vietnamese"},
	{"zho_Hans", "zh", "Chinese"},
}

var (
	byCode = make(map[string]Language, len(table))
	byISO  = make(map[string]Language, len(table))
)

func init() {
	for _, l := range table {
		byCode[strings.ToLower(l.Code)] = l
		byISO[l.ISO] = l
	}
}

// Lookup returns the language registered under a FLORES-200 code.
// The comparison is case-insensitive.
func Lookup(code string) (Language, bool) {
	l, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
	return l, ok
}

// Parse accepts a FLORES-200 code, an ISO 639-1 code or a BCP 47 tag and
// returns the matching supported language.
func Parse(code string) (Language, error) {
	if l, ok := Lookup(code); ok {
		return l, nil
	}
	if l, ok := FromISO(code); ok {
		return l, nil
	}
	return Language{}, fmt.Errorf("%w %q", ErrUnsupported, code)
}

// FromISO resolves an ISO 639-1 code or any BCP 47 tag ("en-US", "pt-BR")
// through its base language.
func FromISO(code string) (Language, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Language{}, false
	}
	if l, ok := byISO[strings.ToLower(code)]; ok {
		return l, true
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Language{}, false
	}
	base, _ := tag.Base()
	l, ok := byISO[base.String()]
	return l, ok
}

// All returns every supported language sorted by name.
func All() []Language {
	out := make([]Language, len(table))
	copy(out, table)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ISOCodes lists the ISO 639-1 codes of all supported languages.
func ISOCodes() []string {
	out := make([]string, 0, len(table))
	for _, l := range table {
		out = append(out, l.ISO)
	}
	return out
}
