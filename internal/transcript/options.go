package transcript

import (
	"fmt"
	"strings"
)

// Format is a download file format.
type Format string

const (
	FormatTXT  Format = "txt"
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// DefaultFormat is used when no format has been chosen.
const DefaultFormat = FormatTXT

// Formats lists the supported formats in display order.
var Formats = []Format{FormatTXT, FormatPDF, FormatDOCX}

// ParseFormat validates a format name. Empty input yields DefaultFormat.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultFormat, nil
	}
	for _, f := range Formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported format %q (want txt, pdf or docx)", s)
}

// Next cycles to the following format.
func (f Format) Next() Format {
	for i, v := range Formats {
		if v == f {
			return Formats[(i+1)%len(Formats)]
		}
	}
	return DefaultFormat
}

// Language is a download language code.
type Language string

// DefaultLanguage is used when no language has been chosen.
const DefaultLanguage Language = "en"

var languageNames = map[Language]string{
	"en": "English",
	"hi": "Hindi",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"es": "Spanish",
	"de": "German",
	"ru": "Russian",
	"co": "Colombian",
}

// Languages lists the supported download languages in display order.
var Languages = []Language{"en", "hi", "ja", "ko", "zh", "es", "de", "ru", "co"}

// Name returns the display name of the language.
func (l Language) Name() string {
	if n, ok := languageNames[l]; ok {
		return n
	}
	return string(l)
}

// Next cycles to the following language.
func (l Language) Next() Language {
	for i, v := range Languages {
		if v == l {
			return Languages[(i+1)%len(Languages)]
		}
	}
	return DefaultLanguage
}

// ParseLanguage validates a language code. Empty input yields DefaultLanguage.
func ParseLanguage(s string) (Language, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultLanguage, nil
	}
	if _, ok := languageNames[Language(s)]; ok {
		return Language(s), nil
	}
	return "", fmt.Errorf("unsupported language %q", s)
}

// Options are the per-record download choices held in page state.
type Options struct {
	Format   Format
	Language Language
}

// DefaultOptions returns txt/en.
func DefaultOptions() Options {
	return Options{Format: DefaultFormat, Language: DefaultLanguage}
}

// Filename derives the saved file name for a download.
func Filename(title string, f Format) string {
	title = strings.NewReplacer("/", "_", "\\", "_").Replace(strings.TrimSpace(title))
	if title == "" {
		title = "transcription"
	}
	return fmt.Sprintf("%s_transcript.%s", title, f)
}
