// Package lang provides a best-effort language classifier for user input.
//
// Detection is script-first: any Devanagari code point wins over Tamil, and
// either wins over the romanized vocabularies. Short or ambiguous romanized
// text is expected to fall through to English.
package lang

import "strings"

// Code is an ISO 639-1 language code supported by the assistant.
type Code string

const (
	English Code = "en"
	Hindi   Code = "hi"
	Tamil   Code = "ta"
)

// Unicode block boundaries for native-script detection.
const (
	devanagariLo = 0x0900
	devanagariHi = 0x097F
	tamilLo      = 0x0B80
	tamilHi      = 0x0BFF
)

// Romanized token vocabularies. Hindi is tested before Tamil.
var (
	romanHindi = map[string]struct{}{
		"hai": {}, "kitna": {}, "kitni": {}, "kya": {}, "kyun": {},
		"kaun": {}, "kahan": {}, "mein": {}, "hain": {}, "tha": {},
		"thi": {}, "hoga": {}, "hogaya": {}, "kripya": {}, "dhanyavad": {},
	}
	romanTamil = map[string]struct{}{
		"irukku": {}, "ethana": {}, "evlo": {}, "enna": {}, "epdi": {},
		"ungal": {}, "ungalukku": {}, "nalla": {}, "velai": {}, "sapadu": {},
	}
)

// Detect classifies text as Hindi, Tamil or English. It never fails; empty
// input returns English.
func Detect(text string) Code {
	if text == "" {
		return English
	}

	sawTamil := false
	for _, r := range text {
		if r >= devanagariLo && r <= devanagariHi {
			return Hindi
		}
		if r >= tamilLo && r <= tamilHi {
			sawTamil = true
		}
	}
	if sawTamil {
		return Tamil
	}

	// No native script; look for romanized Hindi/Tamil tokens.
	normalized := strings.NewReplacer("?", " ", "!", " ", ".", " ", ",", " ").
		Replace(strings.ToLower(text))
	for _, token := range strings.Fields(normalized) {
		if _, ok := romanHindi[token]; ok {
			return Hindi
		}
	}
	for _, token := range strings.Fields(normalized) {
		if _, ok := romanTamil[token]; ok {
			return Tamil
		}
	}

	return English
}

// Name returns the human-readable language name for a code.
func Name(code Code) string {
	switch code {
	case Hindi:
		return "Hindi"
	case Tamil:
		return "Tamil"
	default:
		return "English"
	}
}
