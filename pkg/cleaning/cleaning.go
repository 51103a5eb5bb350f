// Package cleaning implements CleaningService: presentation
// normalization of raw AI output, never touching semantic content.
package cleaning

import (
	"regexp"
	"strings"
)

var (
	ontologicalHeaderPattern = regexp.MustCompile(`(?i)^ontologische\s+categorie\s*:\s*[^\n]*\n+`)
	parentheticalAsidePattern = regexp.MustCompile(`\s*\([^()]*\b(?:d\.w\.z\.|i\.e\.|bijvoorbeeld|bijv\.|oftewel)[^()]*\)`)
	whitespaceRunPattern     = regexp.MustCompile(`[ \t]+`)
	blankLinesPattern        = regexp.MustCompile(`\n{2,}`)
)

// Result is the CleaningService return shape.
type Result struct {
	Original      string
	Cleaned       string
	WasCleaned    bool
	AppliedRules  []string
	Improvements  []string
	OntologicalMarker string
}

// Clean strips the ontological-category header and the "<term>:" prefix
// into the result, then normalizes whitespace/punctuation and removes
// explanatory parenthetical asides. It never rewrites the remaining words.
func Clean(rawText, term string) Result {
	original := rawText
	text := rawText
	var applied []string
	var improvements []string

	marker := ""
	if extractedMarker, stripped, ok := stripOntologicalHeader(text); ok {
		text = stripped
		marker = extractedMarker
		applied = append(applied, "strip_ontological_header")
		improvements = append(improvements, "ontologische categorie-header verplaatst naar metadata")
	}

	return cleanRemainder(original, text, term, marker, applied, improvements)
}

func cleanRemainder(original, text, term, marker string, applied, improvements []string) Result {
	if stripped, ok := stripTermPrefix(text, term); ok {
		text = stripped
		applied = append(applied, "strip_term_prefix")
		improvements = append(improvements, "dubbele termvermelding aan het begin verwijderd")
	}

	if stripped := parentheticalAsidePattern.ReplaceAllString(text, ""); stripped != text {
		text = stripped
		applied = append(applied, "remove_explanatory_parenthetical")
		improvements = append(improvements, "verklarende tussenvoeging tussen haakjes verwijderd")
	}

	normalized := normalizeWhitespaceAndPunctuation(text)
	if normalized != text {
		text = normalized
		applied = append(applied, "normalize_whitespace_and_punctuation")
	}

	return Result{
		Original:          original,
		Cleaned:           text,
		WasCleaned:        text != original,
		AppliedRules:      applied,
		Improvements:      improvements,
		OntologicalMarker: marker,
	}
}

// stripOntologicalHeader extracts a leading "Ontologische categorie: X"
// line into the marker persisted to Definition.metadata.ontological_marker
// (; consumed by pkg/validation's ontological-marker rule).
func stripOntologicalHeader(text string) (marker string, rest string, ok bool) {
	loc := ontologicalHeaderPattern.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text, false
	}
	headerLine := text[:loc[1]]
	colonIdx := strings.Index(headerLine, ":")
	if colonIdx == -1 {
		return "", text, false
	}
	marker = strings.TrimSpace(strings.Trim(headerLine[colonIdx+1:], "\n"))
	return marker, text[loc[1]:], true
}

// stripTermPrefix removes a leading "<term>:" prefix, case-insensitively.
func stripTermPrefix(text, term string) (string, bool) {
	trimmed := strings.TrimLeft(text, " \n\t")
	if term == "" {
		return text, false
	}
	prefix := term + ":"
	if len(trimmed) < len(prefix) || !strings.EqualFold(trimmed[:len(prefix)], prefix) {
		return text, false
	}
	return strings.TrimLeft(trimmed[len(prefix):], " "), true
}

// normalizeWhitespaceAndPunctuation collapses whitespace runs and ensures
// exactly one terminal period.
func normalizeWhitespaceAndPunctuation(text string) string {
	text = strings.TrimSpace(text)
	text = whitespaceRunPattern.ReplaceAllString(text, " ")
	text = blankLinesPattern.ReplaceAllString(text, " ")
	text = strings.TrimRight(text, " .")
	if text != "" {
		text += "."
	}
	return text
}

// DisplayOriginal strips only the ontological header and term prefix,
// preserving the model's exact phrasing otherwise.
func DisplayOriginal(rawText, term string) string {
	_, stripped, _ := stripOntologicalHeader(rawText)
	if withoutPrefix, ok := stripTermPrefix(stripped, term); ok {
		return withoutPrefix
	}
	return stripped
}
