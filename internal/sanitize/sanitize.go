// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sanitize

import (
	"regexp"
	"strings"
)

// DefaultPhrases are the instruction sentences the backend is known to leak
// into completions. The list is data, not logic: deployments can extend it
// via the sanitizer section of the config file.
var DefaultPhrases = []string{
	"Use above context if useful.",
	"Please respond to the following task.",
}

// =============================================================================
// SANITIZER
// =============================================================================

// Sanitizer removes a fixed set of instruction phrases from text.
//
// Matching is case-insensitive and whitespace-flexible: any run of
// whitespace between the words of a phrase matches, and an optional trailing
// period or comma is consumed along with following whitespace. Only whole
// phrases match - text that merely shares words with a phrase is left alone.
//
// Clean is idempotent: sanitizing already-sanitized text returns it
// unchanged.
type Sanitizer struct {
	patterns []*regexp.Regexp
}

// New creates a sanitizer for the given phrases. Empty phrases are skipped.
func New(phrases ...string) *Sanitizer {
	s := &Sanitizer{}
	for _, phrase := range phrases {
		if re := compilePhrase(phrase); re != nil {
			s.patterns = append(s.patterns, re)
		}
	}
	return s
}

// Default creates a sanitizer with the known leak phrases.
func Default() *Sanitizer {
	return New(DefaultPhrases...)
}

// Clean returns text with every occurrence of every phrase removed and
// leading/trailing whitespace trimmed.
func (s *Sanitizer) Clean(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range s.patterns {
		text = re.ReplaceAllString(text, "")
	}
	return strings.TrimSpace(text)
}

// PhraseCount returns the number of active phrase patterns.
func (s *Sanitizer) PhraseCount() int {
	return len(s.patterns)
}

// compilePhrase turns an instruction phrase into a flexible matcher:
// words joined by \s+, optional trailing [.,], trailing whitespace consumed.
// Word boundaries on both ends keep partial-word text from matching.
func compilePhrase(phrase string) *regexp.Regexp {
	words := strings.Fields(strings.TrimRight(strings.TrimSpace(phrase), ".,"))
	if len(words) == 0 {
		return nil
	}

	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}

	expr := `(?i)\b` + strings.Join(quoted, `\s+`) + `[.,]?\s*`
	re, err := regexp.Compile(expr)
	if err != nil {
		// QuoteMeta makes the expression safe; a failure here means the
		// phrase was degenerate, so drop it rather than crash.
		return nil
	}
	return re
}
