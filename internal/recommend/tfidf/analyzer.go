// Apex Recommender - Content-Based Course Recommendation Service
// Copyright 2026 Apex Learning
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/apex-learning/course-recommender

package tfidf

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Analyzer turns raw text into the term sequence used for counting.
// An Analyzer is immutable and safe for concurrent use.
type Analyzer struct {
	lowercase    bool
	stripAccents bool
	token        *regexp.Regexp
	edgeStart    bool
	edgeEnd      bool
	stop         map[string]struct{}
	ngramMin     int
	ngramMax     int
}

// NewAnalyzer builds an Analyzer from cfg.
func NewAnalyzer(cfg Config) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	re, err := regexp.Compile(cfg.TokenPattern)
	if err != nil {
		return nil, err
	}
	stop := make(map[string]struct{}, len(cfg.StopWords))
	for _, w := range cfg.StopWords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Analyzer{
		lowercase:    cfg.Lowercase,
		stripAccents: cfg.StripAccents,
		token:        re,
		edgeStart:    strings.HasPrefix(cfg.TokenPattern, `\b`),
		edgeEnd:      strings.HasSuffix(cfg.TokenPattern, `\b`) && !strings.HasSuffix(cfg.TokenPattern, `\\b`),
		stop:         stop,
		ngramMin:     cfg.NgramMin,
		ngramMax:     cfg.NgramMax,
	}, nil
}

// Preprocess applies accent stripping and case folding.
func (a *Analyzer) Preprocess(text string) string {
	if a.lowercase {
		text = strings.ToLower(text)
	}
	if a.stripAccents {
		text = StripAccents(text)
	}
	return text
}

// Tokens returns the stop-word filtered tokens of text.
//
// RE2 treats only ASCII as word characters in \b, so a pattern anchored with
// \b would split "データscience" into a token. Matches that touch a non-ASCII
// letter or digit on an anchored side are dropped, giving \b its Unicode
// meaning.
func (a *Analyzer) Tokens(text string) []string {
	text = a.Preprocess(text)
	var tokens []string
	for _, loc := range a.token.FindAllStringIndex(text, -1) {
		if a.glued(text, loc[0], loc[1]) {
			continue
		}
		tok := text[loc[0]:loc[1]]
		if _, skip := a.stop[tok]; skip {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// glued reports whether text[start:end] continues a Unicode word on a side
// the pattern anchors with \b.
func (a *Analyzer) glued(text string, start, end int) bool {
	if a.edgeStart && start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(text[:start]); isWordRune(r) {
			return true
		}
	}
	if a.edgeEnd && end < len(text) {
		if r, _ := utf8.DecodeRuneInString(text[end:]); isWordRune(r) {
			return true
		}
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Analyze returns every n-gram of text within the configured range.
// Stop words are removed before n-grams are joined, so "data for science"
// yields the bigram "data science".
func (a *Analyzer) Analyze(text string) []string {
	return a.ngrams(a.Tokens(text))
}

func (a *Analyzer) ngrams(tokens []string) []string {
	if a.ngramMax == 1 && a.ngramMin == 1 {
		return tokens
	}

	var terms []string
	if a.ngramMin == 1 {
		terms = make([]string, len(tokens), len(tokens)*a.ngramMax)
		copy(terms, tokens)
	}

	lo := a.ngramMin
	if lo < 2 {
		lo = 2
	}
	for n := lo; n <= a.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}
	return terms
}

// StripAccents decomposes s with NFKD and removes combining marks.
// ASCII input is returned unchanged.
func StripAccents(s string) string {
	if isASCII(s) {
		return s
	}
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
