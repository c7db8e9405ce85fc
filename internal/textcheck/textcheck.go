// Package textcheck screens user supplied text (review content, usernames)
// for markup and blocked words before it is stored.
package textcheck

import (
	"errors"
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var (
	ErrMarkup  = errors.New("text contains markup")
	ErrBlocked = errors.New("text contains a blocked word")
)

// Validator rejects text that must not be stored.
type Validator interface {
	Validate(text string) error
}

var defaultWords = []string{
	"asshole", "bastard", "bitch", "bollocks", "bullshit", "crap", "damn",
	"dick", "fuck", "fucking", "motherfucker", "piss", "prick", "shit",
	"slut", "twat", "wanker", "whore",
}

// Filter strips nothing; it only reports. Words are compared after NFKC
// normalization and Unicode case folding, so fullwidth or mixed-case
// spellings are caught.
type Filter struct {
	policy *bluemonday.Policy
	fold   cases.Caser
	words  map[string]struct{}
}

// New builds a Filter over the built-in word list plus extra.
func New(extra ...string) *Filter {
	f := &Filter{
		policy: bluemonday.StrictPolicy(),
		fold:   cases.Fold(),
		words:  make(map[string]struct{}, len(defaultWords)+len(extra)),
	}
	for _, w := range append(append([]string{}, defaultWords...), extra...) {
		if w = f.normalize(w); w != "" {
			f.words[w] = struct{}{}
		}
	}
	return f
}

func (f *Filter) normalize(s string) string {
	return strings.TrimSpace(f.fold.String(norm.NFKC.String(s)))
}

func (f *Filter) Validate(text string) error {
	if html.UnescapeString(f.policy.Sanitize(text)) != text {
		return ErrMarkup
	}
	words := strings.FieldsFunc(f.normalize(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if _, bad := f.words[w]; bad {
			return ErrBlocked
		}
	}
	return nil
}
