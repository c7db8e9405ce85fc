package validate

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	reQ        = regexp.MustCompile(`^[\p{L}\p{N} _'\-.]{1,50}$`)
	reID       = regexp.MustCompile(`^[0-9]{1,18}$`)
	reUsername = regexp.MustCompile(`^[A-Za-z0-9@.+_-]{1,150}$`)
	reEmail    = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}$`)
)

// ID parses a positive numeric resource id (product, review, order item).
func ID(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if !reID.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// IDList parses "1,2,3". Any bad element rejects the whole list.
func IDList(s string) ([]int64, bool) {
	parts := strings.Split(s, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, ok := ID(p)
		if !ok {
			return nil, false
		}
		out = append(out, id)
	}
	return out, len(out) > 0
}

// OrderID accepts the canonical 36-character UUID form only.
func OrderID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 36 {
		return "", false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return u.String(), true
}

// Terms splits a comma separated search string into trimmed, non-empty terms.
func Terms(s string) ([]string, bool) {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !reQ.MatchString(t) {
			return nil, false
		}
		out = append(out, t)
	}
	return out, len(out) > 0 && len(out) <= 10
}

// Page parses a 1-based page number, defaulting to 1.
func Page(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Rating accepts 1.0 to 5.0 in half steps.
func Rating(v float64) bool {
	if v < 1 || v > 5 {
		return false
	}
	return math.Mod(v*2, 1) == 0
}

// Content trims review text and checks its 10..45 character window.
func Content(s string) (string, bool) {
	s = strings.TrimSpace(s)
	n := len([]rune(s))
	return s, n >= 10 && n <= 45
}

func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, reUsername.MatchString(s)
}

// Password is the strength rule for new accounts: 8..20 chars with lower,
// upper, digit and symbol.
func Password(s string) bool {
	l := len(s)
	if l < 8 || l > 20 {
		return false
	}
	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case 'a' <= r && r <= 'z':
			hasLower = true
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case '0' <= r && r <= '9':
			hasDigit = true
		default:
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

func Email(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || len(s) > 254 {
		return "", false
	}
	return s, reEmail.MatchString(s)
}

// Birthdate parses a YYYY-MM-DD date that is not in the future.
func Birthdate(s string, now time.Time) (time.Time, bool) {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil || d.After(now) {
		return time.Time{}, false
	}
	return d, true
}
