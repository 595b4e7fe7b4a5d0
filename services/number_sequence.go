package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// A formatted document number looks like B.811/Un.13/FST/PP.00.9/05/2024:
// an alphabetic prefix with a trailing dot, the sequential integer, then the
// slash-delimited institutional suffix (org code, department, classification,
// zero-padded month, year).
const (
	DefaultNumberPrefix  = "B."
	numberSuffixTemplate = "Un.13/FST/PP.00.9/%02d/%d"
)

var numberHeadPattern = regexp.MustCompile(`^([A-Za-z]+\.?)(\d+)$`)

// ParsedNumber is the typed (prefix, integer, suffix) triple of a formatted
// document number.
type ParsedNumber struct {
	Prefix string
	Value  int
	Suffix string
}

// ParseNumber splits a formatted number on the first slash and matches the
// leading segment against the prefix+digits pattern.
func ParseNumber(formatted string) (ParsedNumber, error) {
	head, suffix, found := strings.Cut(formatted, "/")
	if !found || suffix == "" {
		return ParsedNumber{}, &MalformedNumberError{Value: formatted}
	}

	match := numberHeadPattern.FindStringSubmatch(head)
	if match == nil {
		return ParsedNumber{}, &MalformedNumberError{Value: formatted}
	}

	value, err := strconv.Atoi(match[2])
	if err != nil {
		return ParsedNumber{}, &MalformedNumberError{Value: formatted}
	}

	return ParsedNumber{Prefix: match[1], Value: value, Suffix: suffix}, nil
}

// Next returns the number delta steps further in the sequence. The suffix is
// inherited verbatim: invitation letters carry the same month and year as the
// decree they follow, never the current date.
func (p ParsedNumber) Next(delta int) ParsedNumber {
	return ParsedNumber{Prefix: p.Prefix, Value: p.Value + delta, Suffix: p.Suffix}
}

// String renders the canonical formatted form.
func (p ParsedNumber) String() string {
	return p.Prefix + strconv.Itoa(p.Value) + "/" + p.Suffix
}

// FormatNumber builds a formatted number from raw parts with the canonical
// institutional suffix for the given date. Used when no prior number exists
// to inherit a suffix from.
func FormatNumber(prefix string, value int, at time.Time) string {
	suffix := fmt.Sprintf(numberSuffixTemplate, int(at.Month()), at.Year())
	return ParsedNumber{Prefix: prefix, Value: value, Suffix: suffix}.String()
}

// SuffixFor returns the canonical institutional suffix for a date.
func SuffixFor(at time.Time) string {
	return fmt.Sprintf(numberSuffixTemplate, int(at.Month()), at.Year())
}
