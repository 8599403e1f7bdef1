// Package pages resolves page-range expressions such as "all" or
// "1-3,5,8-10" into zero-based page indices.
package pages

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// InvalidRangeError reports the first token that could not be resolved.
type InvalidRangeError struct {
	Token  string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid page range %q: %s", e.Token, e.Reason)
}

// Set is a set of zero-based page indices.
type Set map[int]struct{}

func (s Set) Has(i int) bool {
	_, ok := s[i]
	return ok
}

// Sorted returns the indices in ascending order.
func (s Set) Sorted() []int {
	out := make([]int, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Selection renders the set as 1-based page numbers, the form pdfcpu
// expects for selectedPages.
func (s Set) Selection() []string {
	idx := s.Sorted()
	out := make([]string, len(idx))
	for i, p := range idx {
		out[i] = strconv.Itoa(p + 1)
	}
	return out
}

// All returns every index in [0, total).
func All(total int) Set {
	s := make(Set, total)
	for i := 0; i < total; i++ {
		s[i] = struct{}{}
	}
	return s
}

// Resolve parses spec against a document of total pages. Tokens are
// comma-separated; "A-B" is an inclusive 1-based range and "N" a single
// 1-based page. An empty spec means "all".
func Resolve(spec string, total int) (Set, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, "all") {
		return All(total), nil
	}

	set := make(Set)
	for _, raw := range strings.Split(spec, ",") {
		token := strings.TrimSpace(raw)
		if token == "" {
			return nil, &InvalidRangeError{Token: raw, Reason: "empty token"}
		}

		start, end, err := parseToken(token)
		if err != nil {
			return nil, err
		}
		if start > end {
			return nil, &InvalidRangeError{Token: token, Reason: "start is after end"}
		}
		if start < 1 || end > total {
			return nil, &InvalidRangeError{
				Token:  token,
				Reason: fmt.Sprintf("page out of bounds, document has %d page(s)", total),
			}
		}
		for p := start; p <= end; p++ {
			set[p-1] = struct{}{}
		}
	}
	return set, nil
}

func parseToken(token string) (int, int, error) {
	if !strings.Contains(token, "-") {
		n, err := parsePage(token)
		if err != nil {
			return 0, 0, &InvalidRangeError{Token: token, Reason: "not a number"}
		}
		return n, n, nil
	}

	parts := strings.Split(token, "-")
	if len(parts) != 2 {
		return 0, 0, &InvalidRangeError{Token: token, Reason: "malformed range"}
	}
	start, err := parsePage(parts[0])
	if err != nil {
		return 0, 0, &InvalidRangeError{Token: token, Reason: "range start is not a number"}
	}
	end, err := parsePage(parts[1])
	if err != nil {
		return 0, 0, &InvalidRangeError{Token: token, Reason: "range end is not a number"}
	}
	return start, end, nil
}

func parsePage(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
