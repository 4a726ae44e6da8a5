package httpclient

import (
	"fmt"
	"strconv"
	"strings"
)

// StatusCodeRange is an inclusive range of HTTP status codes.
type StatusCodeRange struct {
	Min int
	Max int
}

// StatusCodes is a set of status code ranges, written as "200-299,404".
type StatusCodes []StatusCodeRange

// ParseStatusCodes parses a comma separated list of codes and ranges.
// An empty string yields a nil set.
func ParseStatusCodes(s string) (StatusCodes, error) {
	var set StatusCodes
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(part, "-")
		if !isRange {
			hi = lo
		}
		minCode, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return nil, fmt.Errorf("invalid status code %q: %w", part, err)
		}
		maxCode, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return nil, fmt.Errorf("invalid status code %q: %w", part, err)
		}
		if minCode > maxCode {
			return nil, fmt.Errorf("invalid range %d-%d: min > max", minCode, maxCode)
		}
		if minCode < 100 || maxCode > 599 {
			return nil, fmt.Errorf("invalid HTTP status code %q: must be 100-599", part)
		}
		set = append(set, StatusCodeRange{Min: minCode, Max: maxCode})
	}
	return set, nil
}

// MustParseStatusCodes is like ParseStatusCodes but panics on error.
func MustParseStatusCodes(s string) StatusCodes {
	set, err := ParseStatusCodes(s)
	if err != nil {
		panic(err)
	}
	return set
}

// Contains reports whether code is in the set.
func (s StatusCodes) Contains(code int) bool {
	for _, r := range s {
		if code >= r.Min && code <= r.Max {
			return true
		}
	}
	return false
}

func (s StatusCodes) String() string {
	parts := make([]string, 0, len(s))
	for _, r := range s {
		if r.Min == r.Max {
			parts = append(parts, strconv.Itoa(r.Min))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", r.Min, r.Max))
		}
	}
	return strings.Join(parts, ",")
}
