// Package format holds the input masks applied to text fields on every
// keystroke. Each function reformats the full current input; none of them
// depend on locale.
package format

import (
	"fmt"
	"strings"
)

const (
	phoneDigits = 9
	dateDigits  = 8
	timeDigits  = 4
)

// Digits returns s with every non-ASCII-digit removed.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Phone formats up to nine digits as "XX XXX XXXX".
func Phone(s string) string {
	d := limit(Digits(s), phoneDigits)
	switch {
	case len(d) >= 6:
		return d[:2] + " " + d[2:5] + " " + d[5:]
	case len(d) >= 3:
		return d[:2] + " " + d[2:]
	}
	return d
}

// Date formats digits as DD/MM/YYYY.
func Date(s string) string {
	d := Digits(s)
	switch {
	case len(d) >= 5:
		return d[:2] + "/" + d[2:4] + "/" + limit(d[4:], dateDigits-4)
	case len(d) >= 3:
		return d[:2] + "/" + d[2:]
	}
	return d
}

// Time formats digits as HH:MM.
func Time(s string) string {
	d := Digits(s)
	if len(d) >= 3 {
		return d[:2] + ":" + limit(d[2:], timeDigits-2)
	}
	return d
}

// Amount renders minor currency units with two decimals.
func Amount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func limit(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
