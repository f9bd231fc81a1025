package flow

import (
	"strings"

	"github.com/jask/truckfinder/internal/format"
)

// CodeLength is the number of verification code slots.
const CodeLength = 6

// CodeEntry is the six single-digit slots of the verification screen.
// Focus is the slot that receives the next keystroke.
type CodeEntry struct {
	Slots [CodeLength]string
	Focus int
}

// Input writes text into the focused slot. Non-digits are dropped; a pasted
// run of digits fills the following slots. Focus advances past every
// filled slot, stopping on the last one.
func (e *CodeEntry) Input(text string) {
	e.SetFocus(e.Focus)
	digits := format.Digits(text)
	if digits == "" {
		return
	}
	for _, r := range digits {
		e.Slots[e.Focus] = string(r)
		if e.Focus == CodeLength-1 {
			return
		}
		e.Focus++
	}
}

// Backspace clears the focused slot, or moves focus back when it is
// already empty. The previous slot keeps its digit.
func (e *CodeEntry) Backspace() {
	e.SetFocus(e.Focus)
	if e.Slots[e.Focus] != "" {
		e.Slots[e.Focus] = ""
		return
	}
	if e.Focus > 0 {
		e.Focus--
	}
}

// SetFocus moves focus to slot i, clamped to the valid range.
func (e *CodeEntry) SetFocus(i int) {
	switch {
	case i < 0:
		i = 0
	case i >= CodeLength:
		i = CodeLength - 1
	}
	e.Focus = i
}

// Complete reports whether every slot holds a digit.
func (e CodeEntry) Complete() bool {
	for _, s := range e.Slots {
		if s == "" {
			return false
		}
	}
	return true
}

// Code joins the slots.
func (e CodeEntry) Code() string {
	return strings.Join(e.Slots[:], "")
}
