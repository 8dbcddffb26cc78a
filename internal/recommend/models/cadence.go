package models

import (
	"fmt"
	"regexp"
	"strconv"

	dErrors "tandem/pkg/domain-errors"
)

// Cadence is the temporal cache a recommendation belongs to.
type Cadence string

const (
	CadenceDaily Cadence = "DAILY"
	CadenceSlot  Cadence = "SLOT"
)

func (c Cadence) IsValid() bool {
	return c == CadenceDaily || c == CadenceSlot
}

// ParseCadence accepts DAILY or SLOT.
func ParseCadence(s string) (Cadence, error) {
	c := Cadence(s)
	if !c.IsValid() {
		return "", dErrors.New(dErrors.CodeBadRequest, "cadence must be DAILY or SLOT")
	}
	return c, nil
}

// SlotLabel names a slot by its local start time, "HH:mm".
type SlotLabel string

var slotLabelPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsWellFormed reports whether the label matches HH:mm.
func (l SlotLabel) IsWellFormed() bool {
	return slotLabelPattern.MatchString(string(l))
}

// ParseSlotLabel validates an HH:mm label.
func ParseSlotLabel(s string) (SlotLabel, error) {
	l := SlotLabel(s)
	if !l.IsWellFormed() {
		return "", dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("slot label %q must match HH:mm", s))
	}
	return l, nil
}

// MinuteOfDay returns the label's offset from local midnight in minutes.
// Callers must check IsWellFormed first.
func (l SlotLabel) MinuteOfDay() int {
	s := string(l)
	h, _ := strconv.Atoi(s[0:2])
	m, _ := strconv.Atoi(s[3:5])
	return h*60 + m
}

func (l SlotLabel) String() string {
	return string(l)
}
