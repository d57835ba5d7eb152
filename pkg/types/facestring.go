package types

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFaceString is returned when a face string has the wrong length
// or contains letters outside the face alphabet.
var ErrInvalidFaceString = errors.New("cubr: invalid face string")

const (
	// FaceletCount is the number of stickers on a 3x3 cube.
	FaceletCount = 54

	// FaceOrder is the order faces appear in a face string.
	FaceOrder = "URFDLB"

	// UnknownFacelet marks a sticker whose color has not been entered.
	UnknownFacelet = 'X'
)

// ValidateFaceString checks that s is 54 letters over U R F D L B, also
// accepting X when allowUnknown is set.
func ValidateFaceString(s string, allowUnknown bool) error {
	if len(s) != FaceletCount {
		return fmt.Errorf("%w: length %d, want %d", ErrInvalidFaceString, len(s), FaceletCount)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(FaceOrder, c) >= 0 {
			continue
		}
		if allowUnknown && c == UnknownFacelet {
			continue
		}
		return fmt.Errorf("%w: unexpected %q at %d", ErrInvalidFaceString, c, i)
	}
	return nil
}

// SolvedFaceString returns the face string of a solved cube.
func SolvedFaceString() string {
	var b strings.Builder
	for i := 0; i < len(FaceOrder); i++ {
		b.WriteString(strings.Repeat(FaceOrder[i:i+1], 9))
	}
	return b.String()
}
