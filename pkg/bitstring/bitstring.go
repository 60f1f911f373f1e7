// Package bitstring implements the fixed-capacity bit vector backing
// Status List 2021 credentials, together with its wire encoding.
//
// The wire format renders every bit as a literal ASCII '0' or '1'
// character and base64-encodes the resulting text. It does not pack
// eight bits per byte. This matches the encoding produced by existing
// Open Badges status list deployments, so it must be preserved exactly
// for interoperability even though a packed encoding would be smaller.
package bitstring

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// Common errors returned by this package.
var (
	ErrInvalidSize     = errors.New("bit string size must be positive")
	ErrIndexOutOfRange = errors.New("bit index out of range")
	ErrInvalidEncoding = errors.New("invalid base64 bit string encoding")
)

// BitString is a fixed-length, 0-indexed sequence of bits.
// The length is immutable after creation.
type BitString struct {
	bits []bool
}

// New creates an all-zero bit string of the given size.
// Returns ErrInvalidSize if size is not positive.
func New(size int) (*BitString, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	return &BitString{bits: make([]bool, size)}, nil
}

// Len returns the number of bits in the string.
func (b *BitString) Len() int {
	return len(b.bits)
}

// Get reports whether the bit at index is set.
// Returns ErrIndexOutOfRange if index is outside [0, Len).
func (b *BitString) Get(index int) (bool, error) {
	if err := b.check(index); err != nil {
		return false, err
	}
	return b.bits[index], nil
}

// Set sets the bit at index to 1.
// Returns ErrIndexOutOfRange if index is outside [0, Len).
func (b *BitString) Set(index int) error {
	if err := b.check(index); err != nil {
		return err
	}
	b.bits[index] = true
	return nil
}

// Clear sets the bit at index to 0.
// Returns ErrIndexOutOfRange if index is outside [0, Len).
func (b *BitString) Clear(index int) error {
	if err := b.check(index); err != nil {
		return err
	}
	b.bits[index] = false
	return nil
}

func (b *BitString) check(index int) error {
	if index < 0 || index >= len(b.bits) {
		return fmt.Errorf("%w: index %d, size %d", ErrIndexOutOfRange, index, len(b.bits))
	}
	return nil
}

// Encode serializes the bit string to its base64 wire form.
// Bit Len-1 becomes the first character of the rendered text, bit 0 the
// last, so the textual representation reads most-significant bit first.
func (b *BitString) Encode() string {
	text := make([]byte, len(b.bits))
	for i, set := range b.bits {
		pos := len(b.bits) - 1 - i
		if set {
			text[pos] = '1'
		} else {
			text[pos] = '0'
		}
	}
	return base64.StdEncoding.EncodeToString(text)
}

// Decode deserializes a base64 wire-form string produced by Encode.
// The length of the decoded text determines the bit string length.
// Any character other than '1' leaves the corresponding bit unset; no
// error is raised for unexpected characters. This leniency is part of
// the wire contract and is deliberately not tightened here.
func Decode(encoded string) (*BitString, error) {
	text, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	if len(text) == 0 {
		return nil, fmt.Errorf("%w: empty bit string", ErrInvalidEncoding)
	}
	bs := &BitString{bits: make([]bool, len(text))}
	for i, c := range text {
		if c == '1' {
			bs.bits[len(text)-1-i] = true
		}
	}
	return bs, nil
}
