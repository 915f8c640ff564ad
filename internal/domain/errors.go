package domain

import "errors"

// Domain errors represent error conditions in the pktsep domain.
var (
	// ErrNoSeparator is returned when every byte value 0..255 occurs in the
	// packets, so no single byte can delimit them unambiguously.
	ErrNoSeparator = errors.New("pktsep: all byte values are used, separator would be ambiguous")

	// ErrSeparatorInUse is returned when a requested separator occurs in a packet.
	ErrSeparatorInUse = errors.New("pktsep: separator occurs in packet data")

	// ErrInvalidSeparator is returned for separator values outside 0..255.
	ErrInvalidSeparator = errors.New("pktsep: separator must be between 0 and 255")

	// ErrSamePath is returned when input and output name the same file.
	ErrSamePath = errors.New("pktsep: input and output can not be the same file")

	// ErrNoPackets is returned by operations that need at least one packet.
	ErrNoPackets = errors.New("pktsep: no packets")
)
