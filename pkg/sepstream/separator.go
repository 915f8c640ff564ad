package sepstream

import (
	"fmt"

	"github.com/bft-labs/pktsep/internal/domain"
)

// Auto asks ChooseSeparator to pick the separator itself.
const Auto = -1

// usage records which byte values occur across a set of packets.
type usage [256]bool

func usageOf(packets []domain.Packet) *usage {
	var u usage
	for _, p := range packets {
		for _, b := range p.Bytes {
			u[b] = true
		}
	}
	return &u
}

func (u *usage) distinct() int {
	n := 0
	for _, used := range u {
		if used {
			n++
		}
	}
	return n
}

// FindSeparator returns the smallest byte value absent from every packet.
// The second result is false when all 256 values are in use.
func FindSeparator(packets []domain.Packet) (byte, bool) {
	u := usageOf(packets)
	for v := 0; v < 256; v++ {
		if !u[v] {
			return byte(v), true
		}
	}
	return 0, false
}

// ChooseSeparator returns preferred when it is free, or the result of
// FindSeparator when preferred is Auto (or any negative value).
func ChooseSeparator(packets []domain.Packet, preferred int) (byte, error) {
	if preferred < 0 {
		sep, ok := FindSeparator(packets)
		if !ok {
			return 0, domain.ErrNoSeparator
		}
		return sep, nil
	}
	if preferred > 255 {
		return 0, fmt.Errorf("%w: %d", domain.ErrInvalidSeparator, preferred)
	}
	for i, p := range packets {
		if p.Contains(byte(preferred)) {
			return 0, fmt.Errorf("%w: %d in packet %d", domain.ErrSeparatorInUse, preferred, i)
		}
	}
	return byte(preferred), nil
}
