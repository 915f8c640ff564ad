package sepstream

import (
	"bufio"
	"bytes"
	"io"

	"github.com/bft-labs/pktsep/internal/domain"
)

// EncodedLen returns the number of bytes Encode writes for packets.
func EncodedLen(packets []domain.Packet) int64 {
	var n int64
	for _, p := range packets {
		n += int64(p.Len()) + 1
	}
	return n
}

// Encode writes every packet followed by sep and returns the bytes written.
// It does not check that sep is absent from the packets; use ChooseSeparator.
func Encode(w io.Writer, packets []domain.Packet, sep byte) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for _, p := range packets {
		m, err := bw.Write(p.Bytes)
		n += int64(m)
		if err != nil {
			return n, err
		}
		if err := bw.WriteByte(sep); err != nil {
			return n, err
		}
		n++
	}
	return n, bw.Flush()
}

// Split cuts a separated stream back into packets. Empty records are
// skipped, and trailing bytes without a final separator form a last packet.
func Split(data []byte, sep byte) []domain.Packet {
	var out []domain.Packet
	for len(data) > 0 {
		end := bytes.IndexByte(data, sep)
		if end == -1 {
			end = len(data)
		}
		if end > 0 {
			rec := make([]byte, end)
			copy(rec, data[:end])
			out = append(out, domain.Packet{Bytes: rec})
		}
		if end == len(data) {
			break
		}
		data = data[end+1:]
	}
	return out
}

// Summary describes a set of packets.
type Summary struct {
	Packets    int
	PerPeer    map[domain.Peer]int
	Untagged   int
	TotalBytes int
	Distinct   int
}

// Summarize counts packets per peer, total bytes and distinct byte values.
func Summarize(packets []domain.Packet) Summary {
	s := Summary{
		Packets: len(packets),
		PerPeer: make(map[domain.Peer]int),
	}
	for _, p := range packets {
		s.TotalBytes += p.Len()
		if peer, ok := p.Peer(); ok {
			s.PerPeer[peer]++
		} else {
			s.Untagged++
		}
	}
	s.Distinct = usageOf(packets).distinct()
	return s
}
