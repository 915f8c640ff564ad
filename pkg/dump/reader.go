package dump

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bft-labs/pktsep/internal/domain"
)

const (
	markerPeer0 = "peer0"
	markerPeer1 = "peer1"
	closing     = "}"
)

// SyntaxError describes a line that could not be turned into byte values.
type SyntaxError struct {
	Line int
	Text string
	Err  error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

var (
	errEmptyElement = errors.New("empty list element")
	errOutOfRange   = errors.New("value out of byte range")
)

// Reader yields packets from a dump one at a time.
type Reader struct {
	reader  *bufio.Reader
	line    int
	pending []byte
	done    bool
}

// NewReader returns a Reader consuming r.
func NewReader(r io.Reader) *Reader {
	return &Reader{reader: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next complete packet.
// It returns io.EOF once the input is exhausted. Bytes read after the last
// closing brace are not returned; see Pending.
func (r *Reader) Next() (domain.Packet, error) {
	for !r.done {
		raw, err := r.reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return domain.Packet{}, err
		}
		if errors.Is(err, io.EOF) {
			r.done = true
			if raw == "" {
				break
			}
		}
		r.line++

		l := strings.TrimSpace(raw)
		switch {
		case strings.Contains(l, markerPeer0):
			r.pending = append(r.pending, byte(domain.Peer0))
		case strings.Contains(l, markerPeer1):
			r.pending = append(r.pending, byte(domain.Peer1))
		case strings.Contains(l, closing):
			head, _, _ := strings.Cut(l, closing)
			if err := r.appendValues(l, head); err != nil {
				return domain.Packet{}, err
			}
			p := domain.Packet{Bytes: r.pending}
			r.pending = nil
			return p, nil
		default:
			if err := r.appendValues(l, l); err != nil {
				return domain.Packet{}, err
			}
		}
	}
	return domain.Packet{}, io.EOF
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	return r.line
}

// Pending returns the bytes of an unterminated packet at the end of input.
func (r *Reader) Pending() []byte {
	return r.pending
}

func (r *Reader) appendValues(line, list string) error {
	vals, err := ParseList(list)
	if err != nil {
		return &SyntaxError{Line: r.line, Text: line, Err: err}
	}
	r.pending = append(r.pending, vals...)
	return nil
}

// ParseList parses a comma separated list of integer literals into bytes.
// One trailing comma is ignored, so both "1, 2" and "1, 2," are accepted.
// Literals use Go integer syntax (0x, 0o, 0b prefixes and _ separators).
func ParseList(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ",")
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	fields := strings.Split(s, ",")
	if strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(fields)-1]
	}

	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, errEmptyElement
		}
		v, err := strconv.ParseInt(f, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f, err)
		}
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: %d", errOutOfRange, v)
		}
		out = append(out, byte(v))
	}
	return out, nil
}

// Result is the outcome of reading a whole dump.
type Result struct {
	Packets []domain.Packet
	// Dropped is the number of bytes after the last closing brace.
	Dropped int
	Lines   int
}

// Parse reads every packet from r.
func Parse(r io.Reader) (Result, error) {
	dr := NewReader(r)
	var res Result
	for {
		p, err := dr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return res, err
		}
		res.Packets = append(res.Packets, p)
	}
	res.Dropped = len(dr.Pending())
	res.Lines = dr.Line()
	return res, nil
}

// ParseFile opens path and parses it.
func ParseFile(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()

	res, err := Parse(f)
	if err != nil {
		return res, fmt.Errorf("parse %s: %w", path, err)
	}
	return res, nil
}
