package dump

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bft-labs/pktsep/internal/domain"
)

const sampleDump = `char peer0_0[] = { /* Packet 4 */
0xf3, 0x02, 0x00, 0x01, 
0x00, 0x00 };
char peer1_0[] = { /* Packet 5 */
0xf3, 0x03 };
char peer0_1[] = { /* Packet 9 */
0x13, 0x37, 
0xff };
`

func packetBytes(pkts []domain.Packet) [][]byte {
	out := make([][]byte, len(pkts))
	for i, p := range pkts {
		out[i] = p.Bytes
	}
	return out
}

func TestParse(t *testing.T) {
	res, err := Parse(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := [][]byte{
		{0, 0xf3, 0x02, 0x00, 0x01, 0x00, 0x00},
		{1, 0xf3, 0x03},
		{0, 0x13, 0x37, 0xff},
	}
	if diff := cmp.Diff(want, packetBytes(res.Packets)); diff != "" {
		t.Errorf("packets mismatch (-want +got):\n%s", diff)
	}
	if res.Dropped != 0 {
		t.Errorf("Dropped = %d, want 0", res.Dropped)
	}
	if res.Lines != 8 {
		t.Errorf("Lines = %d, want 8", res.Lines)
	}
}

func TestParse_UnterminatedPacketIsDropped(t *testing.T) {
	in := sampleDump + "char peer1_1[] = { /* Packet 10 */\n0x01, 0x02,\n"
	res, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(res.Packets) != 3 {
		t.Fatalf("got %d packets, want 3", len(res.Packets))
	}
	if res.Dropped != 3 {
		t.Errorf("Dropped = %d, want 3 (tag + two bytes)", res.Dropped)
	}
}

func TestParse_NoTrailingNewline(t *testing.T) {
	res, err := Parse(strings.NewReader("char peer1_0[] = {\n0x05, 0x06 };"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([][]byte{{1, 5, 6}}, packetBytes(res.Packets)); diff != "" {
		t.Errorf("packets mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_BlankLinesAndBareClosing(t *testing.T) {
	in := "char peer0_0[] = {\n\n0x01, 0x02,\n};\n"
	res, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([][]byte{{0, 1, 2}}, packetBytes(res.Packets)); diff != "" {
		t.Errorf("packets mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_SyntaxErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		line int
	}{
		{name: "not a number", in: "char peer0_0[] = {\n0x01, zz,\n0x02 };\n", line: 2},
		{name: "out of range", in: "char peer0_0[] = {\n0x100 };\n", line: 2},
		{name: "negative", in: "char peer0_0[] = {\n-1 };\n", line: 2},
		{name: "empty element", in: "char peer0_0[] = {\n0x01,, 0x02,\n0x03 };\n", line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.in))
			var se *SyntaxError
			if !errors.As(err, &se) {
				t.Fatalf("Parse() error = %v, want *SyntaxError", err)
			}
			if se.Line != tt.line {
				t.Errorf("Line = %d, want %d", se.Line, tt.line)
			}
		})
	}
}

func TestReader_Next(t *testing.T) {
	r := NewReader(strings.NewReader(sampleDump))
	count := 0
	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		count++
	}
	if count != 3 {
		t.Errorf("read %d packets, want 3", count)
	}
	// Further calls keep returning EOF.
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("Next() after end = %v, want io.EOF", err)
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in      string
		want    []byte
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "0x01, 0x02,", want: []byte{1, 2}},
		{in: "0x01, 0x02", want: []byte{1, 2}},
		{in: "1, 0o17, 0b11, 255", want: []byte{1, 15, 3, 255}},
		{in: "0x01,,", want: []byte{1}},
		{in: "256", wantErr: true},
		{in: "0x1g", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseList(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseList(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseList(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseList(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stream.txt")
	if err := os.WriteFile(path, []byte(sampleDump), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	res, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(res.Packets) != 3 {
		t.Errorf("got %d packets, want 3", len(res.Packets))
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("ParseFile() expected error for missing file")
	}
}
