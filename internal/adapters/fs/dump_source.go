package fs

import (
	"context"

	"github.com/bft-labs/pktsep/pkg/dump"
)

// DumpSource implements ports.PacketSource for dump files on disk.
type DumpSource struct{}

// NewDumpSource creates a DumpSource.
func NewDumpSource() *DumpSource {
	return &DumpSource{}
}

// ReadPackets parses the dump at path.
func (DumpSource) ReadPackets(ctx context.Context, path string) (dump.Result, error) {
	if err := ctx.Err(); err != nil {
		return dump.Result{}, err
	}
	return dump.ParseFile(path)
}
