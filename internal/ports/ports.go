package ports

import (
	"context"
	"io"

	"github.com/bft-labs/pktsep/pkg/dump"
	"github.com/bft-labs/pktsep/pkg/log"
)

// PacketSource reads every packet of a dump file.
type PacketSource interface {
	ReadPackets(ctx context.Context, path string) (dump.Result, error)
}

// FileSink creates output files.
// Implementations must not leave a partially written file at path when write
// returns an error.
type FileSink interface {
	WriteFile(ctx context.Context, path string, write func(io.Writer) error) error
}

// Logger is the structured logger used by the application layer.
type Logger = log.Logger

// Field is a structured log field.
type Field = log.Field
