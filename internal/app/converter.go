package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/bft-labs/pktsep/internal/domain"
	"github.com/bft-labs/pktsep/internal/pcapexport"
	"github.com/bft-labs/pktsep/internal/ports"
	"github.com/bft-labs/pktsep/pkg/log"
	"github.com/bft-labs/pktsep/pkg/sepstream"
)

// ConvertRequest describes one conversion.
type ConvertRequest struct {
	Input  string
	Output string

	// Separator is the preferred separator, or sepstream.Auto.
	Separator int

	// PcapOutput, when set, also receives the packets as a pcap capture.
	PcapOutput string
	Pcap       pcapexport.Options
}

// ConvertResult reports what a conversion did.
type ConvertResult struct {
	Packets   int
	Dropped   int
	Separator byte
	// Written is false when no separator could be found.
	Written      bool
	BytesWritten int64
	PcapWritten  bool
}

// Converter turns dumps into separated binary streams.
type Converter struct {
	source ports.PacketSource
	sink   ports.FileSink
	logger ports.Logger
}

// NewConverter creates a Converter with the given dependencies.
func NewConverter(source ports.PacketSource, sink ports.FileSink, logger ports.Logger) *Converter {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Converter{source: source, sink: sink, logger: logger}
}

// Convert parses req.Input and writes the separated stream to req.Output.
// A dump that uses all 256 byte values is not an error: the result has
// Written set to false and no output file is created.
func (c *Converter) Convert(ctx context.Context, req ConvertRequest) (ConvertResult, error) {
	var res ConvertResult

	if samePath(req.Input, req.Output) || samePath(req.Input, req.PcapOutput) || samePath(req.Output, req.PcapOutput) {
		return res, domain.ErrSamePath
	}

	parsed, err := c.source.ReadPackets(ctx, req.Input)
	if err != nil {
		return res, err
	}
	res.Packets = len(parsed.Packets)
	res.Dropped = parsed.Dropped
	c.logger.Debug("parsed dump",
		log.String("input", req.Input),
		log.Int("lines", parsed.Lines),
		log.Int("packets", res.Packets),
	)
	if parsed.Dropped > 0 {
		c.logger.Warn("dropping unterminated packet at end of input", log.Int("bytes", parsed.Dropped))
	}

	// The pcap capture does not depend on the separator, so it is written
	// even when none is found, but never when the requested one is invalid.
	sep, err := sepstream.ChooseSeparator(parsed.Packets, req.Separator)
	noSeparator := errors.Is(err, domain.ErrNoSeparator)
	if err != nil && !noSeparator {
		return res, err
	}

	if req.PcapOutput != "" {
		if err := c.writePcap(ctx, req, parsed.Packets); err != nil {
			return res, err
		}
		res.PcapWritten = true
	}

	if noSeparator {
		c.logger.Warn("all byte values are used in the packets, separator would be ambiguous; nothing written",
			log.Int("packets", res.Packets))
		return res, nil
	}
	res.Separator = sep
	c.logger.Info("found separator", log.Byte("separator", sep))
	c.logger.Debug("encoding stream", log.Int64("expected_bytes", sepstream.EncodedLen(parsed.Packets)))

	err = c.sink.WriteFile(ctx, req.Output, func(w io.Writer) error {
		n, err := sepstream.Encode(w, parsed.Packets, sep)
		res.BytesWritten = n
		return err
	})
	if err != nil {
		return res, fmt.Errorf("write %s: %w", req.Output, err)
	}
	res.Written = true

	c.logger.Info("stream written",
		log.String("output", req.Output),
		log.Int("packets", res.Packets),
		log.Int64("bytes", res.BytesWritten),
	)
	return res, nil
}

func (c *Converter) writePcap(ctx context.Context, req ConvertRequest, packets []domain.Packet) error {
	var n int
	err := c.sink.WriteFile(ctx, req.PcapOutput, func(w io.Writer) error {
		var err error
		n, err = pcapexport.WriteAll(w, packets, req.Pcap)
		return err
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", req.PcapOutput, err)
	}
	c.logger.Info("pcap written", log.String("output", req.PcapOutput), log.Int("packets", n))
	return nil
}

// ExportPcap parses input and writes only the pcap capture to output.
func (c *Converter) ExportPcap(ctx context.Context, input, output string, o pcapexport.Options) (int, error) {
	if samePath(input, output) {
		return 0, domain.ErrSamePath
	}
	parsed, err := c.source.ReadPackets(ctx, input)
	if err != nil {
		return 0, err
	}
	if parsed.Dropped > 0 {
		c.logger.Warn("dropping unterminated packet at end of input", log.Int("bytes", parsed.Dropped))
	}
	if len(parsed.Packets) == 0 {
		return 0, domain.ErrNoPackets
	}
	req := ConvertRequest{PcapOutput: output, Pcap: o}
	if err := c.writePcap(ctx, req, parsed.Packets); err != nil {
		return 0, err
	}
	return len(parsed.Packets), nil
}

func samePath(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	aa, errA := filepath.Abs(a)
	bb, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
