// Package report renders human readable tables for the inspect and split
// commands.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pterm/pterm"

	"github.com/bft-labs/pktsep/internal/app"
	"github.com/bft-labs/pktsep/internal/domain"
	"github.com/bft-labs/pktsep/internal/photon"
	"github.com/bft-labs/pktsep/pkg/sepstream"
)

// maxPreview is the number of payload bytes shown per packet.
const maxPreview = 16

// Packets writes one row per decoded packet.
func Packets(w io.Writer, infos []app.PacketInfo) error {
	data := pterm.TableData{{"#", "peer", "len", "peer id", "crc", "cmds", "commands"}}
	for _, in := range infos {
		row := []string{fmt.Sprint(in.Index), in.Peer, fmt.Sprint(in.Length)}
		if in.Photon == nil {
			reason := "undecodable"
			if in.Err != nil {
				reason += ": " + in.Err.Error()
			}
			row = append(row, "-", "-", "-", reason)
		} else {
			h := in.Photon.Header
			row = append(row,
				fmt.Sprintf("0x%04x", h.PeerID),
				fmt.Sprint(h.CRCEnabled),
				fmt.Sprint(h.CommandCount),
				commandList(in.Photon.Commands),
			)
		}
		data = append(data, row)
	}
	return render(w, data)
}

func commandList(cmds []photon.Command) string {
	parts := make([]string, 0, len(cmds))
	for _, c := range cmds {
		s := fmt.Sprintf("%s ch=%d seq=%d", c.Type, c.ChannelID, c.ReliableSeq)
		if kind, ok := c.MessageKind(); ok {
			if msg, err := c.Message(); err == nil {
				s += " " + msg.String()
			} else {
				s += fmt.Sprintf(" msg=%d", kind)
			}
		}
		if c.Fragment != nil {
			s += fmt.Sprintf(" frag=%d/%d", c.Fragment.Number+1, c.Fragment.Count)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

// Split writes a summary line followed by one row per packet.
func Split(w io.Writer, packets []domain.Packet) error {
	s := sepstream.Summarize(packets)
	if _, err := fmt.Fprintf(w, "%d packets (peer0: %d, peer1: %d, untagged: %d), %d bytes, %d distinct byte values\n",
		s.Packets, s.PerPeer[domain.Peer0], s.PerPeer[domain.Peer1], s.Untagged, s.TotalBytes, s.Distinct); err != nil {
		return err
	}

	data := pterm.TableData{{"#", "peer", "len", "payload"}}
	for i, p := range packets {
		peer := "?"
		if v, ok := p.Peer(); ok {
			peer = v.String()
		}
		data = append(data, []string{fmt.Sprint(i), peer, fmt.Sprint(p.Len()), preview(p.Payload())})
	}
	return render(w, data)
}

func preview(b []byte) string {
	more := ""
	if len(b) > maxPreview {
		b, more = b[:maxPreview], " ..."
	}
	return fmt.Sprintf("% x%s", b, more)
}

func render(w io.Writer, data pterm.TableData) error {
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}
