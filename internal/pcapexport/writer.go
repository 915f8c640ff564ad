// Package pcapexport writes parsed packets as a pcap capture so they can be
// opened in Wireshark. Each packet becomes an Ethernet/IPv4/UDP frame whose
// direction follows the packet's peer tag.
package pcapexport

import (
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"

	"github.com/bft-labs/pktsep/internal/domain"
)

const snapshotLen = 65536

// Options control addressing and timestamps of the generated frames.
type Options struct {
	ClientIP   net.IP
	ServerIP   net.IP
	ClientPort uint16
	ServerPort uint16
	Start      time.Time
	Interval   time.Duration
}

// DefaultOptions returns options for a 10.0.0.1 -> 10.0.0.2:5055 conversation
// starting now.
func DefaultOptions() Options {
	return Options{
		ClientIP:   net.IPv4(10, 0, 0, 1),
		ServerIP:   net.IPv4(10, 0, 0, 2),
		ClientPort: 49152,
		ServerPort: 5055,
		Start:      time.Now(),
		Interval:   200 * time.Millisecond,
	}
}

type endpoint struct {
	eth layers.Ethernet
	ip  layers.IPv4
	udp layers.UDP
}

// Writer emits pcap records.
type Writer struct {
	w    *pcapgo.Writer
	opts gopacket.SerializeOptions
	buf  gopacket.SerializeBuffer
	ts   time.Time
	step time.Duration

	c2s endpoint
	s2c endpoint
}

// NewWriter writes the pcap file header to w and returns a Writer.
func NewWriter(w io.Writer, o Options) (*Writer, error) {
	if o.ClientIP == nil || o.ServerIP == nil {
		return nil, fmt.Errorf("client and server addresses are required")
	}
	pw := pcapgo.NewWriter(w)
	if err := pw.WriteFileHeader(snapshotLen, layers.LinkTypeEthernet); err != nil {
		return nil, fmt.Errorf("write pcap header: %w", err)
	}

	clientMAC := net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x01}
	serverMAC := net.HardwareAddr{0x00, 0x00, 0x00, 0x00, 0x00, 0x02}

	return &Writer{
		w: pw,
		opts: gopacket.SerializeOptions{
			FixLengths:       true,
			ComputeChecksums: true,
		},
		buf:  gopacket.NewSerializeBuffer(),
		ts:   o.Start,
		step: o.Interval,
		c2s:  newEndpoint(clientMAC, serverMAC, o.ClientIP, o.ServerIP, o.ClientPort, o.ServerPort),
		s2c:  newEndpoint(serverMAC, clientMAC, o.ServerIP, o.ClientIP, o.ServerPort, o.ClientPort),
	}, nil
}

func newEndpoint(srcMAC, dstMAC net.HardwareAddr, srcIP, dstIP net.IP, srcPort, dstPort uint16) endpoint {
	return endpoint{
		eth: layers.Ethernet{
			SrcMAC:       srcMAC,
			DstMAC:       dstMAC,
			EthernetType: layers.EthernetTypeIPv4,
		},
		ip: layers.IPv4{
			Version:  4,
			TTL:      64,
			Protocol: layers.IPProtocolUDP,
			SrcIP:    srcIP.To4(),
			DstIP:    dstIP.To4(),
		},
		udp: layers.UDP{
			SrcPort: layers.UDPPort(srcPort),
			DstPort: layers.UDPPort(dstPort),
		},
	}
}

// WritePacket writes p as one frame. Packets tagged peer1 travel from the
// server to the client, everything else from the client to the server.
func (w *Writer) WritePacket(p domain.Packet) error {
	e := &w.c2s
	if peer, ok := p.Peer(); ok && peer == domain.Peer1 {
		e = &w.s2c
	}

	if err := e.udp.SetNetworkLayerForChecksum(&e.ip); err != nil {
		return err
	}
	if err := gopacket.SerializeLayers(w.buf, w.opts, &e.eth, &e.ip, &e.udp, gopacket.Payload(p.Payload())); err != nil {
		return fmt.Errorf("serialize: %w", err)
	}
	data := w.buf.Bytes()

	ci := gopacket.CaptureInfo{
		Timestamp:     w.ts,
		CaptureLength: len(data),
		Length:        len(data),
	}
	w.ts = w.ts.Add(w.step)
	return w.w.WritePacket(ci, data)
}

// WriteAll writes every packet and returns how many were written.
func WriteAll(w io.Writer, packets []domain.Packet, o Options) (int, error) {
	pw, err := NewWriter(w, o)
	if err != nil {
		return 0, err
	}
	for i, p := range packets {
		if err := pw.WritePacket(p); err != nil {
			return i, fmt.Errorf("packet %d: %w", i, err)
		}
	}
	return len(packets), nil
}
