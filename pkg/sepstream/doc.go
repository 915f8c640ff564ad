// Package sepstream encodes packets into a flat byte stream delimited by a
// single separator byte, and splits such streams back into packets.
//
// The stream has no header and no length prefixes. Each packet is written
// as-is and followed by the separator, so the separator must be a byte that
// does not occur in any packet.
package sepstream
