// Package domain contains the core entities of pktsep.
//
// It has no dependencies on file formats, logging or the command line.
//
// # Entities
//
//   - [Packet]: one captured packet, a peer tag followed by its bytes
//   - [Peer]: which side of the conversation sent the packet
//
// Sentinel errors returned across packages live in errors.go and are meant
// to be checked with errors.Is.
package domain
