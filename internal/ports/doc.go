// Package ports defines the interfaces that connect the application layer
// (internal/app) to infrastructure adapters (internal/adapters).
//
//   - [PacketSource]: reads packets from a text dump
//   - [FileSink]: creates output files
//   - [Logger]: structured logging
package ports
