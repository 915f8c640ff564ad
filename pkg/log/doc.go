// Package log provides the logging abstraction used across pktsep.
//
// Components depend on the Logger interface; the command line wires in the
// zerolog adapter and tests use the no-op logger:
//
//	logger := log.NewZerologAdapter(os.Stderr, "info")
//	logger.Info("found separator", log.Byte("separator", 0x04))
package log
