package serial

import (
	"log/slog"
)

// StdoutSink buffers transmitted bytes into lines and logs each completed
// line, the way a DMG test ROM's serial "print" routine is conventionally
// observed. Grounded on the common debug pattern of treating the link
// cable as a text console for blargg-style test ROMs.
type StdoutSink struct {
	logger *slog.Logger
	line   []byte
}

// NewStdoutSink returns a Sink that logs each newline-terminated line it
// receives via slog.
func NewStdoutSink() *StdoutSink {
	return &StdoutSink{logger: slog.Default()}
}

// Receive implements Sink.
func (s *StdoutSink) Receive(b byte) {
	if b == '\n' || b == '\r' {
		if len(s.line) > 0 {
			s.logger.Info("serial", "line", string(s.line))
			s.line = s.line[:0]
		}
		return
	}
	s.line = append(s.line, b)
}
