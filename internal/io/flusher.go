// Package io holds the writer that relays tool output to the terminal.
package io

import (
	"bufio"
	"io"
	"sync"
)

type flusher interface{ Flush() error }

// FlushingWriter relays tool output as soon as it is written. Writes are
// serialized so stdout and stderr of a tool never interleave mid-chunk.
type FlushingWriter struct {
	mu      sync.Mutex
	w       io.Writer
	flusher flusher
}

// NewFlushingWriter wraps w. Writers that already flush are used directly,
// anything else goes through a bufio.Writer that is flushed on every write.
func NewFlushingWriter(w io.Writer) *FlushingWriter {
	fw := &FlushingWriter{w: w}

	if f, ok := w.(flusher); ok {
		fw.flusher = f
	} else {
		bw := bufio.NewWriter(w)
		fw.w = bw
		fw.flusher = bw
	}

	return fw
}

func (fw *FlushingWriter) Write(p []byte) (int, error) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	n, err := fw.w.Write(p)
	if err != nil {
		return n, err
	}

	if err := fw.flusher.Flush(); err != nil {
		return n, err
	}
	return n, nil
}

// Flush flushes any buffered data
func (fw *FlushingWriter) Flush() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()
	return fw.flusher.Flush()
}
