package io

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockFlusher is a mock writer that tracks flush calls
type mockFlusher struct {
	bytes.Buffer
	flushCount int
	flushError error
}

func (m *mockFlusher) Flush() error {
	m.flushCount++
	return m.flushError
}

// errorWriter is a writer that always returns an error
type errorWriter struct {
	err error
}

func (e *errorWriter) Write(_ []byte) (n int, err error) {
	return 0, e.err
}

func TestNewFlushingWriter(t *testing.T) {
	t.Run("wraps a plain writer", func(t *testing.T) {
		var buf bytes.Buffer
		fw := NewFlushingWriter(&buf)

		assert.NotNil(t, fw.flusher)
		assert.NotEqual(t, &buf, fw.w)
	})

	t.Run("uses an existing flusher", func(t *testing.T) {
		mf := &mockFlusher{}
		fw := NewFlushingWriter(mf)

		assert.Equal(t, mf, fw.flusher)
		assert.Equal(t, mf, fw.w)
	})
}

func TestFlushingWriter_Write(t *testing.T) {
	t.Run("tool output reaches a plain writer immediately", func(t *testing.T) {
		var buf bytes.Buffer
		fw := NewFlushingWriter(&buf)

		_, err := fw.Write([]byte("would reformat app/main.py\n"))

		require.NoError(t, err)
		assert.Equal(t, "would reformat app/main.py\n", buf.String())
	})

	t.Run("every write flushes", func(t *testing.T) {
		mf := &mockFlusher{}
		fw := NewFlushingWriter(mf)

		_, err := fw.Write([]byte("first"))
		require.NoError(t, err)
		_, err = fw.Write([]byte(" second"))
		require.NoError(t, err)

		assert.Equal(t, 2, mf.flushCount)
		assert.Equal(t, "first second", mf.String())
	})

	t.Run("returns write error", func(t *testing.T) {
		fw := NewFlushingWriter(&errorWriter{err: errors.New("write failed")})

		_, err := fw.Write([]byte("test"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "write failed")
	})

	t.Run("returns flush error", func(t *testing.T) {
		fw := NewFlushingWriter(&mockFlusher{flushError: errors.New("flush failed")})

		_, err := fw.Write([]byte("test"))

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "flush failed")
	})

	t.Run("concurrent writes keep chunks whole", func(t *testing.T) {
		var buf bytes.Buffer
		fw := NewFlushingWriter(&buf)

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = fw.Write([]byte("line\n"))
			}()
		}
		wg.Wait()

		assert.Equal(t, strings.Repeat("line\n", 20), buf.String())
	})
}

func TestFlushingWriter_Flush(t *testing.T) {
	mf := &mockFlusher{flushError: errors.New("flush error")}
	fw := NewFlushingWriter(mf)

	err := fw.Flush()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "flush error")
	assert.Equal(t, 1, mf.flushCount)
}
