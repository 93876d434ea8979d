package gridshell

import (
	"bytes"
	"io"
	"sync"
)

// InputBuffer is the FIFO of encoded input the editor core reads from.
// It is safe for concurrent use.
type InputBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p to the buffer.
func (b *InputBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// Read reads buffered input. It returns io.EOF when the buffer is empty.
func (b *InputBuffer) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.buf.Len() == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	return b.buf.Read(p)
}

// Len returns the number of unread bytes.
func (b *InputBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

// Reset discards all unread input.
func (b *InputBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

var _ io.ReadWriter = (*InputBuffer)(nil)
