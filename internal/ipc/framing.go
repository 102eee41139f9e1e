package ipc

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
)

// MaxFrameSize bounds a single decoded message to guard against a
// corrupt or hostile length prefix causing an unbounded allocation.
const MaxFrameSize = 16 * 1024 * 1024

// Conn frames gob-encoded messages over an underlying stream with a
// 4-byte big-endian length prefix, matching the teacher's own
// hand-rolled read/write framing in internal/pty/terminal.go.
type Conn struct {
	r *bufio.Reader
	w io.Writer
}

// NewConn wraps rw for framed message exchange.
func NewConn(rw io.ReadWriter) *Conn {
	return &Conn{r: bufio.NewReader(rw), w: rw}
}

// WriteMessage gob-encodes v and writes it as one length-prefixed
// frame.
func (c *Conn) WriteMessage(v any) error {
	var body bytes.Buffer
	if err := gob.NewEncoder(&body).Encode(v); err != nil {
		return fmt.Errorf("ipc: encode: %w", err)
	}

	header := make([]byte, 4)
	binary.BigEndian.PutUint32(header, uint32(body.Len()))
	if _, err := c.w.Write(header); err != nil {
		return fmt.Errorf("ipc: write header: %w", err)
	}
	if _, err := c.w.Write(body.Bytes()); err != nil {
		return fmt.Errorf("ipc: write body: %w", err)
	}
	return nil
}

// ReadMessage reads one length-prefixed frame and gob-decodes it
// into v, which must be a pointer to the expected message type.
func (c *Conn) ReadMessage(v any) error {
	header := make([]byte, 4)
	if _, err := io.ReadFull(c.r, header); err != nil {
		return err
	}
	size := binary.BigEndian.Uint32(header)
	if size > MaxFrameSize {
		return fmt.Errorf("ipc: frame size %d exceeds max %d", size, MaxFrameSize)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(c.r, body); err != nil {
		return fmt.Errorf("ipc: read body: %w", err)
	}
	if err := gob.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		return fmt.Errorf("ipc: decode: %w", err)
	}
	return nil
}
