package proto

import (
	"bytes"
	"errors"
	"strings"
)

// ErrLineTooLong reports a peer that sent more buffered bytes than allowed
// without ever terminating the line. Fatal for that connection.
var ErrLineTooLong = errors.New("line exceeds maximum length")

// Framer reassembles a byte stream into newline-terminated lines. Bytes after
// the last terminator stay buffered until the next Push. One Framer serves
// exactly one connection.
type Framer struct {
	buf []byte
	max int
}

// NewFramer builds a framer that tolerates at most max buffered bytes per
// unterminated line. max <= 0 means no limit.
func NewFramer(max int) *Framer {
	return &Framer{max: max}
}

// Push appends p to the internal buffer and returns every complete line it
// now holds, terminators stripped. A trailing carriage return is stripped as
// well so telnet-style peers work. Returns ErrLineTooLong when the residue
// after extracting lines exceeds the configured maximum; the framer is
// unusable afterwards.
func (f *Framer) Push(p []byte) ([]string, error) {
	f.buf = append(f.buf, p...)

	var lines []string
	for {
		i := bytes.IndexByte(f.buf, '\n')
		if i < 0 {
			break
		}
		lines = append(lines, strings.TrimSuffix(string(f.buf[:i]), "\r"))
		f.buf = f.buf[i+1:]
	}

	if len(lines) > 0 {
		// Reclaim the consumed prefix so the buffer does not grow forever.
		f.buf = append([]byte(nil), f.buf...)
	}

	if f.max > 0 && len(f.buf) > f.max {
		return lines, ErrLineTooLong
	}
	return lines, nil
}

// Pending returns how many bytes are buffered without a terminator.
func (f *Framer) Pending() int {
	return len(f.buf)
}
