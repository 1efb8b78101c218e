// Package ams implements the AMS/TCP framing layer and per-command wire
// structures of the Beckhoff ADS protocol: header encode/decode, and the
// body builders for every supported command.
package ams

import (
	"encoding/binary"
	"fmt"
)

// Buffer is a small little-endian read/write cursor over a byte slice. All
// AMS/ADS integers are little-endian on the wire, so every Read/Write helper
// here hard-codes that byte order rather than taking it as a parameter.
//
// Buffer accumulates the first error it sees (in Err) and turns every
// subsequent operation into a no-op, so callers chain WriteStruct/ReadStruct
// calls and check b.Err() once at the end.
type Buffer struct {
	buf []byte
	off int
	err error
}

// NewBuffer wraps an existing byte slice for decoding.
func NewBuffer(b []byte) *Buffer {
	return &Buffer{buf: b}
}

// Err returns the first error encountered by any Read/Write call, if any.
func (b *Buffer) Err() error {
	return b.err
}

// Bytes returns the whole underlying slice: the accumulated written bytes
// after Write calls. Read calls do not shorten it.
func (b *Buffer) Bytes() []byte {
	return b.buf
}

func (b *Buffer) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Write appends p to the buffer verbatim.
func (b *Buffer) Write(p []byte) {
	if b.err != nil {
		return
	}
	b.buf = append(b.buf, p...)
}

// WriteN appends data, zero-padded or truncated to exactly n bytes.
func (b *Buffer) WriteN(data []byte, n uint32) {
	if b.err != nil {
		return
	}
	fixed := make([]byte, n)
	copy(fixed, data)
	b.buf = append(b.buf, fixed...)
}

func (b *Buffer) WriteUint8(v uint8) {
	if b.err != nil {
		return
	}
	b.buf = append(b.buf, v)
}

func (b *Buffer) WriteUint16(v uint16) {
	if b.err != nil {
		return
	}
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Buffer) WriteUint32(v uint32) {
	if b.err != nil {
		return
	}
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Buffer) WriteUint64(v uint64) {
	if b.err != nil {
		return
	}
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

// WriteStruct writes any type implementing wireEncoder to the buffer. It is
// used to compose packets out of TCPHeader/AMSHeader plus a command body.
func (b *Buffer) WriteStruct(e wireEncoder) {
	if b.err != nil {
		return
	}
	b.fail(e.Encode(b))
}

type wireEncoder interface {
	Encode(b *Buffer) error
}

// Read returns the next len(dst) bytes, copying them into dst.
func (b *Buffer) Read(dst []byte) {
	if b.err != nil {
		return
	}
	n := copy(dst, b.remaining())
	if n < len(dst) {
		b.fail(fmt.Errorf("ams: short read: want %d bytes, have %d", len(dst), n))
		return
	}
	b.off += n
}

// ReadN returns the next n bytes as a fresh slice.
func (b *Buffer) ReadN(n int) []byte {
	if b.err != nil {
		return nil
	}
	if n < 0 || n > len(b.remaining()) {
		b.fail(fmt.Errorf("ams: short read: want %d bytes, have %d", n, len(b.remaining())))
		return nil
	}
	out := make([]byte, n)
	copy(out, b.remaining())
	b.off += n
	return out
}

func (b *Buffer) remaining() []byte {
	if b.off > len(b.buf) {
		return nil
	}
	return b.buf[b.off:]
}

func (b *Buffer) ReadUint8() uint8 {
	v := b.ReadN(1)
	if v == nil {
		return 0
	}
	return v[0]
}

func (b *Buffer) ReadUint16() uint16 {
	v := b.ReadN(2)
	if v == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(v)
}

func (b *Buffer) ReadUint32() uint32 {
	v := b.ReadN(4)
	if v == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(v)
}

func (b *Buffer) ReadUint64() uint64 {
	v := b.ReadN(8)
	if v == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(v)
}

// ReadStruct reads any type implementing wireDecoder from the buffer.
func (b *Buffer) ReadStruct(d wireDecoder) {
	if b.err != nil {
		return
	}
	b.fail(d.Decode(b))
}

type wireDecoder interface {
	Decode(b *Buffer) error
}
