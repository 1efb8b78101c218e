package ams

import (
	"fmt"
	"strconv"
	"strings"
)

// HeaderSize is the size in bytes of the fixed AMS/TCP prefix: the 6-byte
// TCP-level header plus the 32-byte AMS header.
const HeaderSize = 38

// AMSHeaderSize is the size of the AMS header alone, without the leading
// 6-byte TCP prefix. It is what the AMS length field in TCPHeader counts
// against: AMSHeaderSize + payload length.
const AMSHeaderSize = HeaderSize - 6

// State flag bits carried in AMSHeader.StateFlags.
const (
	StateADSCommand uint16 = 0x0004
	StateResponse   uint16 = 0x0001
)

// HasState reports whether every bit set in want is also set in h.StateFlags.
func HasState(h AMSHeader, want uint16) bool {
	return h.StateFlags&want == want
}

// AmsNetID is a six-byte logical AMS endpoint identifier (a.b.c.d.e.f).
type AmsNetID [6]byte

// String renders the NetId in dotted form.
func (id AmsNetID) String() string {
	return fmt.Sprintf("%d.%d.%d.%d.%d.%d", id[0], id[1], id[2], id[3], id[4], id[5])
}

// ParseAmsNetID parses a dotted six-octet AMS NetId such as
// "5.80.201.232.1.1". Any other shape is rejected.
func ParseAmsNetID(s string) (AmsNetID, error) {
	var id AmsNetID
	parts := strings.Split(s, ".")
	if len(parts) != 6 {
		return id, fmt.Errorf("%w: %q", ErrInvalidNetID, s)
	}
	for i, part := range parts {
		p, err := strconv.Atoi(part)
		if err != nil {
			return id, fmt.Errorf("%w: %q", ErrInvalidNetID, s)
		}
		if p < 0 || p > 0xff {
			return id, fmt.Errorf("%w: %q: octet %d out of range", ErrInvalidNetID, s, i)
		}
		id[i] = byte(p)
	}
	return id, nil
}

// Addr is a full AMS address: a NetId plus an AMS port.
type Addr struct {
	NetID AmsNetID
	Port  uint16
}

func (a Addr) String() string {
	return fmt.Sprintf("%s:%d", a.NetID, a.Port)
}

// TCPHeader is the 6-byte AMS/TCP prefix: 2 reserved bytes plus the 4-byte
// little-endian length of everything that follows (AMS header + payload).
type TCPHeader struct {
	Length uint32
}

func (h *TCPHeader) Encode(b *Buffer) error {
	b.WriteUint16(0) // reserved
	b.WriteUint32(h.Length)
	return b.Err()
}

func (h *TCPHeader) Decode(b *Buffer) error {
	_ = b.ReadUint16() // reserved
	h.Length = b.ReadUint32()
	return b.Err()
}

// AMSHeader is the 32-byte AMS header that follows TCPHeader, occupying
// offsets 6..38 of the full frame.
type AMSHeader struct {
	Target     Addr
	Sender     Addr
	CmdID      AdsCommand
	StateFlags uint16
	Length     uint32 // payload length
	ErrorCode  uint32 // AMS-level error
	InvokeID   uint32
}

func (h *AMSHeader) Encode(b *Buffer) error {
	b.Write(h.Target.NetID[:])
	b.WriteUint16(h.Target.Port)
	b.Write(h.Sender.NetID[:])
	b.WriteUint16(h.Sender.Port)
	b.WriteUint16(uint16(h.CmdID))
	b.WriteUint16(h.StateFlags)
	b.WriteUint32(h.Length)
	b.WriteUint32(h.ErrorCode)
	b.WriteUint32(h.InvokeID)
	return b.Err()
}

func (h *AMSHeader) Decode(b *Buffer) error {
	b.Read(h.Target.NetID[:])
	h.Target.Port = b.ReadUint16()
	b.Read(h.Sender.NetID[:])
	h.Sender.Port = b.ReadUint16()
	h.CmdID = AdsCommand(b.ReadUint16())
	h.StateFlags = b.ReadUint16()
	h.Length = b.ReadUint32()
	h.ErrorCode = b.ReadUint32()
	h.InvokeID = b.ReadUint32()
	return b.Err()
}

// Header is the minimal shape every request/response packet exposes so the
// reader loop can inspect the AMS header without knowing the concrete type.
type Header struct {
	AMSHeader
}

func (h *Header) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&h.AMSHeader)
	return b.Err()
}

// ParseHeader decodes the fixed 38-byte AMS/TCP prefix and returns the fields
// a caller needs to route the remaining payload bytes: payload length, the
// AMS-level error code, the invoke id, and the command kind. It is the
// inverse of BuildRequest's prefix.
func ParseHeader(prefix []byte) (payloadLen int, amsError uint32, invokeID uint32, cmd AdsCommand, err error) {
	if len(prefix) < HeaderSize {
		return 0, 0, 0, 0, fmt.Errorf("ams: %w: header needs %d bytes, got %d", ErrShortFrame, HeaderSize, len(prefix))
	}
	var h Header
	b := NewBuffer(prefix[:HeaderSize])
	if err := h.Decode(b); err != nil {
		return 0, 0, 0, 0, err
	}
	if !h.CmdID.Valid() {
		return 0, 0, 0, 0, fmt.Errorf("ams: %w: unknown command id %d", ErrInvalidAMSLength, h.CmdID)
	}
	return int(h.Length), h.ErrorCode, h.InvokeID, h.CmdID, nil
}

// BuildRequest assembles a full request frame: TCPHeader + AMSHeader + body.
// payloadLen must equal len(body); it is taken explicitly so callers that
// build body incrementally don't need to re-measure it.
func BuildRequest(target, sender Addr, cmd AdsCommand, invokeID uint32, payloadLen uint32, body []byte) ([]byte, error) {
	var b Buffer
	tcp := TCPHeader{Length: uint32(AMSHeaderSize) + payloadLen}
	amsHdr := AMSHeader{
		Target:     target,
		Sender:     sender,
		CmdID:      cmd,
		StateFlags: StateADSCommand,
		Length:     payloadLen,
		InvokeID:   invokeID,
	}
	b.WriteStruct(&tcp)
	b.WriteStruct(&amsHdr)
	b.Write(body)
	if err := b.Err(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
