// Package typed provides type-safe encode/decode helpers for the IEC 61131-3
// elementary data types used in ADS variable access (BOOL, BYTE/USINT,
// SINT, INT, UINT/WORD, DINT, UDINT/DWORD, LINT, ULINT/LWORD, REAL, LREAL,
// STRING), for callers building Read/Write payloads on top of the root
// client package.
package typed

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encoder turns Go values into the little-endian byte layout TwinCAT
// expects on the wire.
type Encoder struct{}

func NewEncoder() *Encoder { return &Encoder{} }

// EncodeBool encodes a boolean value (BOOL).
func (e *Encoder) EncodeBool(value bool) []byte {
	if value {
		return []byte{1}
	}
	return []byte{0}
}

// EncodeByte encodes an unsigned 8-bit integer (BYTE/USINT).
func (e *Encoder) EncodeByte(value uint8) []byte {
	return []byte{value}
}

// EncodeSInt encodes a signed 8-bit integer (SINT).
func (e *Encoder) EncodeSInt(value int8) []byte {
	return []byte{byte(value)}
}

// EncodeInt16 encodes a signed 16-bit integer (INT).
func (e *Encoder) EncodeInt16(value int16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, uint16(value))
	return buf
}

// EncodeUInt16 encodes an unsigned 16-bit integer (UINT/WORD).
func (e *Encoder) EncodeUInt16(value uint16) []byte {
	buf := make([]byte, 2)
	binary.LittleEndian.PutUint16(buf, value)
	return buf
}

// EncodeInt32 encodes a signed 32-bit integer (DINT).
func (e *Encoder) EncodeInt32(value int32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(value))
	return buf
}

// EncodeUInt32 encodes an unsigned 32-bit integer (UDINT/DWORD).
func (e *Encoder) EncodeUInt32(value uint32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, value)
	return buf
}

// EncodeInt64 encodes a signed 64-bit integer (LINT).
func (e *Encoder) EncodeInt64(value int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(value))
	return buf
}

// EncodeUInt64 encodes an unsigned 64-bit integer (ULINT/LWORD).
func (e *Encoder) EncodeUInt64(value uint64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, value)
	return buf
}

// EncodeFloat32 encodes a 32-bit floating point number (REAL).
func (e *Encoder) EncodeFloat32(value float32) []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, math.Float32bits(value))
	return buf
}

// EncodeFloat64 encodes a 64-bit floating point number (LREAL).
func (e *Encoder) EncodeFloat64(value float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(value))
	return buf
}

// EncodeString encodes a string padded/truncated to maxLen bytes (STRING).
func (e *Encoder) EncodeString(value string, maxLen int) []byte {
	buf := make([]byte, maxLen)
	copy(buf, []byte(value))
	return buf
}

// Decoder turns little-endian wire bytes back into Go values.
type Decoder struct{}

func NewDecoder() *Decoder { return &Decoder{} }

// DecodeBool decodes a boolean value (BOOL).
func (d *Decoder) DecodeBool(data []byte) (bool, error) {
	if len(data) < 1 {
		return false, fmt.Errorf("typed: insufficient data for BOOL")
	}
	return data[0] != 0, nil
}

// DecodeByte decodes an unsigned 8-bit integer (BYTE/USINT).
func (d *Decoder) DecodeByte(data []byte) (uint8, error) {
	if len(data) < 1 {
		return 0, fmt.Errorf("typed: insufficient data for BYTE")
	}
	return data[0], nil
}

// DecodeSInt decodes a signed 8-bit integer (SINT).
func (d *Decoder) DecodeSInt(data []byte) (int8, error) {
	if len(data) < 1 {
		return 0, fmt.Errorf("typed: insufficient data for SINT")
	}
	return int8(data[0]), nil
}

// DecodeInt16 decodes a signed 16-bit integer (INT).
func (d *Decoder) DecodeInt16(data []byte) (int16, error) {
	if len(data) < 2 {
		return 0, fmt.Errorf("typed: insufficient data for INT")
	}
	return int16(binary.LittleEndian.Uint16(data[:2])), nil
}

// DecodeUInt16 decodes an unsigned 16-bit integer (UINT/WORD).
func (d *Decoder) DecodeUInt16(data []byte) (uint16, error) {
	if len(data) < 2 {
		return 0, fmt.Errorf("typed: insufficient data for UINT")
	}
	return binary.LittleEndian.Uint16(data[:2]), nil
}

// DecodeInt32 decodes a signed 32-bit integer (DINT).
func (d *Decoder) DecodeInt32(data []byte) (int32, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("typed: insufficient data for DINT")
	}
	return int32(binary.LittleEndian.Uint32(data[:4])), nil
}

// DecodeUInt32 decodes an unsigned 32-bit integer (UDINT/DWORD).
func (d *Decoder) DecodeUInt32(data []byte) (uint32, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("typed: insufficient data for UDINT")
	}
	return binary.LittleEndian.Uint32(data[:4]), nil
}

// DecodeInt64 decodes a signed 64-bit integer (LINT).
func (d *Decoder) DecodeInt64(data []byte) (int64, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("typed: insufficient data for LINT")
	}
	return int64(binary.LittleEndian.Uint64(data[:8])), nil
}

// DecodeUInt64 decodes an unsigned 64-bit integer (ULINT/LWORD).
func (d *Decoder) DecodeUInt64(data []byte) (uint64, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("typed: insufficient data for ULINT")
	}
	return binary.LittleEndian.Uint64(data[:8]), nil
}

// DecodeFloat32 decodes a 32-bit floating point number (REAL).
func (d *Decoder) DecodeFloat32(data []byte) (float32, error) {
	if len(data) < 4 {
		return 0, fmt.Errorf("typed: insufficient data for REAL")
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(data[:4])), nil
}

// DecodeFloat64 decodes a 64-bit floating point number (LREAL).
func (d *Decoder) DecodeFloat64(data []byte) (float64, error) {
	if len(data) < 8 {
		return 0, fmt.Errorf("typed: insufficient data for LREAL")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(data[:8])), nil
}

// DecodeString decodes a null-terminated or unterminated string (STRING).
func (d *Decoder) DecodeString(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	end := len(data)
	for i, b := range data {
		if b == 0 {
			end = i
			break
		}
	}
	return string(data[:end]), nil
}
