package ams

import "strings"

// ReadDeviceInfoRequest carries no body beyond the AMS header.
type ReadDeviceInfoRequest struct {
	header AMSHeader
}

func NewReadDeviceInfoRequest(target, sender Addr) *ReadDeviceInfoRequest {
	return &ReadDeviceInfoRequest{
		header: AMSHeader{
			Target:     target,
			Sender:     sender,
			CmdID:      CmdReadDeviceInfo,
			StateFlags: StateADSCommand,
		},
	}
}

func (r *ReadDeviceInfoRequest) Header() *AMSHeader { return &r.header }

func (r *ReadDeviceInfoRequest) Encode(b *Buffer) error {
	r.header.Length = 0
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	return b.Err()
}

func (r *ReadDeviceInfoRequest) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	return b.Err()
}

// ReadDeviceInfoResponse is the response to an ADS Read Device Info command:
// a 4-byte return code, 1-byte major version, 1-byte minor version, 2-byte
// build, and a fixed 16-byte null-padded device name.
type ReadDeviceInfoResponse struct {
	header     AMSHeader
	Result     uint32
	Major      uint8
	Minor      uint8
	Build      uint16
	deviceName [16]byte
}

func (r *ReadDeviceInfoResponse) Header() *AMSHeader { return &r.header }

func (r *ReadDeviceInfoResponse) Encode(b *Buffer) error {
	r.header.CmdID = CmdReadDeviceInfo
	r.header.StateFlags |= StateResponse
	r.header.Length = 24
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.Result)
	b.WriteUint8(r.Major)
	b.WriteUint8(r.Minor)
	b.WriteUint16(r.Build)
	b.Write(r.deviceName[:])
	return b.Err()
}

func (r *ReadDeviceInfoResponse) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.Result = b.ReadUint32()
	r.Major = b.ReadUint8()
	r.Minor = b.ReadUint8()
	r.Build = b.ReadUint16()
	copy(r.deviceName[:], b.ReadN(16))
	return b.Err()
}

// SetDeviceName copies name into the fixed 16-byte field, truncating if
// necessary. Used by tests and by servers built on top of this package.
func (r *ReadDeviceInfoResponse) SetDeviceName(name string) {
	var buf [16]byte
	copy(buf[:], name)
	r.deviceName = buf
}

// GetDeviceName trims the trailing NUL padding and replaces any invalid
// UTF-8 so a misbehaving device can't corrupt the caller's string handling.
func (r *ReadDeviceInfoResponse) GetDeviceName() string {
	n := strings.IndexByte(string(r.deviceName[:]), 0)
	if n < 0 {
		n = len(r.deviceName)
	}
	return strings.ToValidUTF8(string(r.deviceName[:n]), "�")
}

// DeviceInfo assembles the decoded fields into the public DeviceInfo type.
func (r *ReadDeviceInfoResponse) DeviceInfo() DeviceInfo {
	return DeviceInfo{
		Major:      r.Major,
		Minor:      r.Minor,
		Build:      r.Build,
		DeviceName: r.GetDeviceName(),
	}
}

// IsReadDeviceInfoResponse reports whether h belongs to a Read Device Info
// response frame.
func IsReadDeviceInfoResponse(h AMSHeader) bool {
	return h.CmdID == CmdReadDeviceInfo && HasState(h, StateResponse)
}
