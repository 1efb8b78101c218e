package ams

// WriteControlRequest is the body of an ADS WriteControl command: the
// requested ADS state, an opaque device-specific state, and optional
// accompanying data.
type WriteControlRequest struct {
	header      AMSHeader
	AdsState    uint16
	DeviceState uint16
	Data        []byte
}

func NewWriteControlRequest(target, sender Addr, adsState AdsState, deviceState uint16, data []byte) *WriteControlRequest {
	return &WriteControlRequest{
		header: AMSHeader{
			Target:     target,
			Sender:     sender,
			CmdID:      CmdWriteControl,
			StateFlags: StateADSCommand,
		},
		AdsState:    uint16(adsState),
		DeviceState: deviceState,
		Data:        data,
	}
}

func (r *WriteControlRequest) Header() *AMSHeader { return &r.header }

func (r *WriteControlRequest) Encode(b *Buffer) error {
	r.header.Length = 8 + uint32(len(r.Data))
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint16(r.AdsState)
	b.WriteUint16(r.DeviceState)
	b.WriteUint32(uint32(len(r.Data)))
	b.Write(r.Data)
	return b.Err()
}

func (r *WriteControlRequest) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.AdsState = b.ReadUint16()
	r.DeviceState = b.ReadUint16()
	n := b.ReadUint32()
	r.Data = b.ReadN(int(n))
	return b.Err()
}

// WriteControlResponse is the response to an ADS WriteControl command: a
// 4-byte ADS return code and nothing else.
type WriteControlResponse struct {
	header AMSHeader
	Result uint32
}

func (r *WriteControlResponse) Header() *AMSHeader { return &r.header }

func (r *WriteControlResponse) Encode(b *Buffer) error {
	r.header.CmdID = CmdWriteControl
	r.header.StateFlags |= StateResponse
	r.header.Length = 4
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.Result)
	return b.Err()
}

func (r *WriteControlResponse) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.Result = b.ReadUint32()
	return b.Err()
}

// IsWriteControlResponse reports whether h belongs to a WriteControl
// response frame.
func IsWriteControlResponse(h AMSHeader) bool {
	return h.CmdID == CmdWriteControl && HasState(h, StateResponse)
}
