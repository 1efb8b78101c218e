package ams

// ReadStateRequest carries no body beyond the AMS header.
type ReadStateRequest struct {
	header AMSHeader
}

func NewReadStateRequest(target, sender Addr) *ReadStateRequest {
	return &ReadStateRequest{
		header: AMSHeader{
			Target:     target,
			Sender:     sender,
			CmdID:      CmdReadState,
			StateFlags: StateADSCommand,
		},
	}
}

func (r *ReadStateRequest) Header() *AMSHeader { return &r.header }

func (r *ReadStateRequest) Encode(b *Buffer) error {
	r.header.Length = 0
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	return b.Err()
}

func (r *ReadStateRequest) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	return b.Err()
}

// ReadStateResponse is the response to an ADS ReadState command: a 4-byte
// ADS return code followed by the 2-byte ADS state and 2-byte device state.
type ReadStateResponse struct {
	header      AMSHeader
	Result      uint32
	AdsState    uint16
	DeviceState uint16
}

func (r *ReadStateResponse) Header() *AMSHeader { return &r.header }

func (r *ReadStateResponse) Encode(b *Buffer) error {
	r.header.CmdID = CmdReadState
	r.header.StateFlags |= StateResponse
	r.header.Length = 8
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.Result)
	b.WriteUint16(r.AdsState)
	b.WriteUint16(r.DeviceState)
	return b.Err()
}

func (r *ReadStateResponse) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.Result = b.ReadUint32()
	r.AdsState = b.ReadUint16()
	r.DeviceState = b.ReadUint16()
	return b.Err()
}

// StateInfo decodes the raw fields into a StateInfo, failing if AdsState is
// outside the closed enumeration.
func (r *ReadStateResponse) StateInfo() (StateInfo, error) {
	s, err := ParseAdsState(r.AdsState)
	if err != nil {
		return StateInfo{}, err
	}
	return StateInfo{AdsState: s, DeviceState: r.DeviceState}, nil
}

// IsReadStateResponse reports whether h belongs to a ReadState response
// frame.
func IsReadStateResponse(h AMSHeader) bool {
	return h.CmdID == CmdReadState && HasState(h, StateResponse)
}
