package ams

// ReadRequest is the body of an ADS Read command: index group, index offset,
// and the number of bytes the caller wants back.
type ReadRequest struct {
	header      AMSHeader
	IndexGroup  uint32
	IndexOffset uint32
	Length      uint32
}

// NewReadRequest builds a Read request. invokeID is left zero; the caller
// (the root package's command dispatch) assigns it right before sending.
func NewReadRequest(target, sender Addr, indexGroup, indexOffset, length uint32) *ReadRequest {
	return &ReadRequest{
		header: AMSHeader{
			Target:     target,
			Sender:     sender,
			CmdID:      CmdRead,
			StateFlags: StateADSCommand,
			Length:     12,
		},
		IndexGroup:  indexGroup,
		IndexOffset: indexOffset,
		Length:      length,
	}
}

func (r *ReadRequest) Header() *AMSHeader { return &r.header }

func (r *ReadRequest) Encode(b *Buffer) error {
	r.header.Length = 12
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.IndexGroup)
	b.WriteUint32(r.IndexOffset)
	b.WriteUint32(r.Length)
	return b.Err()
}

func (r *ReadRequest) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.IndexGroup = b.ReadUint32()
	r.IndexOffset = b.ReadUint32()
	r.Length = b.ReadUint32()
	return b.Err()
}

// ReadResponse is the response to an ADS Read command: a 4-byte ADS return
// code followed by the requested data.
type ReadResponse struct {
	header AMSHeader
	Result uint32
	Data   []byte
}

func (r *ReadResponse) Header() *AMSHeader { return &r.header }

func (r *ReadResponse) Encode(b *Buffer) error {
	r.header.CmdID = CmdRead
	r.header.StateFlags |= StateResponse
	r.header.Length = 4 + uint32(len(r.Data))
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.Result)
	b.Write(r.Data)
	return b.Err()
}

func (r *ReadResponse) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.Result = b.ReadUint32()
	if r.header.Length < 4 {
		return b.Err()
	}
	r.Data = b.ReadN(int(r.header.Length - 4))
	return b.Err()
}

// IsReadResponse reports whether h belongs to a Read response frame.
func IsReadResponse(h AMSHeader) bool {
	return h.CmdID == CmdRead && HasState(h, StateResponse)
}
