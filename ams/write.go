package ams

// WriteRequest is the body of an ADS Write command: index group, index
// offset, and the data to write.
type WriteRequest struct {
	header      AMSHeader
	IndexGroup  uint32
	IndexOffset uint32
	Data        []byte
}

func NewWriteRequest(target, sender Addr, indexGroup, indexOffset uint32, data []byte) *WriteRequest {
	return &WriteRequest{
		header: AMSHeader{
			Target:     target,
			Sender:     sender,
			CmdID:      CmdWrite,
			StateFlags: StateADSCommand,
		},
		IndexGroup:  indexGroup,
		IndexOffset: indexOffset,
		Data:        data,
	}
}

func (r *WriteRequest) Header() *AMSHeader { return &r.header }

func (r *WriteRequest) Encode(b *Buffer) error {
	r.header.Length = 12 + uint32(len(r.Data))
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.IndexGroup)
	b.WriteUint32(r.IndexOffset)
	b.WriteUint32(uint32(len(r.Data)))
	b.Write(r.Data)
	return b.Err()
}

func (r *WriteRequest) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.IndexGroup = b.ReadUint32()
	r.IndexOffset = b.ReadUint32()
	n := b.ReadUint32()
	r.Data = b.ReadN(int(n))
	return b.Err()
}

// WriteResponse is the response to an ADS Write command: a 4-byte ADS return
// code and nothing else.
type WriteResponse struct {
	header AMSHeader
	Result uint32
}

func (r *WriteResponse) Header() *AMSHeader { return &r.header }

func (r *WriteResponse) Encode(b *Buffer) error {
	r.header.CmdID = CmdWrite
	r.header.StateFlags |= StateResponse
	r.header.Length = 4
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.Result)
	return b.Err()
}

func (r *WriteResponse) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.Result = b.ReadUint32()
	return b.Err()
}

// IsWriteResponse reports whether h belongs to a Write response frame.
func IsWriteResponse(h AMSHeader) bool {
	return h.CmdID == CmdWrite && HasState(h, StateResponse)
}
