package ams

// ReadWriteRequest is the body of an ADS ReadWrite command: index group,
// index offset, the number of bytes expected back, and the data being
// written in the same round trip.
type ReadWriteRequest struct {
	header      AMSHeader
	IndexGroup  uint32
	IndexOffset uint32
	ReadLength  uint32
	WriteData   []byte
}

func NewReadWriteRequest(target, sender Addr, indexGroup, indexOffset, readLength uint32, writeData []byte) *ReadWriteRequest {
	return &ReadWriteRequest{
		header: AMSHeader{
			Target:     target,
			Sender:     sender,
			CmdID:      CmdReadWrite,
			StateFlags: StateADSCommand,
		},
		IndexGroup:  indexGroup,
		IndexOffset: indexOffset,
		ReadLength:  readLength,
		WriteData:   writeData,
	}
}

func (r *ReadWriteRequest) Header() *AMSHeader { return &r.header }

func (r *ReadWriteRequest) Encode(b *Buffer) error {
	r.header.Length = 16 + uint32(len(r.WriteData))
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.IndexGroup)
	b.WriteUint32(r.IndexOffset)
	b.WriteUint32(r.ReadLength)
	b.WriteUint32(uint32(len(r.WriteData)))
	b.Write(r.WriteData)
	return b.Err()
}

func (r *ReadWriteRequest) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.IndexGroup = b.ReadUint32()
	r.IndexOffset = b.ReadUint32()
	r.ReadLength = b.ReadUint32()
	n := b.ReadUint32()
	r.WriteData = b.ReadN(int(n))
	return b.Err()
}

// ReadWriteResponse is the response to an ADS ReadWrite command: a 4-byte
// ADS return code, a 4-byte data length, and the returned data.
type ReadWriteResponse struct {
	header AMSHeader
	Result uint32
	Data   []byte
}

func (r *ReadWriteResponse) Header() *AMSHeader { return &r.header }

func (r *ReadWriteResponse) Encode(b *Buffer) error {
	r.header.CmdID = CmdReadWrite
	r.header.StateFlags |= StateResponse
	r.header.Length = 8 + uint32(len(r.Data))
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.Result)
	b.WriteUint32(uint32(len(r.Data)))
	b.Write(r.Data)
	return b.Err()
}

func (r *ReadWriteResponse) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.Result = b.ReadUint32()
	n := b.ReadUint32()
	r.Data = b.ReadN(int(n))
	return b.Err()
}

// IsReadWriteResponse reports whether h belongs to a ReadWrite response
// frame.
func IsReadWriteResponse(h AMSHeader) bool {
	return h.CmdID == CmdReadWrite && HasState(h, StateResponse)
}
