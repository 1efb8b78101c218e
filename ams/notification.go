package ams

import "fmt"

// AddDeviceNotificationRequest subscribes the caller to changes on a single
// ADS variable. The 16 trailing reserved bytes are always zero
// on the wire; Beckhoff devices reject requests that set them.
type AddDeviceNotificationRequest struct {
	header      AMSHeader
	IndexGroup  uint32
	IndexOffset uint32
	Attrib      NotificationAttrib
}

func NewAddDeviceNotificationRequest(target, sender Addr, indexGroup, indexOffset uint32, attrib NotificationAttrib) *AddDeviceNotificationRequest {
	return &AddDeviceNotificationRequest{
		header: AMSHeader{
			Target:     target,
			Sender:     sender,
			CmdID:      CmdAddDeviceNotification,
			StateFlags: StateADSCommand,
		},
		IndexGroup:  indexGroup,
		IndexOffset: indexOffset,
		Attrib:      attrib,
	}
}

func (r *AddDeviceNotificationRequest) Header() *AMSHeader { return &r.header }

func (r *AddDeviceNotificationRequest) Encode(b *Buffer) error {
	r.header.Length = 40
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.IndexGroup)
	b.WriteUint32(r.IndexOffset)
	b.WriteUint32(r.Attrib.Length)
	b.WriteUint32(uint32(r.Attrib.TransMode))
	b.WriteUint32(r.Attrib.MaxDelay)
	b.WriteUint32(r.Attrib.CycleTime)
	b.WriteN(nil, 16) // reserved, must be zero
	return b.Err()
}

func (r *AddDeviceNotificationRequest) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.IndexGroup = b.ReadUint32()
	r.IndexOffset = b.ReadUint32()
	r.Attrib.Length = b.ReadUint32()
	r.Attrib.TransMode = AdsTransMode(b.ReadUint32())
	r.Attrib.MaxDelay = b.ReadUint32()
	r.Attrib.CycleTime = b.ReadUint32()
	b.ReadN(16)
	return b.Err()
}

// AddDeviceNotificationResponse is the response to an Add Device
// Notification command: a 4-byte return code and a 4-byte server-assigned
// notification handle.
type AddDeviceNotificationResponse struct {
	header AMSHeader
	Result uint32
	Handle uint32
}

func (r *AddDeviceNotificationResponse) Header() *AMSHeader { return &r.header }

func (r *AddDeviceNotificationResponse) Encode(b *Buffer) error {
	r.header.CmdID = CmdAddDeviceNotification
	r.header.StateFlags |= StateResponse
	r.header.Length = 8
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.Result)
	b.WriteUint32(r.Handle)
	return b.Err()
}

func (r *AddDeviceNotificationResponse) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.Result = b.ReadUint32()
	r.Handle = b.ReadUint32()
	return b.Err()
}

// IsAddDeviceNotificationResponse reports whether h belongs to an Add
// Device Notification response frame.
func IsAddDeviceNotificationResponse(h AMSHeader) bool {
	return h.CmdID == CmdAddDeviceNotification && HasState(h, StateResponse)
}

// DeleteDeviceNotificationRequest cancels a previously added subscription
// by its server handle.
type DeleteDeviceNotificationRequest struct {
	header AMSHeader
	Handle uint32
}

func NewDeleteDeviceNotificationRequest(target, sender Addr, handle uint32) *DeleteDeviceNotificationRequest {
	return &DeleteDeviceNotificationRequest{
		header: AMSHeader{
			Target:     target,
			Sender:     sender,
			CmdID:      CmdDeleteDeviceNotification,
			StateFlags: StateADSCommand,
		},
		Handle: handle,
	}
}

func (r *DeleteDeviceNotificationRequest) Header() *AMSHeader { return &r.header }

func (r *DeleteDeviceNotificationRequest) Encode(b *Buffer) error {
	r.header.Length = 4
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.Handle)
	return b.Err()
}

func (r *DeleteDeviceNotificationRequest) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.Handle = b.ReadUint32()
	return b.Err()
}

// DeleteDeviceNotificationResponse is the response to a Delete Device
// Notification command: a bare 4-byte return code.
type DeleteDeviceNotificationResponse struct {
	header AMSHeader
	Result uint32
}

func (r *DeleteDeviceNotificationResponse) Header() *AMSHeader { return &r.header }

func (r *DeleteDeviceNotificationResponse) Encode(b *Buffer) error {
	r.header.CmdID = CmdDeleteDeviceNotification
	r.header.StateFlags |= StateResponse
	r.header.Length = 4
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.Result)
	return b.Err()
}

func (r *DeleteDeviceNotificationResponse) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.Result = b.ReadUint32()
	return b.Err()
}

// IsDeleteDeviceNotificationResponse reports whether h belongs to a Delete
// Device Notification response frame.
func IsDeleteDeviceNotificationResponse(h AMSHeader) bool {
	return h.CmdID == CmdDeleteDeviceNotification && HasState(h, StateResponse)
}

// NotificationStamp groups every sample that shares one FILETIME timestamp.
type NotificationStamp struct {
	Timestamp uint64 // Windows FILETIME: 100ns intervals since 1601-01-01 UTC
	Samples   []NotificationSample
}

// NotificationSample is one (handle, data) pair within a stamp.
type NotificationSample struct {
	Handle uint32
	Data   []byte
}

// DeviceNotificationRequest is the unsolicited frame a router sends for
// every active subscription cycle (command id 8, never a response to a
// client-issued invoke id). The wire body is:
//
//	stream_size(u32) | stamps(u32) | repeated{ timestamp(u64) | samples(u32) | repeated{ handle(u32) | size(u32) | data } }
//
// stream_size bounds the whole body (it does not include itself); every
// nested read is checked against it so a malformed or truncated frame fails
// cleanly instead of running off the end of the buffer.
type DeviceNotificationRequest struct {
	header     AMSHeader
	StreamSize uint32
	Stamps     []NotificationStamp
}

func (r *DeviceNotificationRequest) Header() *AMSHeader { return &r.header }

func (r *DeviceNotificationRequest) Encode(b *Buffer) error {
	inner := NewBuffer(nil)
	inner.WriteUint32(uint32(len(r.Stamps)))
	for _, st := range r.Stamps {
		inner.WriteUint64(st.Timestamp)
		inner.WriteUint32(uint32(len(st.Samples)))
		for _, s := range st.Samples {
			inner.WriteUint32(s.Handle)
			inner.WriteUint32(uint32(len(s.Data)))
			inner.Write(s.Data)
		}
	}
	if err := inner.Err(); err != nil {
		return err
	}
	body := inner.Bytes()
	r.StreamSize = uint32(len(body))
	r.header.CmdID = CmdDeviceNotification
	r.header.StateFlags = StateADSCommand
	r.header.Length = 4 + r.StreamSize
	var tcp TCPHeader
	tcp.Length = AMSHeaderSize + r.header.Length
	b.WriteStruct(&tcp)
	b.WriteStruct(&r.header)
	b.WriteUint32(r.StreamSize)
	b.Write(body)
	return b.Err()
}

func (r *DeviceNotificationRequest) Decode(b *Buffer) error {
	var tcp TCPHeader
	b.ReadStruct(&tcp)
	b.ReadStruct(&r.header)
	r.StreamSize = b.ReadUint32()
	if err := b.Err(); err != nil {
		return err
	}
	body := NewBuffer(b.ReadN(int(r.StreamSize)))
	if err := b.Err(); err != nil {
		return err
	}
	limit := int(r.StreamSize)
	consumed := 4 // the stamps count itself
	stampCount := body.ReadUint32()
	if err := body.Err(); err != nil {
		return fmt.Errorf("ams: device notification: %w", err)
	}
	stamps := make([]NotificationStamp, 0, stampCount)
	for i := uint32(0); i < stampCount; i++ {
		if consumed+12 > limit {
			return fmt.Errorf("ams: device notification: stamp header exceeds stream_size=%d", r.StreamSize)
		}
		ts := body.ReadUint64()
		sampleCount := body.ReadUint32()
		consumed += 12
		if err := body.Err(); err != nil {
			return fmt.Errorf("ams: device notification: %w", err)
		}
		samples := make([]NotificationSample, 0, sampleCount)
		for j := uint32(0); j < sampleCount; j++ {
			if consumed+8 > limit {
				return fmt.Errorf("ams: device notification: sample header exceeds stream_size=%d", r.StreamSize)
			}
			handle := body.ReadUint32()
			size := body.ReadUint32()
			consumed += 8
			if err := body.Err(); err != nil {
				return fmt.Errorf("ams: device notification: %w", err)
			}
			if consumed+int(size) > limit {
				return fmt.Errorf("ams: device notification: sample data exceeds stream_size=%d", r.StreamSize)
			}
			data := body.ReadN(int(size))
			consumed += int(size)
			if err := body.Err(); err != nil {
				return fmt.Errorf("ams: device notification: %w", err)
			}
			samples = append(samples, NotificationSample{Handle: handle, Data: data})
		}
		stamps = append(stamps, NotificationStamp{Timestamp: ts, Samples: samples})
	}
	r.Stamps = stamps
	return nil
}

// IsDeviceNotificationRequest reports whether h belongs to an unsolicited
// device notification frame.
func IsDeviceNotificationRequest(h AMSHeader) bool {
	return h.CmdID == CmdDeviceNotification && !HasState(h, StateResponse)
}
