package ams

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Each ADS command gets a round-trip test: build a request/response,
// encode it, decode it back, and check the payload survived. These mirror
// the protocol's own "parse(build(x)) == x" property rather than testing
// Buffer itself, which buffer_test would cover if it existed.

func TestReadRequestResponseRoundTrip(t *testing.T) {
	target, sender := testAddrs()

	req := NewReadRequest(target, sender, 0x4020, 0, 4)
	req.Header().InvokeID = 1
	b := NewBuffer(nil)
	require.NoError(t, req.Encode(b))

	var gotReq ReadRequest
	require.NoError(t, gotReq.Decode(NewBuffer(b.Bytes())))
	require.Equal(t, uint32(0x4020), gotReq.IndexGroup)
	require.Equal(t, uint32(4), gotReq.Length)

	resp := &ReadResponse{Data: []byte{1, 2, 3, 4}}
	resp.Header().Target = target
	resp.Header().Sender = sender
	resp.Header().InvokeID = 1
	rb := NewBuffer(nil)
	require.NoError(t, resp.Encode(rb))

	var gotResp ReadResponse
	require.NoError(t, gotResp.Decode(NewBuffer(rb.Bytes())))
	require.Equal(t, uint32(0), gotResp.Result)
	require.Equal(t, []byte{1, 2, 3, 4}, gotResp.Data)
	require.True(t, IsReadResponse(gotResp.header))
}

func TestWriteRequestResponseRoundTrip(t *testing.T) {
	target, sender := testAddrs()

	req := NewWriteRequest(target, sender, 0x4020, 0, []byte{9, 8, 7})
	b := NewBuffer(nil)
	require.NoError(t, req.Encode(b))

	var gotReq WriteRequest
	require.NoError(t, gotReq.Decode(NewBuffer(b.Bytes())))
	require.Equal(t, []byte{9, 8, 7}, gotReq.Data)

	resp := &WriteResponse{Result: 0}
	rb := NewBuffer(nil)
	require.NoError(t, resp.Encode(rb))
	var gotResp WriteResponse
	require.NoError(t, gotResp.Decode(NewBuffer(rb.Bytes())))
	require.True(t, IsWriteResponse(gotResp.header))
}

func TestReadWriteRequestResponseRoundTrip(t *testing.T) {
	target, sender := testAddrs()

	req := NewReadWriteRequest(target, sender, 0xF009, 0, 256, []byte("MAIN.counter"))
	b := NewBuffer(nil)
	require.NoError(t, req.Encode(b))

	var gotReq ReadWriteRequest
	require.NoError(t, gotReq.Decode(NewBuffer(b.Bytes())))
	require.Equal(t, uint32(256), gotReq.ReadLength)
	require.Equal(t, []byte("MAIN.counter"), gotReq.WriteData)

	resp := &ReadWriteResponse{Data: []byte("resolved")}
	rb := NewBuffer(nil)
	require.NoError(t, resp.Encode(rb))
	var gotResp ReadWriteResponse
	require.NoError(t, gotResp.Decode(NewBuffer(rb.Bytes())))
	require.Equal(t, []byte("resolved"), gotResp.Data)
	require.True(t, IsReadWriteResponse(gotResp.header))
}

func TestReadStateRoundTrip(t *testing.T) {
	target, sender := testAddrs()
	req := NewReadStateRequest(target, sender)
	b := NewBuffer(nil)
	require.NoError(t, req.Encode(b))

	var gotReq ReadStateRequest
	require.NoError(t, gotReq.Decode(NewBuffer(b.Bytes())))

	resp := &ReadStateResponse{AdsState: uint16(StateRun), DeviceState: 0}
	rb := NewBuffer(nil)
	require.NoError(t, resp.Encode(rb))
	var gotResp ReadStateResponse
	require.NoError(t, gotResp.Decode(NewBuffer(rb.Bytes())))
	info, err := gotResp.StateInfo()
	require.NoError(t, err)
	require.Equal(t, StateRun, info.AdsState)
}

func TestReadDeviceInfoRoundTrip(t *testing.T) {
	target, sender := testAddrs()
	req := NewReadDeviceInfoRequest(target, sender)
	b := NewBuffer(nil)
	require.NoError(t, req.Encode(b))

	resp := &ReadDeviceInfoResponse{Major: 3, Minor: 1, Build: 4024}
	resp.SetDeviceName("TwinCAT PLC")
	rb := NewBuffer(nil)
	require.NoError(t, resp.Encode(rb))

	var gotResp ReadDeviceInfoResponse
	require.NoError(t, gotResp.Decode(NewBuffer(rb.Bytes())))
	info := gotResp.DeviceInfo()
	require.Equal(t, uint8(3), info.Major)
	require.Equal(t, uint8(1), info.Minor)
	require.Equal(t, uint16(4024), info.Build)
	require.Equal(t, "TwinCAT PLC", info.DeviceName)
}

func TestWriteControlRoundTrip(t *testing.T) {
	target, sender := testAddrs()
	req := NewWriteControlRequest(target, sender, StateRun, 0, nil)
	b := NewBuffer(nil)
	require.NoError(t, req.Encode(b))

	var gotReq WriteControlRequest
	require.NoError(t, gotReq.Decode(NewBuffer(b.Bytes())))
	require.Equal(t, uint16(StateRun), gotReq.AdsState)

	resp := &WriteControlResponse{}
	rb := NewBuffer(nil)
	require.NoError(t, resp.Encode(rb))
	var gotResp WriteControlResponse
	require.NoError(t, gotResp.Decode(NewBuffer(rb.Bytes())))
	require.True(t, IsWriteControlResponse(gotResp.header))
}

func TestAddDeleteDeviceNotificationRoundTrip(t *testing.T) {
	target, sender := testAddrs()
	attrib := NotificationAttrib{Length: 4, TransMode: TransModeOnChange, MaxDelay: 0, CycleTime: 100}

	addReq := NewAddDeviceNotificationRequest(target, sender, 0x4020, 0, attrib)
	b := NewBuffer(nil)
	require.NoError(t, addReq.Encode(b))
	var gotAddReq AddDeviceNotificationRequest
	require.NoError(t, gotAddReq.Decode(NewBuffer(b.Bytes())))
	require.Equal(t, TransModeOnChange, gotAddReq.Attrib.TransMode)

	addResp := &AddDeviceNotificationResponse{Handle: 99}
	ab := NewBuffer(nil)
	require.NoError(t, addResp.Encode(ab))
	var gotAddResp AddDeviceNotificationResponse
	require.NoError(t, gotAddResp.Decode(NewBuffer(ab.Bytes())))
	require.Equal(t, uint32(99), gotAddResp.Handle)
	require.True(t, IsAddDeviceNotificationResponse(gotAddResp.header))

	delReq := NewDeleteDeviceNotificationRequest(target, sender, 99)
	db := NewBuffer(nil)
	require.NoError(t, delReq.Encode(db))
	var gotDelReq DeleteDeviceNotificationRequest
	require.NoError(t, gotDelReq.Decode(NewBuffer(db.Bytes())))
	require.Equal(t, uint32(99), gotDelReq.Handle)

	delResp := &DeleteDeviceNotificationResponse{}
	drb := NewBuffer(nil)
	require.NoError(t, delResp.Encode(drb))
	var gotDelResp DeleteDeviceNotificationResponse
	require.NoError(t, gotDelResp.Decode(NewBuffer(drb.Bytes())))
	require.True(t, IsDeleteDeviceNotificationResponse(gotDelResp.header))
}

func TestAdsCommandValidAndString(t *testing.T) {
	require.True(t, CmdRead.Valid())
	require.False(t, CmdInvalid.Valid())
	require.Equal(t, "Read", CmdRead.String())
	require.Equal(t, "Invalid", AdsCommand(0xFFFF).String())
}

func TestParseAdsStateRejectsUnknown(t *testing.T) {
	_, err := ParseAdsState(0xFF)
	require.Error(t, err)
	state, err := ParseAdsState(uint16(StateRun))
	require.NoError(t, err)
	require.Equal(t, StateRun, state)
}
