package ams

import (
	"testing"

	"github.com/pascaldekloe/goe/verify"
	"github.com/stretchr/testify/require"
)

func testAddrs() (Addr, Addr) {
	target := Addr{NetID: AmsNetID{5, 80, 201, 232, 1, 1}, Port: 851}
	sender := Addr{NetID: AmsNetID{127, 0, 0, 1, 1, 1}, Port: 32905}
	return target, sender
}

func TestAmsNetIDRoundTrip(t *testing.T) {
	id, err := ParseAmsNetID("5.80.201.232.1.1")
	require.NoError(t, err)
	require.Equal(t, "5.80.201.232.1.1", id.String())
}

func TestParseAmsNetIDRejectsMalformed(t *testing.T) {
	cases := []string{"", "5.80.201.232.1", "5.80.201.232.1.1.1", "a.b.c.d.e.f", "5.80.201.232.1.300"}
	for _, s := range cases {
		_, err := ParseAmsNetID(s)
		require.ErrorIs(t, err, ErrInvalidNetID, "input %q should fail with ErrInvalidNetID", s)
	}
}

func TestAMSHeaderEncodeDecodeRoundTrip(t *testing.T) {
	target, sender := testAddrs()
	want := AMSHeader{
		Target:     target,
		Sender:     sender,
		CmdID:      CmdRead,
		StateFlags: StateADSCommand,
		Length:     12,
		ErrorCode:  0,
		InvokeID:   42,
	}

	b := NewBuffer(nil)
	require.NoError(t, want.Encode(b))

	var got AMSHeader
	require.NoError(t, got.Decode(NewBuffer(b.Bytes())))

	verify.Values(t, "header", got, want)
}

func TestBuildRequestThenParseHeaderRoundTrip(t *testing.T) {
	target, sender := testAddrs()
	body := []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	frame, err := BuildRequest(target, sender, CmdRead, 7, uint32(len(body)), body)
	require.NoError(t, err)
	require.Len(t, frame, HeaderSize+len(body))

	payloadLen, amsErr, invokeID, cmd, err := ParseHeader(frame[:HeaderSize])
	require.NoError(t, err)
	require.Equal(t, len(body), payloadLen)
	require.Equal(t, uint32(0), amsErr)
	require.Equal(t, uint32(7), invokeID)
	require.Equal(t, CmdRead, cmd)
}

func TestParseHeaderRejectsShortPrefix(t *testing.T) {
	_, _, _, _, err := ParseHeader(make([]byte, HeaderSize-1))
	require.ErrorIs(t, err, ErrShortFrame)
}

func TestParseHeaderRejectsUnknownCommand(t *testing.T) {
	target, sender := testAddrs()
	var b Buffer
	tcp := TCPHeader{Length: AMSHeaderSize}
	hdr := AMSHeader{Target: target, Sender: sender, CmdID: AdsCommand(0xFFFF)}
	b.WriteStruct(&tcp)
	b.WriteStruct(&hdr)
	require.NoError(t, b.Err())

	_, _, _, _, err := ParseHeader(b.Bytes())
	require.ErrorIs(t, err, ErrInvalidAMSLength)
}

func TestHasState(t *testing.T) {
	h := AMSHeader{StateFlags: StateADSCommand | StateResponse}
	require.True(t, HasState(h, StateADSCommand))
	require.True(t, HasState(h, StateResponse))
	require.True(t, HasState(h, StateADSCommand|StateResponse))

	h2 := AMSHeader{StateFlags: StateADSCommand}
	require.False(t, HasState(h2, StateResponse))
}
