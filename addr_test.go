package adsmux

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTargetAddrAcceptsValidNetID(t *testing.T) {
	addr, err := ParseTargetAddr("5.80.201.232.1.1", 851)
	require.NoError(t, err)
	require.Equal(t, uint16(851), addr.Port)
	require.Equal(t, "5.80.201.232.1.1", addr.NetID.String())
}

func TestParseTargetAddrRejectsMalformedNetID(t *testing.T) {
	_, err := ParseTargetAddr("5.80.201.232.1.300", 851)
	require.True(t, IsAdsError(err, ErrInternal))
}
