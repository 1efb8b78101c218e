package adsmux

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mrpasztoradam/adsmux/ams"
)

func TestNewAdsErrorFormatsMessage(t *testing.T) {
	err := NewAdsError(uint32(ErrTargetPortNotFound))
	require.Equal(t, ErrTargetPortNotFound, err.Code)
	require.Contains(t, err.Error(), "TARGETPORTNOTFOUND")
}

func TestNewAdsErrorUnknownCode(t *testing.T) {
	err := NewAdsError(0xDEADBEEF)
	require.Contains(t, err.Error(), "UNKNOWN")
}

func TestIsAdsErrorMatchesWrappedCode(t *testing.T) {
	base := NewAdsError(uint32(ADSERR_CLIENT_SYNCTIMEOUT))
	wrapped := errors.New("command failed: " + base.Error())
	require.False(t, IsAdsError(wrapped, ADSERR_CLIENT_SYNCTIMEOUT)) // plain errors.New does not wrap
	require.True(t, IsAdsError(fmt.Errorf("command failed: %w", base), ADSERR_CLIENT_SYNCTIMEOUT))

	var asErr error = base
	require.True(t, IsAdsError(asErr, ADSERR_CLIENT_SYNCTIMEOUT))
	require.False(t, IsAdsError(asErr, ErrTargetPortNotFound))
}

func TestWrapAdsErrorPreservesCode(t *testing.T) {
	err := wrapAdsError(ErrNoMemory, "allocating %d bytes", 128)
	require.Equal(t, ErrNoMemory, err.Code)
	require.Contains(t, err.Error(), "allocating 128 bytes")
}

func TestSentinelErrorsAreDistinct(t *testing.T) {
	require.NotErrorIs(t, ErrNotConnected, ErrClientClosed)
}

func TestAdsErrorFromAmsMapsNetIDFailureToInternal(t *testing.T) {
	_, parseErr := ams.ParseAmsNetID("5.80.201.232.1.300")
	require.Error(t, parseErr)
	err := adsErrorFromAms(parseErr)
	require.Equal(t, ErrInternal, err.Code)
}

func TestAdsErrorFromAmsMapsShortFrameToInvalidAmsLength(t *testing.T) {
	_, _, _, _, parseErr := ams.ParseHeader(make([]byte, 4))
	require.Error(t, parseErr)
	err := adsErrorFromAms(parseErr)
	require.Equal(t, ErrInvalidAmsLength, err.Code)
}
