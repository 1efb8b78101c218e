package adsmux

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestConfigRejectsMissingRouterAddr(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RouterAddr = ""
	require.Error(t, cfg.Validate())
}

func TestConfigRejectsZeroTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequestTimeout = 0
	require.Error(t, cfg.Validate())

	cfg2 := DefaultConfig()
	cfg2.ReaperInterval = 0
	require.Error(t, cfg2.Validate())

	cfg3 := DefaultConfig()
	cfg3.DialTimeout = 0
	require.Error(t, cfg3.Validate())
}

func TestConfigAcceptsValidLocalNetID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LocalNetID = "5.80.201.232.1.1"
	require.NoError(t, cfg.Validate())
}

func TestConfigRejectsMalformedLocalNetID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LocalNetID = "not-a-net-id"
	require.Error(t, cfg.Validate())
}

func TestConfigAcceptsEmptyLocalNetID(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LocalNetID = ""
	require.NoError(t, cfg.Validate())
}
