package adsmux

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPendingTableRegisterComplete(t *testing.T) {
	pt := newPendingTable()
	ch := pt.register(1)
	require.Equal(t, 1, pt.len())

	ok := pt.complete(1, &pendingResult{payload: []byte{1, 2, 3}})
	require.True(t, ok)

	result := <-ch
	require.Equal(t, []byte{1, 2, 3}, result.payload)
	require.Equal(t, 0, pt.len())
}

func TestPendingTableCompleteUnknownInvokeID(t *testing.T) {
	pt := newPendingTable()
	ok := pt.complete(99, &pendingResult{})
	require.False(t, ok)
}

func TestPendingTableRegisterDuplicatePanics(t *testing.T) {
	pt := newPendingTable()
	pt.register(1)
	require.Panics(t, func() { pt.register(1) })
}

func TestPendingTableTake(t *testing.T) {
	pt := newPendingTable()
	pt.register(5)
	require.Equal(t, 1, pt.len())
	pt.take(5)
	require.Equal(t, 0, pt.len())
	require.False(t, pt.complete(5, &pendingResult{}))
}

func TestPendingTableReapEvictsStaleEntries(t *testing.T) {
	pt := newPendingTable()
	ch := pt.register(1)
	time.Sleep(5 * time.Millisecond)

	n := pt.reap(1 * time.Millisecond)
	require.Equal(t, 1, n)
	require.Equal(t, 0, pt.len())

	result := <-ch
	require.Error(t, result.err)
	require.True(t, IsAdsError(result.err, ADSERR_CLIENT_SYNCTIMEOUT))
}

func TestPendingTableReapKeepsFreshEntries(t *testing.T) {
	pt := newPendingTable()
	pt.register(1)
	n := pt.reap(1 * time.Hour)
	require.Equal(t, 0, n)
	require.Equal(t, 1, pt.len())
}

func TestPendingTableAbandonAll(t *testing.T) {
	pt := newPendingTable()
	ch1 := pt.register(1)
	ch2 := pt.register(2)

	pt.abandonAll(ErrClientClosed)

	r1 := <-ch1
	r2 := <-ch2
	require.ErrorIs(t, r1.err, ErrClientClosed)
	require.ErrorIs(t, r2.err, ErrClientClosed)
	require.Equal(t, 0, pt.len())
}
