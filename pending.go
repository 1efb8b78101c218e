package adsmux

import (
	"sync"
	"time"
)

// pendingResult is what gets handed back to whoever is waiting on an invoke
// id: either the raw response frame from the reader loop, or a failure from
// the reaper or from shutdown.
type pendingResult struct {
	payload []byte
	amsErr  uint32
	err     error
}

// pendingRequest is one in-flight command, keyed by AMS invoke id. ch is
// buffered with capacity 1 so the reader loop never blocks handing off a
// result.
type pendingRequest struct {
	ch        chan *pendingResult
	createdAt time.Time
}

// pendingTable is the invoke-id-keyed request/response correlation table.
// One exists per Client; register happens before the request is written to
// the socket, complete happens from the reader loop, take happens when a
// caller stops waiting (context cancellation, a failed write, or client
// shutdown), and reap is run periodically by the stale-handle reaper.
type pendingTable struct {
	mu sync.Mutex
	m  map[uint32]*pendingRequest
}

func newPendingTable() *pendingTable {
	return &pendingTable{m: make(map[uint32]*pendingRequest)}
}

// register allocates a result channel for invokeID. It panics if invokeID is
// already registered: invoke ids are assigned from a monotonic counter, so a
// collision means the counter wrapped around a request that's been pending
// for over 4 billion calls, which points at a bug elsewhere.
func (t *pendingTable) register(invokeID uint32) <-chan *pendingResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.m[invokeID]; exists {
		panic("adsmux: duplicate invoke id registered")
	}
	req := &pendingRequest{
		ch:        make(chan *pendingResult, 1),
		createdAt: time.Now(),
	}
	t.m[invokeID] = req
	return req.ch
}

// complete delivers result to the waiter for invokeID and removes the
// entry. It reports false if no such invoke id is pending (a late or
// duplicate response, which the reader loop logs and drops).
func (t *pendingTable) complete(invokeID uint32, result *pendingResult) bool {
	t.mu.Lock()
	req, ok := t.m[invokeID]
	if ok {
		delete(t.m, invokeID)
	}
	t.mu.Unlock()
	if !ok {
		return false
	}
	req.ch <- result
	return true
}

// take removes invokeID from the table without delivering anything,
// releasing the slot when a caller's own wait ends first (context
// cancellation, a failed write, or client shutdown). Timed-out entries are
// removed by reap instead.
func (t *pendingTable) take(invokeID uint32) {
	t.mu.Lock()
	delete(t.m, invokeID)
	t.mu.Unlock()
}

// reap evicts every entry older than timeout and fails it with a local sync
// timeout, returning how many were evicted.
func (t *pendingTable) reap(timeout time.Duration) int {
	now := time.Now()
	var stale []*pendingRequest
	t.mu.Lock()
	for id, req := range t.m {
		if now.Sub(req.createdAt) >= timeout {
			stale = append(stale, req)
			delete(t.m, id)
		}
	}
	t.mu.Unlock()
	for _, req := range stale {
		req.ch <- &pendingResult{err: &AdsError{
			Code:    ADSERR_CLIENT_SYNCTIMEOUT,
			Message: "Timeout has occurred - the target is not responding in the specified ADS timeout.",
		}}
	}
	return len(stale)
}

// len reports the number of in-flight requests, used by the pending-requests
// metrics gauge.
func (t *pendingTable) len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}

// abandonAll fails every pending entry with err, used when the connection is
// closing or the reader loop has died.
func (t *pendingTable) abandonAll(err error) {
	t.mu.Lock()
	reqs := make([]*pendingRequest, 0, len(t.m))
	for id, req := range t.m {
		reqs = append(reqs, req)
		delete(t.m, id)
	}
	t.mu.Unlock()
	for _, req := range reqs {
		req.ch <- &pendingResult{err: err}
	}
}
