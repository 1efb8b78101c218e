package adsmux

import (
	"sync"
	"time"
)

// NotificationCallback receives one sample from a subscribed variable: the
// server-assigned handle, the sample's server timestamp as a raw Windows
// FILETIME value (100ns intervals since 1601-01-01 UTC), the raw value
// bytes, and whatever user data was attached at subscribe time. The
// timestamp is passed through verbatim, exactly as the device sent it;
// callers that want a time.Time can convert it with FiletimeToTime.
type NotificationCallback func(handle uint32, timestamp uint64, data []byte, userData any)

// notificationEntry is what's registered per server handle.
type notificationEntry struct {
	callback NotificationCallback
	userData any
}

// notificationTable maps server-assigned notification handles to the
// callback that should run when a sample arrives for them.
type notificationTable struct {
	mu sync.RWMutex
	m  map[uint32]notificationEntry
}

func newNotificationTable() *notificationTable {
	return &notificationTable{m: make(map[uint32]notificationEntry)}
}

func (t *notificationTable) register(handle uint32, cb NotificationCallback, userData any) {
	t.mu.Lock()
	t.m[handle] = notificationEntry{callback: cb, userData: userData}
	t.mu.Unlock()
}

func (t *notificationTable) unregister(handle uint32) {
	t.mu.Lock()
	delete(t.m, handle)
	t.mu.Unlock()
}

// lookup returns the entry for handle, if any. The caller must invoke the
// callback after releasing any lock of its own: looking the entry up and
// running the callback are deliberately separate steps so a callback that
// calls back into the client (e.g. DeleteDeviceNotification) can't deadlock
// against the table's own mutex.
func (t *notificationTable) lookup(handle uint32) (notificationEntry, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.m[handle]
	return e, ok
}

// FiletimeToTime converts a Windows FILETIME (100ns intervals since
// 1601-01-01 UTC), as delivered verbatim by NotificationCallback, to a Go
// time.Time. It is an opt-in convenience for callers that want one; nothing
// in this package calls it.
func FiletimeToTime(ft uint64) time.Time {
	const epochDiff = 116444736000000000 // 1601-01-01 to 1970-01-01, in 100ns units
	if ft < epochDiff {
		return time.Unix(0, 0).UTC()
	}
	unixNanos := int64((ft - epochDiff) * 100)
	return time.Unix(0, unixNanos).UTC()
}
