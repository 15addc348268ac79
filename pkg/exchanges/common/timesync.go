package common

import (
	"log"
	"sync"
	"time"
)

// TimeSync tracks the millisecond offset between local clock and an exchange
// server clock so signed requests carry acceptable timestamps.
type TimeSync struct {
	getServerTime func() (int64, error)
	offset        int64
	lastSync      time.Time
	maxAge        time.Duration
	mu            sync.Mutex
}

// NewTimeSync builds a lazily refreshing synchronizer.
func NewTimeSync(getServerTime func() (int64, error)) *TimeSync {
	return &TimeSync{
		getServerTime: getServerTime,
		maxAge:        30 * time.Minute,
	}
}

// Now returns the current time in ms adjusted by the server offset,
// refreshing the offset when it has gone stale. A failed refresh falls back
// to the previous offset.
func (ts *TimeSync) Now() int64 {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if time.Since(ts.lastSync) >= ts.maxAge {
		localBefore := time.Now().UnixMilli()
		serverTime, err := ts.getServerTime()
		if err != nil {
			log.Printf("time sync failed, keeping offset %dms: %v", ts.offset, err)
		} else {
			localAfter := time.Now().UnixMilli()
			local := localBefore + (localAfter-localBefore)/2
			ts.offset = serverTime - local
			log.Printf("time sync: offset=%dms", ts.offset)
		}
		ts.lastSync = time.Now()
	}

	return time.Now().UnixMilli() + ts.offset
}
