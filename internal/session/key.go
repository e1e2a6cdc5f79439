package session

import (
	"strconv"
	"sync/atomic"
	"time"
)

// Key identifies a cache entry: the owning admin plus a high-resolution
// creation timestamp. The timestamp provides both uniqueness within an
// admin and the expiry anchor; eviction always reads CreatedAt and
// never re-parses the string form.
type Key struct {
	OwnerID   int64
	CreatedAt time.Time
}

// lastStamp makes CreatedAt strictly monotonic per process even if the
// clock reads the same nanosecond twice.
var lastStamp atomic.Int64

func NewKey(ownerID int64) Key {
	now := time.Now().UnixNano()
	for {
		prev := lastStamp.Load()
		if now <= prev {
			now = prev + 1
		}
		if lastStamp.CompareAndSwap(prev, now) {
			break
		}
	}
	return Key{OwnerID: ownerID, CreatedAt: time.Unix(0, now)}
}

// SessionID is the opaque exchange token for search sessions.
func (k Key) SessionID() string { return k.form("tvq") }

// PostID is the opaque exchange token shared by a draft and the
// published post it becomes.
func (k Key) PostID() string { return k.form("tvp") }

func (k Key) form(prefix string) string {
	return prefix + strconv.FormatInt(k.OwnerID, 10) + "_" + strconv.FormatInt(k.CreatedAt.UnixNano(), 10)
}
