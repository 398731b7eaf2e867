package utils

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/recyclink/recyclink/models"
)

// Session-user projection: a cached copy of the logged-in user so dashboards
// read fresh totals without hitting the database. The reward ledger refreshes
// it after every award; stale copies otherwise survive until re-login.

const sessionTTL = 24 * time.Hour

var (
	sessionUsers   = map[string]models.User{}
	sessionUsersMu sync.RWMutex
)

func sessionKey(userID string) string {
	return "session:user:" + userID
}

// SetSessionUser stores the projection for a user, typically at login.
func SetSessionUser(u models.User) {
	if rc := GetRedis(); rc != nil {
		b, err := json.Marshal(u)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if rc.Set(ctx, sessionKey(u.UserID), b, sessionTTL).Err() == nil {
				return
			}
		}
	}
	sessionUsersMu.Lock()
	sessionUsers[u.UserID] = u
	sessionUsersMu.Unlock()
}

// GetSessionUser returns the cached projection when one exists.
func GetSessionUser(userID string) (models.User, bool) {
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		b, err := rc.Get(ctx, sessionKey(userID)).Bytes()
		if err == nil {
			var u models.User
			if json.Unmarshal(b, &u) == nil {
				return u, true
			}
		}
	}
	sessionUsersMu.RLock()
	u, ok := sessionUsers[userID]
	sessionUsersMu.RUnlock()
	return u, ok
}

// RefreshSessionUser replaces an existing projection with current totals.
// A user without an active session is left uncached.
func RefreshSessionUser(u models.User) {
	if _, ok := GetSessionUser(u.UserID); !ok {
		return
	}
	SetSessionUser(u)
}

// ClearSessionUser drops the projection, typically at logout.
func ClearSessionUser(userID string) {
	CacheDelete(sessionKey(userID))
	sessionUsersMu.Lock()
	delete(sessionUsers, userID)
	sessionUsersMu.Unlock()
}
