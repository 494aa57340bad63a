package clinic

import "sync"

// userLocks serializes event handling per user identity, so two updates from
// the same user can never interleave their read-modify-write on the session.
// Entries are refcounted and removed on release, so the map stays bounded by
// the number of in-flight events, not by the user base.
type userLocks struct {
	mu    sync.Mutex
	users map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{users: make(map[int64]*userLock)}
}

func (l *userLocks) lock(userID int64) {
	l.mu.Lock()
	u, ok := l.users[userID]
	if !ok {
		u = &userLock{}
		l.users[userID] = u
	}
	u.refs++
	l.mu.Unlock()

	u.mu.Lock()
}

func (l *userLocks) unlock(userID int64) {
	l.mu.Lock()
	u := l.users[userID]
	u.refs--
	if u.refs == 0 {
		delete(l.users, userID)
	}
	l.mu.Unlock()

	u.mu.Unlock()
}
