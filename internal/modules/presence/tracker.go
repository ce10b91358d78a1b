package presence

import "sync"

// Identity is the user half of a tracked connection.
type Identity struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

// Tracker keeps the bidirectional user <-> connection mapping for everyone
// currently on the plaza. At most one connection per user - the check and the
// insert happen under one lock so two racing connects for the same user can
// never both win.
type Tracker struct {
	mu           sync.RWMutex
	byUser       map[string]string   // userID -> connectionID
	byConnection map[string]Identity // connectionID -> identity
}

func NewTracker() *Tracker {
	return &Tracker{
		byUser:       make(map[string]string),
		byConnection: make(map[string]Identity),
	}
}

// Add registers a user session. Returns false without touching the existing
// mapping when the user already has an active connection.
func (t *Tracker) Add(userID, username, connectionID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, active := t.byUser[userID]; active {
		return false
	}

	t.byUser[userID] = connectionID
	t.byConnection[connectionID] = Identity{UserID: userID, Username: username}
	return true
}

// RemoveByConnection drops the session bound to a connection and returns the
// identity that was attached to it.
func (t *Tracker) RemoveByConnection(connectionID string) (Identity, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	identity, found := t.byConnection[connectionID]
	if !found {
		return Identity{}, false
	}

	delete(t.byConnection, connectionID)
	delete(t.byUser, identity.UserID)
	return identity, true
}

// RemoveByUser drops a user's session and returns the connection it occupied.
func (t *Tracker) RemoveByUser(userID string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	connectionID, found := t.byUser[userID]
	if !found {
		return "", false
	}

	delete(t.byUser, userID)
	delete(t.byConnection, connectionID)
	return connectionID, true
}

func (t *Tracker) IsActive(userID string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, active := t.byUser[userID]
	return active
}

func (t *Tracker) UserForConnection(connectionID string) (Identity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	identity, found := t.byConnection[connectionID]
	return identity, found
}

func (t *Tracker) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.byUser)
}

// Snapshot returns a copy of the active user -> connection mapping.
func (t *Tracker) Snapshot() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snapshot := make(map[string]string, len(t.byUser))
	for userID, connectionID := range t.byUser {
		snapshot[userID] = connectionID
	}
	return snapshot
}
