package domain

// Session is an entry of the backend's session list.
type Session struct {
	ID       int64  `json:"session_id"`
	Username string `json:"username"`
}

// Cursor tracks how much of a session has been pulled from the backend.
type Cursor struct {
	SessionID string
	LastSeen  string
	RawCount  int
}

// Initialized reports whether any datapoint of the session has been seen.
func (c Cursor) Initialized() bool {
	return c.LastSeen != ""
}

// Since is the lower bound for the next incremental fetch.
func (c Cursor) Since() string {
	if c.LastSeen == "" {
		return EpochTimestamp
	}
	return c.LastSeen
}
