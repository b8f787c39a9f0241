package state

import "sync"

// EventKind says what changed in the store.
type EventKind int

const (
	EventLogin EventKind = iota
	EventLogout
	EventSessionChanged
)

func (k EventKind) String() string {
	switch k {
	case EventLogin:
		return "login"
	case EventLogout:
		return "logout"
	case EventSessionChanged:
		return "session_changed"
	}
	return "unknown"
}

type Event struct {
	Kind     EventKind
	Username string
	Session  string
}

// Snapshot is a copy of the shared state at one instant.
type Snapshot struct {
	LoggedIn bool
	Username string
	Session  string
}

// Store owns the state shared between panels. All writes go through its methods,
// and every write is published to subscribers.
type Store struct {
	mu     sync.RWMutex
	state  Snapshot
	subs   map[int]chan Event
	nextID int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]chan Event)}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) LoggedIn() bool { return s.Snapshot().LoggedIn }

func (s *Store) Username() string { return s.Snapshot().Username }

func (s *Store) Session() string { return s.Snapshot().Session }

func (s *Store) Login(username string) {
	s.mu.Lock()
	s.state = Snapshot{LoggedIn: true, Username: username}
	s.publishLocked(Event{Kind: EventLogin, Username: username})
	s.mu.Unlock()
}

// Logout clears the user and the selected session.
func (s *Store) Logout() {
	s.mu.Lock()
	prev := s.state
	s.state = Snapshot{}
	s.publishLocked(Event{Kind: EventLogout, Username: prev.Username})
	if prev.Session != "" {
		s.publishLocked(Event{Kind: EventSessionChanged})
	}
	s.mu.Unlock()
}

// SelectSession changes the viewed session. Selecting the current session is a no-op.
func (s *Store) SelectSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Session == id {
		return
	}
	s.state.Session = id
	s.publishLocked(Event{Kind: EventSessionChanged, Username: s.state.Username, Session: id})
}

// Subscribe returns a buffered event channel and a cancel func. Slow subscribers
// lose events rather than block writers.
func (s *Store) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
			close(ch)
		})
	}
}

func (s *Store) publishLocked(ev Event) {
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
