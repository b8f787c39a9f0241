package mockapi

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownSession     = errors.New("unknown session")
	ErrUnknownUser        = errors.New("unknown user")
)

const timestampLayout = "2006-01-02T15:04:05.000000"

// Backend is an in-memory stand-in for the acquisition API.
type Backend struct {
	mu sync.RWMutex

	users    map[string][]byte
	tokens   map[string]string
	sessions []domain.Session
	points   map[int64][]domain.RawDatapoint

	nextSession int64
	nextPoint   int64
	now         func() time.Time
	cost        int
}

func NewBackend() *Backend {
	return &Backend{
		users:  make(map[string][]byte),
		tokens: make(map[string]string),
		points: make(map[int64][]domain.RawDatapoint),
		now:    time.Now,
		cost:   bcrypt.DefaultCost,
	}
}

func (b *Backend) Register(username, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[username]; ok {
		return ErrUserExists
	}
	b.users[username] = hash
	return nil
}

// Authenticate checks the password and returns a new bearer token.
func (b *Backend) Authenticate(username, password string) (string, error) {
	b.mu.RLock()
	hash, ok := b.users[username]
	b.mu.RUnlock()
	if !ok {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	token := uuid.New().String()
	b.mu.Lock()
	b.tokens[token] = username
	b.mu.Unlock()
	return token, nil
}

// TokenUser resolves a bearer token.
func (b *Backend) TokenUser(token string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	u, ok := b.tokens[token]
	return u, ok
}

// Revoke invalidates a bearer token. Unknown tokens are ignored.
func (b *Backend) Revoke(token string) {
	b.mu.Lock()
	delete(b.tokens, token)
	b.mu.Unlock()
}

// SessionOwner returns the user a session was created for.
func (b *Backend) SessionOwner(id int64) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, s := range b.sessions {
		if s.ID == id {
			return s.Username, true
		}
	}
	return "", false
}

func (b *Backend) CreateSession(username string) (domain.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[username]; !ok {
		return domain.Session{}, ErrUnknownUser
	}
	b.nextSession++
	s := domain.Session{ID: b.nextSession, Username: username}
	b.sessions = append(b.sessions, s)
	b.points[s.ID] = nil
	return s, nil
}

func (b *Backend) Sessions(username string) []domain.Session {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := []domain.Session{}
	for _, s := range b.sessions {
		if s.Username == username {
			out = append(out, s)
		}
	}
	return out
}

// Record appends one sample to a session and returns the stored datapoint.
func (b *Backend) Record(sessionID int64, values [13]float64) (domain.RawDatapoint, error) {
	blob, err := json.Marshal(sampleBlob(values))
	if err != nil {
		return domain.RawDatapoint{}, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.points[sessionID]; !ok {
		return domain.RawDatapoint{}, ErrUnknownSession
	}
	b.nextPoint++
	p := domain.RawDatapoint{
		ID:        b.nextPoint,
		Timestamp: b.now().UTC().Format(timestampLayout),
		Payload:   blob,
	}
	b.points[sessionID] = append(b.points[sessionID], p)
	return p, nil
}

// Datapoints returns the session's datapoints with a timestamp after since.
// An empty since returns everything.
func (b *Backend) Datapoints(sessionID int64, since string) ([]domain.RawDatapoint, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	pts, ok := b.points[sessionID]
	if !ok {
		return nil, ErrUnknownSession
	}
	out := []domain.RawDatapoint{}
	for _, p := range pts {
		if since == "" || domain.CompareTimestamps(p.Timestamp, since) > 0 {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func sampleBlob(v [13]float64) map[string]float64 {
	return map[string]float64{
		"lat": v[0], "lon": v[1], "alt": v[2],
		"accel_x": v[3], "accel_y": v[4], "accel_z": v[5],
		"gyro_x": v[6], "gyro_y": v[7], "gyro_z": v[8],
		"dac_1": v[9], "dac_2": v[10], "dac_3": v[11], "dac_4": v[12],
	}
}
