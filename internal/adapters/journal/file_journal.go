package journal

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/domain"
	"github.com/CS-Personal-Data-Acquisition-Prototype/UI-Layer/internal/ports"
)

const (
	recordHeaderLen = 12
	logSuffix       = ".log"
)

var ErrInvalidSession = errors.New("invalid session id")

type segment struct {
	path      string
	file      *os.File
	writer    *bufio.Writer
	lastID    ports.JournalEntryID
	sizeBytes int64
}

// FileJournal keeps one append-only log per session under dir.
type FileJournal struct {
	mu       sync.Mutex
	dir      string
	segments map[string]*segment
}

func NewFileJournal(dir string) (*FileJournal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	j := &FileJournal{dir: dir, segments: make(map[string]*segment)}
	ids, err := j.Sessions()
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		if _, err := j.open(id); err != nil {
			j.Close()
			return nil, err
		}
	}
	return j, nil
}

func validSession(id string) bool {
	return id != "" && !strings.ContainsAny(id, `/\.`) && id == filepath.Base(id)
}

func (j *FileJournal) open(sessionID string) (*segment, error) {
	if seg, ok := j.segments[sessionID]; ok {
		return seg, nil
	}
	if !validSession(sessionID) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSession, sessionID)
	}
	path := filepath.Join(j.dir, sessionID+logSuffix)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	seg := &segment{path: path, file: f, writer: bufio.NewWriterSize(f, 64<<10)}
	if err := seg.scan(); err != nil {
		f.Close()
		return nil, err
	}
	j.segments[sessionID] = seg
	return seg, nil
}

// scan finds the last complete record and truncates a partially written tail.
func (s *segment) scan() error {
	rf, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer rf.Close()

	reader := bufio.NewReader(rf)
	var offset int64
	for {
		var hdr [recordHeaderLen]byte
		if _, err := io.ReadFull(reader, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("journal scan header: %w", err)
		}
		id := ports.JournalEntryID(binary.BigEndian.Uint64(hdr[0:8]))
		length := binary.BigEndian.Uint32(hdr[8:12])
		if _, err := io.CopyN(io.Discard, reader, int64(length)); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("journal scan body: %w", err)
		}
		offset += recordHeaderLen + int64(length)
		s.lastID = id
	}

	if err := s.file.Truncate(offset); err != nil {
		return err
	}
	s.sizeBytes = offset
	return nil
}

// Append writes points as consecutive records and returns the id of the last one.
func (j *FileJournal) Append(sessionID string, points []domain.RawDatapoint) (ports.JournalEntryID, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	seg, err := j.open(sessionID)
	if err != nil {
		return 0, err
	}
	for _, p := range points {
		b, err := json.Marshal(p)
		if err != nil {
			return seg.lastID, err
		}

		// entry format: [8 bytes id][4 bytes len][len bytes json]
		id := seg.lastID + 1
		var hdr [recordHeaderLen]byte
		binary.BigEndian.PutUint64(hdr[0:8], uint64(id))
		binary.BigEndian.PutUint32(hdr[8:12], uint32(len(b)))

		if _, err := seg.writer.Write(hdr[:]); err != nil {
			return seg.lastID, err
		}
		if _, err := seg.writer.Write(b); err != nil {
			return seg.lastID, err
		}
		seg.lastID = id
		seg.sizeBytes += int64(len(b) + len(hdr))
	}
	return seg.lastID, seg.writer.Flush()
}

// Iterate calls fn for every record of the session with id >= from.
func (j *FileJournal) Iterate(sessionID string, from ports.JournalEntryID, fn func(id ports.JournalEntryID, p domain.RawDatapoint) error) error {
	j.mu.Lock()
	seg, err := j.open(sessionID)
	if err == nil {
		err = seg.writer.Flush()
	}
	j.mu.Unlock()
	if err != nil {
		return err
	}

	f, err := os.Open(seg.path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	for {
		var hdr [recordHeaderLen]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("journal %s truncated header: %w", sessionID, err)
		}
		id := ports.JournalEntryID(binary.BigEndian.Uint64(hdr[0:8]))
		l := binary.BigEndian.Uint32(hdr[8:12])

		b := make([]byte, l)
		if _, err := io.ReadFull(r, b); err != nil {
			return fmt.Errorf("corrupt journal %s: %w", sessionID, err)
		}
		if id < from {
			continue
		}

		var p domain.RawDatapoint
		if err := json.Unmarshal(b, &p); err != nil {
			return fmt.Errorf("corrupt journal entry %d: %w", id, err)
		}
		if err := fn(id, p); err != nil {
			return err
		}
	}
}

// Sessions lists the sessions that have a log under dir.
func (j *FileJournal) Sessions() ([]string, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, logSuffix) {
			continue
		}
		out = append(out, strings.TrimSuffix(name, logSuffix))
	}
	sort.Strings(out)
	return out, nil
}

func (j *FileJournal) Stats() ports.JournalStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	st := ports.JournalStats{Sessions: len(j.segments)}
	for _, seg := range j.segments {
		if seg.lastID > st.LatestAppended {
			st.LatestAppended = seg.lastID
		}
		st.SizeBytes += seg.sizeBytes
	}
	return st
}

func (j *FileJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	var errs []error
	for id, seg := range j.segments {
		if err := seg.writer.Flush(); err != nil {
			errs = append(errs, err)
		}
		if err := seg.file.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(j.segments, id)
	}
	return errors.Join(errs...)
}
