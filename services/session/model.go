package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// Session is the per-visitor key-value mapping. Values are held in their
// serialized form, so everything read from a session is a copy: changes only
// reach the session through Set or Delete.
type Session struct {
	UID          string
	CreatedAt    time.Time
	LastModified time.Time
	values       map[string]json.RawMessage
	modified     bool
}

func New(uid string, createdAt time.Time) *Session {
	return &Session{
		UID:          uid,
		CreatedAt:    createdAt,
		LastModified: createdAt,
		values:       map[string]json.RawMessage{},
	}
}

func (s *Session) Get(key string) (json.RawMessage, bool) {
	raw, found := s.values[key]
	if !found {
		return nil, false
	}
	return append(json.RawMessage(nil), raw...), true
}

// Set stores the json encoding of value under key and marks the session modified.
func (s *Session) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding session value %s: %w", key, err)
	}
	s.values[key] = raw
	s.modified = true
	return nil
}

func (s *Session) Contains(key string) bool {
	_, found := s.values[key]
	return found
}

func (s *Session) Delete(key string) {
	if _, found := s.values[key]; !found {
		return
	}
	delete(s.values, key)
	s.modified = true
}

// MarkModified flags the session for persistence at the end of the request.
func (s *Session) MarkModified() {
	s.modified = true
}

func (s *Session) Modified() bool {
	return s.modified
}

// Record is the persisted form of a Session.
type Record struct {
	UID          string
	CreatedAt    time.Time
	LastModified time.Time
	Payload      string `datastore:",noindex"`
}

func (s *Session) toRecord() (Record, error) {
	payload, err := json.Marshal(s.values)
	if err != nil {
		return Record{}, fmt.Errorf("error encoding session %s: %w", s.UID, err)
	}
	return Record{
		UID:          s.UID,
		CreatedAt:    s.CreatedAt,
		LastModified: s.LastModified,
		Payload:      string(payload),
	}, nil
}

func fromRecord(r Record) (*Session, error) {
	s := &Session{
		UID:          r.UID,
		CreatedAt:    r.CreatedAt,
		LastModified: r.LastModified,
		values:       map[string]json.RawMessage{},
	}
	if r.Payload == "" {
		return s, nil
	}
	err := json.Unmarshal([]byte(r.Payload), &s.values)
	if err != nil {
		return nil, fmt.Errorf("error decoding session %s: %w", r.UID, err)
	}
	return s, nil
}
