package service

import (
	"context"
	"errors"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/google/uuid"
)

type discardLogger struct{}

func (discardLogger) Info(string)  {}
func (discardLogger) Warn(string)  {}
func (discardLogger) Error(string) {}

type memLocker struct {
	held     map[string]bool
	extended int
	failWith error
	sync.Mutex
}

func newMemLocker() *memLocker {
	return &memLocker{held: make(map[string]bool)}
}

func (l *memLocker) Acquire(_ context.Context, key string, _ time.Duration) (i.Lease, error) {
	l.Lock()
	defer l.Unlock()
	if l.failWith != nil {
		return nil, l.failWith
	}
	if l.held[key] {
		return nil, i.ErrLeaseTaken
	}
	l.held[key] = true
	return &memLease{locker: l, key: key}, nil
}

func (l *memLocker) isHeld(key string) bool {
	l.Lock()
	defer l.Unlock()
	return l.held[key]
}

type memLease struct {
	locker *memLocker
	key    string
}

func (m *memLease) Extend(context.Context) error {
	m.locker.Lock()
	m.locker.extended++
	m.locker.Unlock()
	return nil
}

func (m *memLease) Release(context.Context) error {
	m.locker.Lock()
	delete(m.locker.held, m.key)
	m.locker.Unlock()
	return nil
}

type memFrameLog struct {
	frames map[string][]i.Frame
	sync.Mutex
}

func newMemFrameLog() *memFrameLog {
	return &memFrameLog{frames: make(map[string][]i.Frame)}
}

func (f *memFrameLog) Append(_ context.Context, key string, frames []i.Frame) error {
	f.Lock()
	defer f.Unlock()
	f.frames[key] = append(f.frames[key], frames...)
	return nil
}

func (f *memFrameLog) Since(_ context.Context, key string, seq int64) ([]i.Frame, error) {
	f.Lock()
	defer f.Unlock()
	var out []i.Frame
	for _, fr := range f.frames[key] {
		if fr.Seq >= seq {
			out = append(out, fr)
		}
	}
	return out, nil
}

func (f *memFrameLog) Clear(_ context.Context, key string) error {
	f.Lock()
	defer f.Unlock()
	delete(f.frames, key)
	return nil
}

type memUserRepo struct {
	users map[uuid.UUID]*dmn.User
}

func (r *memUserRepo) Save(u *dmn.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username && existing.ID != u.ID {
			return errors.New("username conflict")
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *memUserRepo) ByID(id uuid.UUID) (*dmn.User, error) {
	if u, ok := r.users[id]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (r *memUserRepo) ByUsername(username string) (*dmn.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

type stubTokenizer struct {
	claims map[string]interface{}
	exp    time.Duration
}

func (s *stubTokenizer) Generate(claims map[string]interface{}, exp time.Duration) (string, error) {
	s.claims = claims
	s.exp = exp
	return "token", nil
}

func (s *stubTokenizer) Decode(string) (map[string]interface{}, error) {
	return s.claims, nil
}
