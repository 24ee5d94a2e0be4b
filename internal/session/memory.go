package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/NV18Codes/khaddar-storefront/internal/domain"
)

const cleanupInterval = 30 * time.Second

type memorySession struct {
	fields    map[string]string
	expiresAt time.Time
}

// MemoryStore implements Store with in-process storage. It backs tests and
// single-node dev setups where Redis is not worth running.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*memorySession
	ttl      time.Duration

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	s := &MemoryStore{
		sessions:    make(map[string]*memorySession),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *MemoryStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireSessions()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *MemoryStore) expireSessions() {
	now := time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	for sid, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, sid)
		}
	}
}

// Stop terminates the cleanup goroutine.
func (s *MemoryStore) Stop() {
	close(s.stopCleanup)
	s.wg.Wait()
}

func (s *MemoryStore) write(sid string, fields map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sid]
	if !ok {
		sess = &memorySession{fields: make(map[string]string)}
		s.sessions[sid] = sess
	}
	for field, value := range fields {
		if value == "" {
			delete(sess.fields, field)
		} else {
			sess.fields[field] = value
		}
	}
	sess.expiresAt = time.Now().Add(s.ttl)
}

func (s *MemoryStore) read(sid, field string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sid]
	if !ok || time.Now().After(sess.expiresAt) {
		return ""
	}
	return sess.fields[field]
}

func (s *MemoryStore) SetAuth(_ context.Context, sid string, auth domain.Session) error {
	s.write(sid, map[string]string{
		FieldToken:   auth.AuthToken,
		FieldRefresh: auth.RefreshToken,
		FieldUser:    marshalUser(auth.User),
		FieldEmail:   userEmail(auth.User),
	})
	return nil
}

func (s *MemoryStore) Auth(_ context.Context, sid string) (domain.Session, error) {
	return domain.Session{
		AuthToken:    s.read(sid, FieldToken),
		RefreshToken: s.read(sid, FieldRefresh),
		User:         unmarshalUser(s.read(sid, FieldUser)),
	}, nil
}

func (s *MemoryStore) Email(_ context.Context, sid string) (string, error) {
	return s.read(sid, FieldEmail), nil
}

func (s *MemoryStore) SetAdminAuth(_ context.Context, sid string, auth domain.Session) error {
	s.write(sid, map[string]string{
		FieldAdminToken: auth.AuthToken,
		FieldAdminUser:  marshalUser(auth.User),
	})
	return nil
}

func (s *MemoryStore) AdminAuth(_ context.Context, sid string) (domain.Session, error) {
	return domain.Session{
		AuthToken: s.read(sid, FieldAdminToken),
		User:      unmarshalUser(s.read(sid, FieldAdminUser)),
	}, nil
}

func (s *MemoryStore) SetCart(_ context.Context, sid string, cart domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	s.write(sid, map[string]string{FieldCart: string(data)})
	return nil
}

func (s *MemoryStore) Cart(_ context.Context, sid string) (domain.Cart, error) {
	raw := s.read(sid, FieldCart)
	if raw == "" {
		return domain.Cart{}, nil
	}
	var cart domain.Cart
	if err := json.Unmarshal([]byte(raw), &cart); err != nil {
		return domain.Cart{}, nil
	}
	return cart, nil
}

func (s *MemoryStore) ClearCart(_ context.Context, sid string) error {
	s.write(sid, map[string]string{FieldCart: ""})
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sid)
	return nil
}
