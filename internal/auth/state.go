// Package auth tracks authentication state per session as a small state
// machine. Guards and handlers observe it instead of snapshotting token
// presence once, so a 401 from the API mid-session takes effect on the next
// request.
package auth

import (
	"sync"
	"time"
)

// AdminKey namespaces the admin auth machine away from the shopper one for
// the same session id.
func AdminKey(sid string) string {
	return "admin:" + sid
}

type Status string

const (
	StatusAnonymous     Status = "ANONYMOUS"
	StatusAuthenticated Status = "AUTHENTICATED"
	StatusExpired       Status = "EXPIRED"
)

// Machine is the auth lifecycle for one session. Transitions:
// Anonymous ↔ Authenticated (login/logout), Authenticated → Expired (API
// 401), Expired → Authenticated (re-login) or Anonymous (logout).
type Machine struct {
	mu     sync.RWMutex
	status Status
	subs   map[int]func(Status)
	nextID int
}

func NewMachine() *Machine {
	return &Machine{
		status: StatusAnonymous,
		subs:   make(map[int]func(Status)),
	}
}

func (m *Machine) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Machine) Login()  { m.transition(StatusAuthenticated) }
func (m *Machine) Logout() { m.transition(StatusAnonymous) }

// Expire marks the stored token invalid. An anonymous session has nothing to
// expire, so the call is a no-op there.
func (m *Machine) Expire() {
	m.mu.Lock()
	if m.status != StatusAuthenticated {
		m.mu.Unlock()
		return
	}
	m.status = StatusExpired
	fns := m.subscribers()
	m.mu.Unlock()

	for _, fn := range fns {
		fn(StatusExpired)
	}
}

func (m *Machine) transition(to Status) {
	m.mu.Lock()
	if m.status == to {
		m.mu.Unlock()
		return
	}
	m.status = to
	fns := m.subscribers()
	m.mu.Unlock()

	for _, fn := range fns {
		fn(to)
	}
}

// subscribers must be called with the lock held.
func (m *Machine) subscribers() []func(Status) {
	fns := make([]func(Status), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	return fns
}

// Subscribe registers fn for every status change and returns a cancel
// function. Callbacks run synchronously on the goroutine that drove the
// transition.
func (m *Machine) Subscribe(fn func(Status)) (cancel func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

const (
	sweepInterval = time.Minute
	machineTTL    = time.Hour
)

type registryEntry struct {
	machine  *Machine
	lastSeen time.Time
}

// Registry holds one machine per session id. Machines are created on first
// access, including for anonymous sessions, so idle entries are swept after
// machineTTL of inactivity. Eviction is safe: an evicted machine reads as
// Anonymous again and a token still in the session store re-promotes it on
// the next guarded request.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*registryEntry

	stopSweep chan struct{}
	wg        sync.WaitGroup
}

func NewRegistry() *Registry {
	r := &Registry{
		entries:   make(map[string]*registryEntry),
		stopSweep: make(chan struct{}),
	}

	r.wg.Add(1)
	go r.sweepLoop()

	return r
}

func (r *Registry) sweepLoop() {
	defer r.wg.Done()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.sweep(time.Now())
		case <-r.stopSweep:
			return
		}
	}
}

func (r *Registry) sweep(now time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for sid, e := range r.entries {
		if now.Sub(e.lastSeen) > machineTTL {
			delete(r.entries, sid)
		}
	}
}

// Stop terminates the sweep goroutine.
func (r *Registry) Stop() {
	close(r.stopSweep)
	r.wg.Wait()
}

func (r *Registry) Machine(sid string) *Machine {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[sid]
	if !ok {
		e = &registryEntry{machine: NewMachine()}
		r.entries[sid] = e
	}
	e.lastSeen = time.Now()
	return e.machine
}

// Expire is the API layer's 401 hook target.
func (r *Registry) Expire(sid string) {
	if sid == "" {
		return
	}
	r.Machine(sid).Expire()
}

func (r *Registry) Forget(sid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, sid)
}
