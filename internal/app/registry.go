package app

import (
	"slices"
	"strings"
	"sync"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// UserStatus is the discovery view of a known identity.
type UserStatus struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
	Online   bool          `json:"isOnline"`
}

// Registry maps an identity to its single live session and remembers every
// identity seen since the process started.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.UserID]core.Session
	users    map[domain.UserID]*domain.User
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.UserID]core.Session),
		users:    make(map[domain.UserID]*domain.User),
	}
}

// Register installs sess as the current session of its identity.
// prev is the superseded session, if any; fresh reports that the identity
// had no live session before. The caller owns closing prev.
func (r *Registry) Register(sess core.Session) (prev core.Session, fresh bool) {
	u := sess.User()
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, had := r.sessions[u.ID]
	r.sessions[u.ID] = sess
	r.users[u.ID] = u
	log.Info().Str("module", "app.registry").Str("user", string(u.ID)).Str("sid", string(sess.ID())).Bool("superseded", had).Msg("registered session")
	return prev, !had
}

func (r *Registry) Lookup(uid domain.UserID) (core.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[uid]
	return s, ok
}

// IsCurrent reports whether sess is still the live session of its identity.
func (r *Registry) IsCurrent(sess core.Session) bool {
	cur, ok := r.Lookup(sess.User().ID)
	return ok && cur.ID() == sess.ID()
}

// Remove drops sess only while it is still current, so a late disconnect
// never evicts a newer connection.
func (r *Registry) Remove(sess core.Session) bool {
	uid := sess.User().ID
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.sessions[uid]
	if !ok || cur.ID() != sess.ID() {
		log.Debug().Str("module", "app.registry").Str("user", string(uid)).Str("sid", string(sess.ID())).Msg("remove skipped, not current")
		return false
	}
	delete(r.sessions, uid)
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("sid", string(sess.ID())).Msg("unbind session")
	return true
}

// Online snapshots every live session except the one of except.
func (r *Registry) Online(except domain.UserID) []core.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Filter(lo.Values(r.sessions), func(s core.Session, _ int) bool {
		return s.User().ID != except
	})
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Users lists known identities with their online flag, sorted by username.
func (r *Registry) Users() []UserStatus {
	r.mu.RLock()
	out := make([]UserStatus, 0, len(r.users))
	for id, u := range r.users {
		_, online := r.sessions[id]
		out = append(out, UserStatus{ID: id, Username: u.Username, Online: online})
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b UserStatus) int {
		if c := strings.Compare(a.Username, b.Username); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return out
}
