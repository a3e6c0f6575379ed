package app

import (
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type callPair struct {
	caller domain.UserID
	target domain.UserID
}

// Calls owns call requests. Responders may address a call by id or by the
// caller identity alone, so the latest pending call per pair is indexed.
type Calls struct {
	table *ledger[domain.CallID, domain.Call]
	now   func() time.Time

	mu      sync.Mutex
	pending map[callPair]domain.CallID
}

func NewCalls() *Calls {
	return &Calls{
		table:   newLedger[domain.CallID, domain.Call](),
		now:     time.Now,
		pending: make(map[callPair]domain.CallID),
	}
}

func (s *Calls) Create(caller *domain.User, target domain.UserID, room domain.RoomID) domain.Call {
	c := domain.NewCall(domain.CallID(uuid.NewString()), caller, target, room, s.now())
	s.table.put(c.ID, c)
	s.mu.Lock()
	s.pending[callPair{caller: caller.ID, target: target}] = c.ID
	s.mu.Unlock()
	log.Info().Str("module", "app.calls").Str("call", string(c.ID)).Str("caller", string(caller.ID)).Str("target", string(target)).Msg("call requested")
	return *c
}

func (s *Calls) Get(id domain.CallID) (domain.Call, bool) {
	return s.table.get(id)
}

// Respond answers a call. An empty id resolves to the latest pending call
// from caller to responder.
func (s *Calls) Respond(id domain.CallID, caller, responder domain.UserID, accepted bool) (domain.Call, error) {
	pair := callPair{caller: caller, target: responder}
	if id == "" {
		s.mu.Lock()
		id = s.pending[pair]
		s.mu.Unlock()
		if id == "" {
			return domain.Call{}, fmt.Errorf("call from %s: %w", caller, domain.ErrNotFound)
		}
	}
	c, ok, err := s.table.apply(id, func(c *domain.Call) error {
		return c.Respond(responder, accepted, s.now())
	})
	if !ok {
		return c, fmt.Errorf("call %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return c, fmt.Errorf("call %s: %w", id, err)
	}

	s.mu.Lock()
	pair.caller = c.CallerID
	if s.pending[pair] == id {
		delete(s.pending, pair)
	}
	s.mu.Unlock()
	log.Info().Str("module", "app.calls").Str("call", string(id)).Str("status", string(c.Status)).Msg("call answered")
	return c, nil
}
