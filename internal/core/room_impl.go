package core

import (
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

type roomMember struct {
	meta *domain.Member
	sess Session
}

// roomImpl is a threadsafe in-memory room.
// It never closes adapter-owned resources.
type roomImpl struct {
	room *domain.Room

	mu     sync.RWMutex
	order  []domain.UserID
	byUser map[domain.UserID]*roomMember
	closed bool
}

func NewRoomService(room *domain.Room) RoomService {
	return &roomImpl{
		room:   room,
		byUser: make(map[domain.UserID]*roomMember),
	}
}

func (r *roomImpl) Room() *domain.Room { return r.room }

func (r *roomImpl) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

func (r *roomImpl) Closed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

func (r *roomImpl) AddMember(sess Session) (JoinOutcome, error) {
	u := sess.User()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return JoinOutcome{}, ErrRoomClosed
	}

	out := JoinOutcome{}
	if m, ok := r.byUser[u.ID]; ok {
		// re-join keeps the slot and position, only the transport may change
		m.sess = sess
	} else {
		r.byUser[u.ID] = &roomMember{meta: domain.NewMember(u, time.Now()), sess: sess}
		r.order = append(r.order, u.ID)
		out.Added = true
		log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("user", string(u.ID)).Msg("member added")
	}
	out.Members = r.snapshotLocked()
	out.Others = r.sessionsLocked(u.ID)
	return out, nil
}

func (r *roomImpl) RemoveMember(sess Session) (LeaveOutcome, bool) {
	u := sess.User().ID
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byUser[u]
	if !ok || m.sess.ID() != sess.ID() {
		return LeaveOutcome{}, false
	}
	delete(r.byUser, u)
	r.order = lo.Without(r.order, u)
	log.Info().Str("module", "core.room").Str("room", string(r.room.ID)).Str("user", string(u)).Msg("member removed")

	if len(r.order) == 0 {
		r.closed = true
		return LeaveOutcome{Empty: true}, true
	}
	return LeaveOutcome{Remaining: r.sessionsLocked("")}, true
}

func (r *roomImpl) Recipients(uid domain.UserID, includeSelf bool) ([]Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.byUser[uid]; !ok {
		return nil, domain.ErrNotInRoom
	}
	if includeSelf {
		return r.sessionsLocked(""), nil
	}
	return r.sessionsLocked(uid), nil
}

func (r *roomImpl) MembersSnapshot() []MemberDTO {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

func (r *roomImpl) snapshotLocked() []MemberDTO {
	return lo.Map(r.order, func(id domain.UserID, _ int) MemberDTO {
		u := r.byUser[id].meta.User
		return MemberDTO{ID: u.ID, Username: u.Username}
	})
}

func (r *roomImpl) sessionsLocked(except domain.UserID) []Session {
	out := make([]Session, 0, len(r.order))
	for _, id := range r.order {
		if id == except {
			continue
		}
		out = append(out, r.byUser[id].sess)
	}
	return out
}
