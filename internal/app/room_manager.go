package app

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dkeye/Huddle/internal/core"
	"github.com/dkeye/Huddle/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
)

// LeftRoom is a room that still has participants after a leave.
type LeftRoom struct {
	RoomID    domain.RoomID
	Remaining []core.Session
}

// RoomManager indexes rooms by id and identities by the rooms they occupy.
// Its own lock only guards the two indexes; membership changes are
// serialized by each room's lock.
type RoomManager struct {
	mu       sync.RWMutex
	rooms    map[domain.RoomID]core.RoomService
	memberOf map[domain.UserID]map[domain.RoomID]core.SessionID
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:    make(map[domain.RoomID]core.RoomService),
		memberOf: make(map[domain.UserID]map[domain.RoomID]core.SessionID),
	}
}

func (m *RoomManager) getOrCreate(id domain.RoomID, creator *domain.User) core.RoomService {
	m.mu.RLock()
	room, ok := m.rooms[id]
	m.mu.RUnlock()
	if ok && !room.Closed() {
		return room
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok = m.rooms[id]; ok && !room.Closed() {
		return room
	}
	room = core.NewRoomService(domain.NewRoom(id, creator, time.Now()))
	m.rooms[id] = room
	log.Info().Str("module", "app.rooms").Str("room", string(id)).Str("creator", string(creator.ID)).Msg("room created")
	return room
}

// Join adds sess to the room, creating it on first join.
// Re-joining returns the current list with Added=false.
func (m *RoomManager) Join(id domain.RoomID, sess core.Session) (core.JoinOutcome, error) {
	for {
		room := m.getOrCreate(id, sess.User())
		out, err := room.AddMember(sess)
		if errors.Is(err, core.ErrRoomClosed) {
			// lost the race against the last leaver, the next lookup replaces it
			continue
		}
		if err != nil {
			return core.JoinOutcome{}, err
		}
		m.remember(sess, id)
		return out, nil
	}
}

// LeaveAll removes the identity of sess from every room it occupies, as long
// as the membership still belongs to sess. Rooms emptied by the removal are
// deleted and left out of the result.
func (m *RoomManager) LeaveAll(sess core.Session) []LeftRoom {
	uid := sess.User().ID
	m.mu.RLock()
	rooms := make(map[domain.RoomID]core.RoomService, len(m.memberOf[uid]))
	for id := range m.memberOf[uid] {
		if r, ok := m.rooms[id]; ok {
			rooms[id] = r
		}
	}
	m.mu.RUnlock()

	var left []LeftRoom
	for id, room := range rooms {
		out, ok := room.RemoveMember(sess)
		if !ok {
			continue
		}
		m.forget(sess, id, room, out.Empty)
		if out.Empty {
			continue
		}
		left = append(left, LeftRoom{RoomID: id, Remaining: out.Remaining})
	}
	slices.SortFunc(left, func(a, b LeftRoom) int { return strings.Compare(string(a.RoomID), string(b.RoomID)) })
	return left
}

func (m *RoomManager) remember(sess core.Session, id domain.RoomID) {
	uid := sess.User().ID
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.memberOf[uid] == nil {
		m.memberOf[uid] = make(map[domain.RoomID]core.SessionID)
	}
	m.memberOf[uid][id] = sess.ID()
}

func (m *RoomManager) forget(sess core.Session, id domain.RoomID, room core.RoomService, empty bool) {
	uid := sess.User().ID
	m.mu.Lock()
	defer m.mu.Unlock()
	if rooms, ok := m.memberOf[uid]; ok && rooms[id] == sess.ID() {
		delete(rooms, id)
		if len(rooms) == 0 {
			delete(m.memberOf, uid)
		}
	}
	if empty && m.rooms[id] == room {
		delete(m.rooms, id)
		log.Info().Str("module", "app.rooms").Str("room", string(id)).Msg("room deleted")
	}
}

// Recipients checks that uid participates in the room and snapshots who to deliver to.
func (m *RoomManager) Recipients(id domain.RoomID, uid domain.UserID, includeSelf bool) ([]core.Session, error) {
	room, ok := m.Get(id)
	if !ok {
		return nil, domain.ErrNotInRoom
	}
	return room.Recipients(uid, includeSelf)
}

func (m *RoomManager) Get(id domain.RoomID) (core.RoomService, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[id]
	if !ok || room.Closed() {
		return nil, false
	}
	return room, true
}

// RoomsOf lists the rooms uid currently occupies.
func (m *RoomManager) RoomsOf(uid domain.UserID) []domain.RoomID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := lo.Keys(m.memberOf[uid])
	slices.Sort(ids)
	return ids
}

// List is a point-in-time discovery snapshot.
func (m *RoomManager) List() []core.RoomInfo {
	m.mu.RLock()
	rooms := lo.Values(m.rooms)
	m.mu.RUnlock()

	out := make([]core.RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		n := r.MemberCount()
		if n == 0 {
			continue
		}
		meta := r.Room()
		out = append(out, core.RoomInfo{
			ID:               meta.ID,
			Name:             meta.Name,
			ParticipantCount: n,
			CreatedBy:        meta.CreatedByName,
			CreatedByID:      meta.CreatedBy,
		})
	}
	slices.SortFunc(out, func(a, b core.RoomInfo) int { return strings.Compare(string(a.ID), string(b.ID)) })
	return out
}
