package app

import (
	"fmt"
	"time"

	"github.com/dkeye/Huddle/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Transfers owns every file-transfer negotiation of the process.
// Disconnects never touch it.
type Transfers struct {
	table *ledger[domain.TransferID, domain.Transfer]
	now   func() time.Time
}

func NewTransfers() *Transfers {
	return &Transfers{table: newLedger[domain.TransferID, domain.Transfer](), now: time.Now}
}

func (s *Transfers) Create(sender *domain.User, target domain.UserID, file domain.FileDescriptor, room domain.RoomID) domain.Transfer {
	t := domain.NewTransfer(domain.TransferID(uuid.NewString()), sender, target, file, room, s.now())
	s.table.put(t.ID, t)
	log.Info().Str("module", "app.transfers").Str("transfer", string(t.ID)).Str("sender", string(sender.ID)).Str("target", string(target)).Str("file", file.Name).Msg("transfer created")
	return *t
}

func (s *Transfers) Get(id domain.TransferID) (domain.Transfer, bool) {
	return s.table.get(id)
}

// Respond records the target's answer to a pending transfer.
func (s *Transfers) Respond(id domain.TransferID, responder domain.UserID, accepted bool) (domain.Transfer, error) {
	t, ok, err := s.table.apply(id, func(t *domain.Transfer) error {
		return t.Respond(responder, accepted, s.now())
	})
	if !ok {
		return t, fmt.Errorf("transfer %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return t, fmt.Errorf("transfer %s: %w", id, err)
	}
	log.Info().Str("module", "app.transfers").Str("transfer", string(id)).Str("status", string(t.Status)).Msg("transfer answered")
	return t, nil
}

// Finish records completion or failure reported by either party.
func (s *Transfers) Finish(id domain.TransferID, actor domain.UserID, completed bool) (domain.Transfer, error) {
	t, ok, err := s.table.apply(id, func(t *domain.Transfer) error {
		return t.Finish(actor, completed, s.now())
	})
	if !ok {
		return t, fmt.Errorf("transfer %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return t, fmt.Errorf("transfer %s: %w", id, err)
	}
	log.Info().Str("module", "app.transfers").Str("transfer", string(id)).Str("status", string(t.Status)).Msg("transfer finished")
	return t, nil
}

func (s *Transfers) Len() int { return s.table.len() }
