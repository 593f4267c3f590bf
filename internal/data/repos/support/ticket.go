package support

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorship-backend/internal/domain"
	"github.com/yungbote/mentorship-backend/internal/platform/dbctx"
	"github.com/yungbote/mentorship-backend/internal/platform/logger"
)

type TicketFilter struct {
	// OwnerID limits to one owner; nil lists every ticket.
	OwnerID *uuid.UUID
	Status  types.TicketStatus
}

type TicketRepo interface {
	Create(dbc dbctx.Context, t *types.Ticket) (*types.Ticket, error)
	GetByID(dbc dbctx.Context, id uuid.UUID, withMessages bool) (*types.Ticket, error)
	List(dbc dbctx.Context, filter TicketFilter) ([]*types.Ticket, error)
	AddMessage(dbc dbctx.Context, m *types.TicketMessage) (*types.TicketMessage, error)
	Assign(dbc dbctx.Context, id uuid.UUID, assigneeID uuid.UUID) (int64, error)
	Close(dbc dbctx.Context, id uuid.UUID, at time.Time) (int64, error)
}

type ticketRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTicketRepo(db *gorm.DB, baseLog *logger.Logger) TicketRepo {
	repoLog := baseLog.With("repo", "TicketRepo")
	return &ticketRepo{db: db, log: repoLog}
}

func (r *ticketRepo) Create(dbc dbctx.Context, t *types.Ticket) (*types.Ticket, error) {
	if err := dbc.DB(r.db).Omit("Messages").Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *ticketRepo) GetByID(dbc dbctx.Context, id uuid.UUID, withMessages bool) (*types.Ticket, error) {
	q := dbc.DB(r.db)
	if withMessages {
		q = q.Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
	}
	var t types.Ticket
	if err := q.Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) List(dbc dbctx.Context, filter TicketFilter) ([]*types.Ticket, error) {
	q := dbc.DB(r.db)
	if filter.OwnerID != nil {
		q = q.Where("owner_id = ?", *filter.OwnerID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	var results []*types.Ticket
	if err := q.Order("updated_at DESC, id DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// AddMessage stores m and bumps the ticket's updated_at.
func (r *ticketRepo) AddMessage(dbc dbctx.Context, m *types.TicketMessage) (*types.TicketMessage, error) {
	err := dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return tx.Model(&types.Ticket{}).
			Where("id = ?", m.TicketID).
			Update("updated_at", time.Now().UTC()).Error
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *ticketRepo) Assign(dbc dbctx.Context, id uuid.UUID, assigneeID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.Ticket{}).
		Where("id = ? AND assignee_id IS NULL", id).
		Update("assignee_id", assigneeID)
	return res.RowsAffected, res.Error
}

func (r *ticketRepo) Close(dbc dbctx.Context, id uuid.UUID, at time.Time) (int64, error) {
	res := dbc.DB(r.db).
		Model(&types.Ticket{}).
		Where("id = ? AND status = ?", id, types.TicketOpen).
		Updates(map[string]any{
			"status":    types.TicketClosed,
			"closed_at": at,
		})
	return res.RowsAffected, res.Error
}
