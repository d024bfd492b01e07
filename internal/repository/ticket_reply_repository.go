package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/order-desk/internal/domain"
)

// TicketReplyRepository manages the append-only reply thread of a ticket.
type TicketReplyRepository interface {
	// Append inserts the reply and touches the parent ticket's
	// updated_date in a single transaction. Returns ErrNotFound when the
	// ticket does not exist; neither write is applied in that case.
	Append(ctx context.Context, reply *domain.TicketReply, touchedAt time.Time) error
	ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketReply, error)
	CountByTicket(ctx context.Context, ticketID int64) (int64, error)
}

type ticketReplyRepository struct {
	pool *pgxpool.Pool
}

// NewTicketReplyRepository instantiates the postgres-backed repository.
func NewTicketReplyRepository(pool *pgxpool.Pool) TicketReplyRepository {
	return &ticketReplyRepository{pool: pool}
}

func (r *ticketReplyRepository) Append(ctx context.Context, reply *domain.TicketReply, touchedAt time.Time) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx, `UPDATE tickets SET updated_date=$1 WHERE id=$2`, touchedAt, reply.TicketID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}

	const insert = `
        INSERT INTO ticket_replies (ticket_id, message, author_name, author_email, created_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id`
	if err := tx.QueryRow(ctx, insert,
		reply.TicketID,
		reply.Message,
		reply.AuthorName,
		reply.AuthorEmail,
		reply.CreatedDate,
	).Scan(&reply.ID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketReplyRepository) ListByTicket(ctx context.Context, ticketID int64) ([]domain.TicketReply, error) {
	const query = `
        SELECT id, ticket_id, message, author_name, author_email, created_date
        FROM ticket_replies WHERE ticket_id=$1 ORDER BY created_date ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketReply
	for rows.Next() {
		var reply domain.TicketReply
		if err := rows.Scan(
			&reply.ID,
			&reply.TicketID,
			&reply.Message,
			&reply.AuthorName,
			&reply.AuthorEmail,
			&reply.CreatedDate,
		); err != nil {
			return nil, err
		}
		result = append(result, reply)
	}
	return result, rows.Err()
}

func (r *ticketReplyRepository) CountByTicket(ctx context.Context, ticketID int64) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ticket_replies WHERE ticket_id=$1`, ticketID).Scan(&count)
	return count, err
}
