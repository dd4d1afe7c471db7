package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskhub/helpdesk/internal/domain"
)

// ErrStaleAssignment reports that a ticket's status or assignee changed
// between validation and the assignment write.
var ErrStaleAssignment = errors.New("ticket changed since validation")

// TicketFilter captures listing query parameters. Nil fields are skipped.
type TicketFilter struct {
	ClientID   *string
	RaisedBy   *string
	AssignedTo *string
	Status     *domain.TicketStatus
	Priority   *domain.TicketPriority
	Pool       *domain.StaffScope
	Limit      int
	Offset     int
}

// AssignExpectation is the ticket state observed when assignment was
// validated. The write aborts when the stored row no longer matches.
type AssignExpectation struct {
	Status     domain.TicketStatus
	AssignedTo *string
}

// TicketRepository handles persistence for tickets.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	Update(ctx context.Context, ticket *domain.Ticket) error
	UpdateStatus(ctx context.Context, ticket *domain.Ticket) error
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Assign(ctx context.Context, id string, assignee *string, expected AssignExpectation) (*domain.Ticket, error)
	CountByStatus(ctx context.Context, clientID *string) (map[domain.TicketStatus]int, error)
	CountLiveByAssignee(ctx context.Context, clientID string) (map[string]int, error)
	CountLiveByPriority(ctx context.Context, clientID *string) (map[domain.TicketPriority]int, error)
	CountExpired(ctx context.Context, clientID *string, now time.Time) (int, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, client_id, raised_by, assigned_to, subject, description,
        priority, status, due_option, due_at, created_at, updated_at, closed_at`

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.ClientID,
		&ticket.RaisedBy,
		&ticket.AssignedTo,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Priority,
		&ticket.Status,
		&ticket.DueOption,
		&ticket.DueAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	)
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (client_id, raised_by, assigned_to, subject, description, priority, status, due_option, due_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ClientID,
		ticket.RaisedBy,
		ticket.AssignedTo,
		ticket.Subject,
		ticket.Description,
		ticket.Priority,
		ticket.Status,
		ticket.DueOption,
		ticket.DueAt,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, id), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets
        SET subject=$1, description=$2, priority=$3, due_option=$4, due_at=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Subject,
		ticket.Description,
		ticket.Priority,
		ticket.DueOption,
		ticket.DueAt,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, closed_at=$2, updated_at=NOW() WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, ticket.Status, ticket.ClosedAt, ticket.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ClientID != nil {
		args = append(args, *filter.ClientID)
		clauses = append(clauses, fmt.Sprintf("t.client_id=$%d", len(args)))
	}
	if filter.RaisedBy != nil {
		args = append(args, *filter.RaisedBy)
		clauses = append(clauses, fmt.Sprintf("t.raised_by=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("t.assigned_to=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("t.status=$%d", len(args)))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("t.priority=$%d", len(args)))
	}

	join := ""
	if filter.Pool != nil {
		// Unassigned tickets carry no pool and stay visible to both pools.
		join = " LEFT JOIN employees a ON a.id = t.assigned_to"
		args = append(args, *filter.Pool)
		clauses = append(clauses, fmt.Sprintf("(t.assigned_to IS NULL OR a.employment_type=$%d)", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	cols := "t." + strings.ReplaceAll(ticketColumns, ", ", ", t.")
	query := fmt.Sprintf(`SELECT %s FROM tickets t%s WHERE %s ORDER BY t.created_at DESC LIMIT %d OFFSET %d`,
		cols, join, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

// Assign updates the assignee inside a transaction. The row is re-read
// with FOR UPDATE and compared against the expectation so a concurrent
// assignment or status change aborts the write instead of clobbering it.
func (r *ticketRepository) Assign(ctx context.Context, id string, assignee *string, expected AssignExpectation) (*domain.Ticket, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var currentStatus domain.TicketStatus
	var currentAssignee *string
	err = tx.QueryRow(ctx, `SELECT status, assigned_to FROM tickets WHERE id=$1 FOR UPDATE`, id).
		Scan(&currentStatus, &currentAssignee)
	if err != nil {
		return nil, err
	}

	if currentStatus != expected.Status || !equalPtr(currentAssignee, expected.AssignedTo) {
		return nil, ErrStaleAssignment
	}

	query := fmt.Sprintf(`UPDATE tickets SET assigned_to=$1, updated_at=NOW() WHERE id=$2 RETURNING %s`, ticketColumns)
	var ticket domain.Ticket
	if err := scanTicket(tx.QueryRow(ctx, query, assignee, id), &ticket); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context, clientID *string) (map[domain.TicketStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM tickets GROUP BY status`
	args := []any{}
	if clientID != nil {
		query = `SELECT status, COUNT(*) FROM tickets WHERE client_id=$1 GROUP BY status`
		args = append(args, *clientID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketStatus]int)
	for rows.Next() {
		var status domain.TicketStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountLiveByAssignee(ctx context.Context, clientID string) (map[string]int, error) {
	const query = `
        SELECT assigned_to, COUNT(*) FROM tickets
        WHERE client_id=$1 AND assigned_to IS NOT NULL AND status IN ('open','in_progress')
        GROUP BY assigned_to`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int)
	for rows.Next() {
		var assignee string
		var count int
		if err := rows.Scan(&assignee, &count); err != nil {
			return nil, err
		}
		result[assignee] = count
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountLiveByPriority(ctx context.Context, clientID *string) (map[domain.TicketPriority]int, error) {
	query := `SELECT priority, COUNT(*) FROM tickets WHERE status IN ('open','in_progress')`
	args := []any{}
	if clientID != nil {
		args = append(args, *clientID)
		query += fmt.Sprintf(" AND client_id=$%d", len(args))
	}
	query += " GROUP BY priority"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.TicketPriority]int)
	for rows.Next() {
		var priority domain.TicketPriority
		var count int
		if err := rows.Scan(&priority, &count); err != nil {
			return nil, err
		}
		result[priority] = count
	}
	return result, rows.Err()
}

func (r *ticketRepository) CountExpired(ctx context.Context, clientID *string, now time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM tickets WHERE due_at IS NOT NULL AND due_at < $1
              AND status NOT IN ('closed','archived','discarded')`
	args := []any{now}
	if clientID != nil {
		args = append(args, *clientID)
		query += fmt.Sprintf(" AND client_id=$%d", len(args))
	}

	var count int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
