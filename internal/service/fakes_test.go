package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/repository"
)

type fakeTicketRepo struct {
	tickets    map[string]*domain.Ticket
	nextID     int
	forceStale bool
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*domain.Ticket)}
}

func (r *fakeTicketRepo) put(t *domain.Ticket) *domain.Ticket {
	if t.ID == "" {
		r.nextID++
		t.ID = fmt.Sprintf("ticket-%d", r.nextID)
	}
	copied := *t
	r.tickets[t.ID] = &copied
	return t
}

func (r *fakeTicketRepo) Create(_ context.Context, t *domain.Ticket) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now
	r.put(t)
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) Update(_ context.Context, t *domain.Ticket) error {
	if _, ok := r.tickets[t.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.put(t)
	return nil
}

func (r *fakeTicketRepo) UpdateStatus(_ context.Context, t *domain.Ticket) error {
	stored, ok := r.tickets[t.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Status = t.Status
	stored.ClosedAt = t.ClosedAt
	return nil
}

func (r *fakeTicketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for _, t := range r.tickets {
		if filter.ClientID != nil && t.ClientID != *filter.ClientID {
			continue
		}
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.AssignedTo != nil && (t.AssignedTo == nil || *t.AssignedTo != *filter.AssignedTo) {
			continue
		}
		result = append(result, *t)
	}
	return result, nil
}

func (r *fakeTicketRepo) Assign(_ context.Context, id string, assignee *string, expected repository.AssignExpectation) (*domain.Ticket, error) {
	stored, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if r.forceStale {
		return nil, repository.ErrStaleAssignment
	}
	if stored.Status != expected.Status {
		return nil, repository.ErrStaleAssignment
	}
	if (stored.AssignedTo == nil) != (expected.AssignedTo == nil) {
		return nil, repository.ErrStaleAssignment
	}
	if stored.AssignedTo != nil && *stored.AssignedTo != *expected.AssignedTo {
		return nil, repository.ErrStaleAssignment
	}
	stored.AssignedTo = assignee
	copied := *stored
	return &copied, nil
}

func (r *fakeTicketRepo) CountByStatus(_ context.Context, clientID *string) (map[domain.TicketStatus]int, error) {
	result := make(map[domain.TicketStatus]int)
	for _, t := range r.tickets {
		if clientID != nil && t.ClientID != *clientID {
			continue
		}
		result[t.Status]++
	}
	return result, nil
}

func (r *fakeTicketRepo) CountLiveByAssignee(_ context.Context, clientID string) (map[string]int, error) {
	result := make(map[string]int)
	for _, t := range r.tickets {
		if t.ClientID != clientID || t.AssignedTo == nil {
			continue
		}
		if t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusInProgress {
			result[*t.AssignedTo]++
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) CountLiveByPriority(_ context.Context, clientID *string) (map[domain.TicketPriority]int, error) {
	result := make(map[domain.TicketPriority]int)
	for _, t := range r.tickets {
		if clientID != nil && t.ClientID != *clientID {
			continue
		}
		if t.Status == domain.TicketStatusOpen || t.Status == domain.TicketStatusInProgress {
			result[t.Priority]++
		}
	}
	return result, nil
}

func (r *fakeTicketRepo) CountExpired(_ context.Context, clientID *string, now time.Time) (int, error) {
	count := 0
	for _, t := range r.tickets {
		if clientID != nil && t.ClientID != *clientID {
			continue
		}
		switch t.Status {
		case domain.TicketStatusClosed, domain.TicketStatusArchived, domain.TicketStatusDiscarded:
			continue
		}
		if t.DueAt != nil && t.DueAt.Before(now) {
			count++
		}
	}
	return count, nil
}

type fakeEmployeeRepo struct {
	rows map[string]repository.AssigneeRow
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{rows: make(map[string]repository.AssigneeRow)}
}

func (r *fakeEmployeeRepo) addAssignee(employeeID, userID, clientID string, pool domain.StaffScope) {
	client := clientID
	r.rows[employeeID] = repository.AssigneeRow{
		EmployeeID:     employeeID,
		UserID:         userID,
		ClientID:       &client,
		EmploymentType: pool,
	}
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *domain.Employee) error {
	if e.ID == "" {
		e.ID = fmt.Sprintf("emp-%d", len(r.rows)+1)
	}
	client := ""
	r.rows[e.ID] = repository.AssigneeRow{
		EmployeeID:     e.ID,
		UserID:         e.UserID,
		ClientID:       &client,
		EmploymentType: e.EmploymentType,
		ManagerID:      e.ManagerID,
	}
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.Employee{ID: row.EmployeeID, UserID: row.UserID, EmploymentType: row.EmploymentType, ManagerID: row.ManagerID}, nil
}

func (r *fakeEmployeeRepo) GetByUserID(_ context.Context, userID string) (*domain.Employee, error) {
	for _, row := range r.rows {
		if row.UserID == userID {
			return &domain.Employee{ID: row.EmployeeID, UserID: row.UserID, EmploymentType: row.EmploymentType, ManagerID: row.ManagerID}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeEmployeeRepo) UpdateProfile(_ context.Context, e *domain.Employee) error {
	if _, ok := r.rows[e.ID]; !ok {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *fakeEmployeeRepo) List(_ context.Context, _ repository.EmployeeFilter) ([]repository.EmployeeWithUser, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) ResolveAssignee(_ context.Context, employeeID string) (*repository.AssigneeRow, error) {
	row, ok := r.rows[employeeID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := row
	return &copied, nil
}

func (r *fakeEmployeeRepo) StaffingCounts(_ context.Context) ([]repository.StaffingCount, error) {
	return nil, nil
}

type fakeCommentRepo struct {
	comments map[string]*domain.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[string]*domain.Comment)}
}

func (r *fakeCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	r.nextID++
	c.ID = fmt.Sprintf("comment-%d", r.nextID)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	copied := *c
	r.comments[c.ID] = &copied
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	stored, ok := r.comments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeCommentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Comment, error) {
	var result []domain.Comment
	for _, c := range r.comments {
		if c.TicketID == ticketID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (r *fakeCommentRepo) UpdateBody(_ context.Context, id, body string) error {
	stored, ok := r.comments[id]
	if !ok {
		return pgx.ErrNoRows
	}
	stored.Body = body
	return nil
}

type fakeClientRepo struct {
	clients map[string]*domain.Client
	nextID  int
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[string]*domain.Client)}
}

func (r *fakeClientRepo) Create(_ context.Context, c *domain.Client) error {
	r.nextID++
	c.ID = fmt.Sprintf("client-%d", r.nextID)
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	copied := *c
	r.clients[c.ID] = &copied
	return nil
}

func (r *fakeClientRepo) GetByID(_ context.Context, id string) (*domain.Client, error) {
	stored, ok := r.clients[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeClientRepo) List(_ context.Context) ([]domain.Client, error) {
	var result []domain.Client
	for _, c := range r.clients {
		result = append(result, *c)
	}
	return result, nil
}

func (r *fakeClientRepo) Count(_ context.Context) (int, error) {
	return len(r.clients), nil
}

type fakeAttachmentRepo struct {
	attachments map[string]*domain.Attachment
	nextID      int
	failCreate  bool
}

func newFakeAttachmentRepo() *fakeAttachmentRepo {
	return &fakeAttachmentRepo{attachments: make(map[string]*domain.Attachment)}
}

func (r *fakeAttachmentRepo) Create(_ context.Context, a *domain.Attachment) error {
	if r.failCreate {
		return fmt.Errorf("insert failed")
	}
	r.nextID++
	a.ID = fmt.Sprintf("attachment-%d", r.nextID)
	a.CreatedAt = time.Now()
	copied := *a
	r.attachments[a.ID] = &copied
	return nil
}

func (r *fakeAttachmentRepo) GetByID(_ context.Context, id string) (*domain.Attachment, error) {
	stored, ok := r.attachments[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *stored
	return &copied, nil
}

func (r *fakeAttachmentRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Attachment, error) {
	var result []domain.Attachment
	for _, a := range r.attachments {
		if a.TicketID == ticketID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *fakeAttachmentRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.attachments[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.attachments, id)
	return nil
}

type fakeFileStore struct {
	files  map[string][]byte
	nextID int
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{files: make(map[string][]byte)}
}

func (s *fakeFileStore) Save(name string, data []byte) (string, error) {
	s.nextID++
	path := fmt.Sprintf("store/%d-%s", s.nextID, name)
	copied := make([]byte, len(data))
	copy(copied, data)
	s.files[path] = copied
	return path, nil
}

func (s *fakeFileStore) Open(path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return data, nil
}

func (s *fakeFileStore) Remove(path string) error {
	if _, ok := s.files[path]; !ok {
		return os.ErrNotExist
	}
	delete(s.files, path)
	return nil
}
