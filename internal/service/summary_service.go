package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/deskhub/helpdesk/internal/domain"
	"github.com/deskhub/helpdesk/internal/lifecycle"
	"github.com/deskhub/helpdesk/internal/policy"
	"github.com/deskhub/helpdesk/internal/presence"
	"github.com/deskhub/helpdesk/internal/repository"
	apperrors "github.com/deskhub/helpdesk/pkg/util"
)

// SummaryService builds the tenant dashboard from live aggregates.
// Nothing here is persisted; the expired count is derived at read time.
type SummaryService struct {
	tickets   repository.TicketRepository
	employees repository.EmployeeRepository
	presence  *presence.Tracker
	logger    *zap.Logger
}

// NewSummaryService creates the service.
func NewSummaryService(
	tickets repository.TicketRepository,
	employees repository.EmployeeRepository,
	tracker *presence.Tracker,
	logger *zap.Logger,
) *SummaryService {
	return &SummaryService{
		tickets:   tickets,
		employees: employees,
		presence:  tracker,
		logger:    logger,
	}
}

// ClientSummary aggregates the caller's tenant: status counts, live
// SLA buckets and staff presence.
func (s *SummaryService) ClientSummary(ctx context.Context, p policy.Principal) (*lifecycle.ClientSummary, error) {
	if d := policy.Evaluate(p, policy.ActionViewSummary, policy.Resource{
		Kind: policy.ResourceClient, ClientID: p.ClientID,
	}); !d.Allowed {
		return nil, policyError(d, "summary")
	}

	clientID := p.ClientID
	now := time.Now()

	statusCounts, err := s.tickets.CountByStatus(ctx, &clientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	expired, err := s.tickets.CountExpired(ctx, &clientID, now)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	priorityCounts, err := s.tickets.CountLiveByPriority(ctx, &clientID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	summary := &lifecycle.ClientSummary{}
	summary.Statuses = lifecycle.StatusCounts{
		Open:       statusCounts[domain.TicketStatusOpen],
		InProgress: statusCounts[domain.TicketStatusInProgress],
		Resolved:   statusCounts[domain.TicketStatusResolved],
		Closed:     statusCounts[domain.TicketStatusClosed],
		Archived:   statusCounts[domain.TicketStatusArchived],
		Discarded:  statusCounts[domain.TicketStatusDiscarded],
		Expired:    expired,
	}
	for _, count := range statusCounts {
		summary.Statuses.Total += count
	}
	for priority, count := range priorityCounts {
		summary.SLA.Add(priority, count)
	}

	staff, err := s.employees.List(ctx, repository.EmployeeFilter{ClientID: &clientID})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	userIDs := make([]string, 0, len(staff))
	for _, row := range staff {
		userIDs = append(userIDs, row.UserID)
	}
	online := s.presence.OnlineSet(ctx, userIDs, now)

	summary.TotalEmployees = len(staff)
	for _, row := range staff {
		if online[row.UserID] {
			summary.OnlineEmployees++
		}
	}
	summary.OfflineEmployees = summary.TotalEmployees - summary.OnlineEmployees

	return summary, nil
}
