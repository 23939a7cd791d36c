package service

import (
	"context"
	"math"
	"time"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
	"github.com/EswarAdeshCh/Service-Desk/internal/repository"
	apperrors "github.com/EswarAdeshCh/Service-Desk/pkg/util"
)

// ReportService aggregates dashboard and performance figures.
type ReportService struct {
	complaints repository.ComplaintRepository
	users      repository.UserRepository
	messages   repository.MessageRepository
}

// ReportDependencies bundles repositories for reporting.
type ReportDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	MessageRepo   repository.MessageRepository
}

// AdminDashboard summarizes the whole system for administrators.
type AdminDashboard struct {
	TotalComplaints int64 `json:"totalComplaints"`
	Pending         int64 `json:"pending"`
	Assigned        int64 `json:"assigned"`
	InProgress      int64 `json:"inProgress"`
	Resolved        int64 `json:"resolved"`
	Closed          int64 `json:"closed"`
	TotalUsers      int64 `json:"totalUsers"`
	ActiveUsers     int64 `json:"activeUsers"`
	TotalAgents     int64 `json:"totalAgents"`
	ActiveAgents    int64 `json:"activeAgents"`
}

// AgentDashboard summarizes one agent's queue plus their unread messages.
type AgentDashboard struct {
	Assigned        int64 `json:"assigned"`
	InProgress      int64 `json:"inProgress"`
	Resolved        int64 `json:"resolved"`
	Total           int64 `json:"total"`
	PendingMessages int64 `json:"pendingMessages"`
}

// AgentPerformance reports resolution effectiveness for one agent.
type AgentPerformance struct {
	TotalAssigned      int64              `json:"totalAssigned"`
	Resolved           int64              `json:"resolved"`
	ResolutionRate     float64            `json:"resolutionRate"`
	AvgResolutionHours int64              `json:"avgResolutionHours"`
	RecentComplaints   []domain.Complaint `json:"recentComplaints"`
}

const (
	recentActivityWindow = 30 * 24 * time.Hour
	recentActivityLimit  = 10
)

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		complaints: deps.ComplaintRepo,
		users:      deps.UserRepo,
		messages:   deps.MessageRepo,
	}
}

// AdminStats builds the administrator dashboard.
func (s *ReportService) AdminStats(ctx context.Context) (*AdminDashboard, error) {
	counts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	totalUsers, err := s.users.Count(ctx, repository.UserFilter{})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	active := true
	activeUsers, err := s.users.Count(ctx, repository.UserFilter{Active: &active})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	agentRole := domain.RoleAgent
	totalAgents, err := s.users.Count(ctx, repository.UserFilter{Role: &agentRole})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	activeAgents, err := s.users.Count(ctx, repository.UserFilter{Role: &agentRole, Active: &active})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	dash := &AdminDashboard{
		Pending:      counts[domain.StatusPending],
		Assigned:     counts[domain.StatusAssigned],
		InProgress:   counts[domain.StatusInProgress],
		Resolved:     counts[domain.StatusResolved],
		Closed:       counts[domain.StatusClosed],
		TotalUsers:   totalUsers,
		ActiveUsers:  activeUsers,
		TotalAgents:  totalAgents,
		ActiveAgents: activeAgents,
	}
	for _, count := range counts {
		dash.TotalComplaints += count
	}
	return dash, nil
}

// AgentStats builds the per-agent dashboard.
func (s *ReportService) AgentStats(ctx context.Context, agentID string) (*AgentDashboard, error) {
	counts, err := s.complaints.CountForAgent(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	pending, err := s.messages.UnreadCount(ctx, agentID, domain.RoleAgent)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &AgentDashboard{
		Assigned:        counts.Assigned,
		InProgress:      counts.InProgress,
		Resolved:        counts.Resolved,
		Total:           counts.Total,
		PendingMessages: pending,
	}, nil
}

// AgentPerformance computes the resolution rate, average turnaround and the
// last month's activity for one agent.
func (s *ReportService) AgentPerformance(ctx context.Context, agentID string) (*AgentPerformance, error) {
	counts, err := s.complaints.CountForAgent(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	times, err := s.complaints.ResolutionTimes(ctx, agentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	recent, err := s.complaints.RecentForAgent(ctx, agentID,
		time.Now().Add(-recentActivityWindow), recentActivityLimit)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if recent == nil {
		recent = []domain.Complaint{}
	}

	return &AgentPerformance{
		TotalAssigned:      counts.Total,
		Resolved:           counts.Resolved,
		ResolutionRate:     resolutionRate(counts.Resolved, counts.Total),
		AvgResolutionHours: averageResolutionHours(times),
		RecentComplaints:   recent,
	}, nil
}

// resolutionRate returns resolved/total as a percentage rounded to two
// decimal places. Zero assignments yield a zero rate.
func resolutionRate(resolved, total int64) float64 {
	if total == 0 {
		return 0
	}
	rate := float64(resolved) / float64(total) * 100
	return math.Round(rate*100) / 100
}

// averageResolutionHours reports the mean turnaround rounded to the nearest
// whole hour.
func averageResolutionHours(times []time.Duration) int64 {
	if len(times) == 0 {
		return 0
	}
	var sum time.Duration
	for _, t := range times {
		sum += t
	}
	avg := sum / time.Duration(len(times))
	return int64(math.Round(avg.Hours()))
}
