package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
	"github.com/EswarAdeshCh/Service-Desk/internal/repository"
)

// In-memory repository fakes mirroring the guarded-update semantics of the
// Postgres implementations.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.ID = uuid.NewString()
	user.Email = strings.ToLower(user.Email)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	clone := *user
	clone.Email = strings.ToLower(clone.Email)
	clone.Workload = stored.Workload
	clone.UpdatedAt = time.Now()
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(email)
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeUserRepo) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.User
	for _, user := range r.users {
		if r.matches(user, filter) {
			result = append(result, *user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *fakeUserRepo) Count(_ context.Context, filter repository.UserFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, user := range r.users {
		if r.matches(user, filter) {
			total++
		}
	}
	return total, nil
}

func (r *fakeUserRepo) matches(user *domain.User, filter repository.UserFilter) bool {
	if filter.Role != nil && user.Role != *filter.Role {
		return false
	}
	if filter.Active != nil && user.IsActive != *filter.Active {
		return false
	}
	return true
}

func (r *fakeUserRepo) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.IsActive = active
	return nil
}

func (r *fakeUserRepo) TouchLastLogin(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		now := time.Now()
		user.LastLogin = &now
	}
	return nil
}

func (r *fakeUserRepo) AdjustWorkload(_ context.Context, id string, deltaActive, deltaTotal, deltaResolved int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.Workload.Active = clampZero(user.Workload.Active + deltaActive)
	user.Workload.Total = clampZero(user.Workload.Total + deltaTotal)
	user.Workload.Resolved = clampZero(user.Workload.Resolved + deltaResolved)
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) ListAgentsWithWorkload(ctx context.Context) ([]domain.User, error) {
	role := domain.RoleAgent
	return r.List(ctx, repository.UserFilter{Role: &role})
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

type fakeComplaintRepo struct {
	mu         sync.Mutex
	seq        int64
	complaints map[string]*domain.Complaint
	order      []string
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: make(map[string]*domain.Complaint)}
}

func (r *fakeComplaintRepo) NextSequence(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	return r.seq, nil
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint.ID = uuid.NewString()
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = complaint.CreatedAt
	clone := *complaint
	r.complaints[complaint.ID] = &clone
	r.order = append(r.order, complaint.ID)
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *complaint
	return &clone, nil
}

func (r *fakeComplaintRepo) List(_ context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for i := len(r.order) - 1; i >= 0; i-- {
		complaint := r.complaints[r.order[i]]
		if r.matches(complaint, filter) {
			result = append(result, *complaint)
		}
	}
	offset := filter.Offset
	if offset > len(result) {
		offset = len(result)
	}
	result = result[offset:]
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *fakeComplaintRepo) Count(_ context.Context, filter repository.ComplaintFilter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, complaint := range r.complaints {
		if r.matches(complaint, filter) {
			total++
		}
	}
	return total, nil
}

func (r *fakeComplaintRepo) matches(c *domain.Complaint, filter repository.ComplaintFilter) bool {
	if filter.SubmittedBy != nil && c.SubmittedBy != *filter.SubmittedBy {
		return false
	}
	if filter.AssignedAgent != nil && (c.AssignedAgent == nil || *c.AssignedAgent != *filter.AssignedAgent) {
		return false
	}
	if filter.Status != nil && c.Status != *filter.Status {
		return false
	}
	return true
}

func (r *fakeComplaintRepo) Assign(_ context.Context, id, agentID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok || complaint.Status != domain.StatusPending {
		return false, nil
	}
	complaint.AssignedAgent = &agentID
	complaint.Status = domain.StatusAssigned
	if complaint.AssignedAt == nil {
		now := time.Now()
		complaint.AssignedAt = &now
	}
	complaint.UpdatedAt = time.Now()
	return true, nil
}

func statusIn(status domain.ComplaintStatus, set []domain.ComplaintStatus) bool {
	for _, candidate := range set {
		if status == candidate {
			return true
		}
	}
	return false
}

func (r *fakeComplaintRepo) UpdateStatusAsAgent(_ context.Context, id, agentID string, from []domain.ComplaintStatus, to domain.ComplaintStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok || complaint.AssignedAgent == nil || *complaint.AssignedAgent != agentID {
		return false, nil
	}
	if !statusIn(complaint.Status, from) {
		return false, nil
	}
	complaint.Status = to
	if to == domain.StatusResolved && complaint.ResolvedAt == nil {
		now := time.Now()
		complaint.ResolvedAt = &now
	}
	complaint.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeComplaintRepo) Resolve(_ context.Context, id, agentID, description string, from []domain.ComplaintStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok || complaint.AssignedAgent == nil || *complaint.AssignedAgent != agentID {
		return false, nil
	}
	if !statusIn(complaint.Status, from) {
		return false, nil
	}
	complaint.Status = domain.StatusResolved
	complaint.ResolutionDescription = &description
	if complaint.ResolvedAt == nil {
		now := time.Now()
		complaint.ResolvedAt = &now
	}
	complaint.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeComplaintRepo) Close(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	complaint, ok := r.complaints[id]
	if !ok || complaint.Status != domain.StatusPending {
		return false, nil
	}
	complaint.Status = domain.StatusClosed
	complaint.UpdatedAt = time.Now()
	return true, nil
}

func (r *fakeComplaintRepo) CountByStatus(_ context.Context) (map[domain.ComplaintStatus]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.ComplaintStatus]int64)
	for _, complaint := range r.complaints {
		counts[complaint.Status]++
	}
	return counts, nil
}

func (r *fakeComplaintRepo) CountForAgent(_ context.Context, agentID string) (repository.AgentCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts repository.AgentCounts
	for _, complaint := range r.complaints {
		if complaint.AssignedAgent == nil || *complaint.AssignedAgent != agentID {
			continue
		}
		counts.Total++
		switch complaint.Status {
		case domain.StatusAssigned:
			counts.Assigned++
		case domain.StatusInProgress:
			counts.InProgress++
		case domain.StatusResolved:
			counts.Resolved++
		}
	}
	return counts, nil
}

func (r *fakeComplaintRepo) CountActiveForAgent(_ context.Context, agentID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for _, complaint := range r.complaints {
		if complaint.AssignedAgent != nil && *complaint.AssignedAgent == agentID &&
			(complaint.Status == domain.StatusAssigned || complaint.Status == domain.StatusInProgress) {
			total++
		}
	}
	return total, nil
}

func (r *fakeComplaintRepo) ResolutionTimes(_ context.Context, agentID string) ([]time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var times []time.Duration
	for _, complaint := range r.complaints {
		if complaint.AssignedAgent == nil || *complaint.AssignedAgent != agentID {
			continue
		}
		if complaint.Status == domain.StatusResolved && complaint.AssignedAt != nil && complaint.ResolvedAt != nil {
			times = append(times, complaint.ResolvedAt.Sub(*complaint.AssignedAt))
		}
	}
	return times, nil
}

func (r *fakeComplaintRepo) RecentForAgent(_ context.Context, agentID string, since time.Time, limit int) ([]domain.Complaint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Complaint
	for i := len(r.order) - 1; i >= 0; i-- {
		complaint := r.complaints[r.order[i]]
		if complaint.AssignedAgent != nil && *complaint.AssignedAgent == agentID && complaint.UpdatedAt.After(since) {
			result = append(result, *complaint)
		}
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	messages map[string]*domain.Message
	order    []string
	reads    map[string]map[string]time.Time
	// visible scopes unread counting to the caller's complaints, mirroring
	// the SQL join in the real repository.
	visible func(userID string, role domain.Role, complaintID string) bool
}

func newFakeMessageRepo(complaints *fakeComplaintRepo) *fakeMessageRepo {
	repo := &fakeMessageRepo{
		messages: make(map[string]*domain.Message),
		reads:    make(map[string]map[string]time.Time),
	}
	repo.visible = func(userID string, role domain.Role, complaintID string) bool {
		complaint, err := complaints.GetByID(context.Background(), complaintID)
		if err != nil {
			return false
		}
		switch role {
		case domain.RoleAdmin:
			return true
		case domain.RoleAgent:
			return complaint.AssignedAgent != nil && *complaint.AssignedAgent == userID
		default:
			return complaint.SubmittedBy == userID
		}
	}
	return repo
}

func (r *fakeMessageRepo) Create(_ context.Context, message *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.ID = uuid.NewString()
	message.CreatedAt = time.Now()
	clone := *message
	r.messages[message.ID] = &clone
	r.order = append(r.order, message.ID)
	return nil
}

func (r *fakeMessageRepo) GetByID(_ context.Context, id string) (*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *message
	clone.ReadBy = r.receipts(id)
	return &clone, nil
}

func (r *fakeMessageRepo) ListByComplaint(_ context.Context, complaintID string) ([]domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Message
	for _, id := range r.order {
		message := r.messages[id]
		if message.ComplaintID != complaintID || message.IsDeleted {
			continue
		}
		clone := *message
		clone.ReadBy = r.receipts(id)
		result = append(result, clone)
	}
	return result, nil
}

func (r *fakeMessageRepo) MarkRead(_ context.Context, messageID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.messages[messageID]; !ok {
		return pgx.ErrNoRows
	}
	r.markLocked(messageID, userID)
	return nil
}

func (r *fakeMessageRepo) MarkThreadRead(_ context.Context, complaintID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		message := r.messages[id]
		if message.ComplaintID != complaintID || message.IsDeleted || message.SenderID == userID {
			continue
		}
		r.markLocked(id, userID)
	}
	return nil
}

func (r *fakeMessageRepo) UnreadCount(_ context.Context, userID string, role domain.Role) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total int64
	for id, message := range r.messages {
		if message.IsDeleted || message.SenderID == userID {
			continue
		}
		if !r.visible(userID, role, message.ComplaintID) {
			continue
		}
		if _, read := r.reads[id][userID]; !read {
			total++
		}
	}
	return total, nil
}

var _ repository.MessageRepository = (*fakeMessageRepo)(nil)
var _ repository.UserRepository = (*fakeUserRepo)(nil)
var _ repository.ComplaintRepository = (*fakeComplaintRepo)(nil)

func (r *fakeMessageRepo) receipts(messageID string) []domain.ReadReceipt {
	var receipts []domain.ReadReceipt
	for userID, at := range r.reads[messageID] {
		receipts = append(receipts, domain.ReadReceipt{UserID: userID, ReadAt: at})
	}
	return receipts
}

func (r *fakeMessageRepo) markLocked(messageID, userID string) {
	if r.reads[messageID] == nil {
		r.reads[messageID] = make(map[string]time.Time)
	}
	if _, ok := r.reads[messageID][userID]; !ok {
		r.reads[messageID][userID] = time.Now()
	}
}
