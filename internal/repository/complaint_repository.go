package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
)

const complaintColumns = `id, complaint_id, submitted_by, assigned_agent, status, priority, category,
       name, address, city, state, pincode, comment, resolution_description,
       assigned_at, resolved_at, created_at, updated_at`

// ComplaintFilter captures listing parameters.
type ComplaintFilter struct {
	SubmittedBy   *string
	AssignedAgent *string
	Status        *domain.ComplaintStatus
	Limit         int
	Offset        int
}

// AgentCounts summarizes complaint totals for one agent.
type AgentCounts struct {
	Assigned   int64
	InProgress int64
	Resolved   int64
	Total      int64
}

// ComplaintRepository encapsulates complaint persistence. Status transitions
// are expressed as single conditional updates so concurrent requests cannot
// interleave a read-then-write.
type ComplaintRepository interface {
	NextSequence(ctx context.Context) (int64, error)
	Create(ctx context.Context, complaint *domain.Complaint) error
	GetByID(ctx context.Context, id string) (*domain.Complaint, error)
	List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error)
	Count(ctx context.Context, filter ComplaintFilter) (int64, error)
	Assign(ctx context.Context, id, agentID string) (bool, error)
	UpdateStatusAsAgent(ctx context.Context, id, agentID string, from []domain.ComplaintStatus, to domain.ComplaintStatus) (bool, error)
	Resolve(ctx context.Context, id, agentID, description string, from []domain.ComplaintStatus) (bool, error)
	Close(ctx context.Context, id string) (bool, error)
	CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int64, error)
	CountForAgent(ctx context.Context, agentID string) (AgentCounts, error)
	CountActiveForAgent(ctx context.Context, agentID string) (int64, error)
	ResolutionTimes(ctx context.Context, agentID string) ([]time.Duration, error)
	RecentForAgent(ctx context.Context, agentID string, since time.Time, limit int) ([]domain.Complaint, error)
}

type complaintRepository struct {
	pool *pgxpool.Pool
}

// NewComplaintRepository instantiates the repository.
func NewComplaintRepository(pool *pgxpool.Pool) ComplaintRepository {
	return &complaintRepository{pool: pool}
}

// NextSequence pulls the next complaint ordinal from a dedicated sequence,
// which stays collision-free under concurrent creation.
func (r *complaintRepository) NextSequence(ctx context.Context) (int64, error) {
	var ordinal int64
	if err := r.pool.QueryRow(ctx, `SELECT nextval('complaint_seq')`).Scan(&ordinal); err != nil {
		return 0, err
	}
	return ordinal, nil
}

func (r *complaintRepository) Create(ctx context.Context, complaint *domain.Complaint) error {
	const query = `
        INSERT INTO complaints (complaint_id, submitted_by, status, priority, category,
            name, address, city, state, pincode, comment)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		complaint.ComplaintID,
		complaint.SubmittedBy,
		complaint.Status,
		complaint.Priority,
		complaint.Category,
		complaint.Name,
		complaint.Address,
		complaint.City,
		complaint.State,
		complaint.Pincode,
		complaint.Comment,
	).Scan(&complaint.ID, &complaint.CreatedAt, &complaint.UpdatedAt)
}

func (r *complaintRepository) GetByID(ctx context.Context, id string) (*domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints WHERE id=$1`
	var complaint domain.Complaint
	if err := scanComplaint(r.pool.QueryRow(ctx, query, id), &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *complaintRepository) List(ctx context.Context, filter ComplaintFilter) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints`
	clauses, args := complaintClauses(filter)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComplaints(rows)
}

func (r *complaintRepository) Count(ctx context.Context, filter ComplaintFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM complaints`
	clauses, args := complaintClauses(filter)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// Assign moves a Pending complaint to Assigned in one guarded update.
// assigned_at is write-once: COALESCE keeps the first value forever.
func (r *complaintRepository) Assign(ctx context.Context, id, agentID string) (bool, error) {
	const query = `
        UPDATE complaints SET assigned_agent=$2, status=$3,
            assigned_at=COALESCE(assigned_at, NOW()), updated_at=NOW()
        WHERE id=$1 AND status=$4`
	cmd, err := r.pool.Exec(ctx, query, id, agentID, domain.StatusAssigned, domain.StatusPending)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// UpdateStatusAsAgent applies a status write guarded on the current assignee
// and the expected from-set. resolved_at is set once when the target is
// Resolved and left untouched otherwise.
func (r *complaintRepository) UpdateStatusAsAgent(ctx context.Context, id, agentID string, from []domain.ComplaintStatus, to domain.ComplaintStatus) (bool, error) {
	const query = `
        UPDATE complaints SET status=$3,
            resolved_at=CASE WHEN $3='Resolved' THEN COALESCE(resolved_at, NOW()) ELSE resolved_at END,
            updated_at=NOW()
        WHERE id=$1 AND assigned_agent=$2 AND status=ANY($4)`
	cmd, err := r.pool.Exec(ctx, query, id, agentID, to, statusStrings(from))
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// Resolve completes a complaint with a resolution description in one guarded
// update. The status guard makes a second resolve a no-op at this layer.
func (r *complaintRepository) Resolve(ctx context.Context, id, agentID, description string, from []domain.ComplaintStatus) (bool, error) {
	const query = `
        UPDATE complaints SET status=$3, resolution_description=$4,
            resolved_at=COALESCE(resolved_at, NOW()), updated_at=NOW()
        WHERE id=$1 AND assigned_agent=$2 AND status=ANY($5)`
	cmd, err := r.pool.Exec(ctx, query, id, agentID, domain.StatusResolved, description, statusStrings(from))
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// Close cancels a complaint, guarded on the Pending status.
func (r *complaintRepository) Close(ctx context.Context, id string) (bool, error) {
	const query = `
        UPDATE complaints SET status=$2, updated_at=NOW()
        WHERE id=$1 AND status=$3`
	cmd, err := r.pool.Exec(ctx, query, id, domain.StatusClosed, domain.StatusPending)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *complaintRepository) CountByStatus(ctx context.Context) (map[domain.ComplaintStatus]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM complaints GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.ComplaintStatus]int64)
	for rows.Next() {
		var status domain.ComplaintStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *complaintRepository) CountForAgent(ctx context.Context, agentID string) (AgentCounts, error) {
	const query = `
        SELECT
            COUNT(*) FILTER (WHERE status='Assigned'),
            COUNT(*) FILTER (WHERE status='In-Progress'),
            COUNT(*) FILTER (WHERE status='Resolved'),
            COUNT(*)
        FROM complaints WHERE assigned_agent=$1`
	var counts AgentCounts
	err := r.pool.QueryRow(ctx, query, agentID).Scan(
		&counts.Assigned,
		&counts.InProgress,
		&counts.Resolved,
		&counts.Total,
	)
	return counts, err
}

func (r *complaintRepository) CountActiveForAgent(ctx context.Context, agentID string) (int64, error) {
	const query = `
        SELECT COUNT(*) FROM complaints
        WHERE assigned_agent=$1 AND status IN ('Assigned', 'In-Progress')`
	var total int64
	err := r.pool.QueryRow(ctx, query, agentID).Scan(&total)
	return total, err
}

// ResolutionTimes returns resolvedAt-assignedAt for resolved complaints of an
// agent where both timestamps are present.
func (r *complaintRepository) ResolutionTimes(ctx context.Context, agentID string) ([]time.Duration, error) {
	const query = `
        SELECT EXTRACT(EPOCH FROM (resolved_at - assigned_at))
        FROM complaints
        WHERE assigned_agent=$1 AND status='Resolved'
          AND assigned_at IS NOT NULL AND resolved_at IS NOT NULL`
	rows, err := r.pool.Query(ctx, query, agentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []time.Duration
	for rows.Next() {
		var seconds float64
		if err := rows.Scan(&seconds); err != nil {
			return nil, err
		}
		result = append(result, time.Duration(seconds*float64(time.Second)))
	}
	return result, rows.Err()
}

func (r *complaintRepository) RecentForAgent(ctx context.Context, agentID string, since time.Time, limit int) ([]domain.Complaint, error) {
	query := `SELECT ` + complaintColumns + `
        FROM complaints
        WHERE assigned_agent=$1 AND updated_at >= $2
        ORDER BY updated_at DESC`
	if limit <= 0 {
		limit = 10
	}
	query += fmt.Sprintf(" LIMIT %d", limit)

	rows, err := r.pool.Query(ctx, query, agentID, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectComplaints(rows)
}

func complaintClauses(filter ComplaintFilter) ([]string, []any) {
	clauses := []string{}
	args := []any{}
	if filter.SubmittedBy != nil {
		args = append(args, *filter.SubmittedBy)
		clauses = append(clauses, fmt.Sprintf("submitted_by=$%d", len(args)))
	}
	if filter.AssignedAgent != nil {
		args = append(args, *filter.AssignedAgent)
		clauses = append(clauses, fmt.Sprintf("assigned_agent=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	return clauses, args
}

func statusStrings(statuses []domain.ComplaintStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func scanComplaint(row pgx.Row, complaint *domain.Complaint) error {
	return row.Scan(
		&complaint.ID,
		&complaint.ComplaintID,
		&complaint.SubmittedBy,
		&complaint.AssignedAgent,
		&complaint.Status,
		&complaint.Priority,
		&complaint.Category,
		&complaint.Name,
		&complaint.Address,
		&complaint.City,
		&complaint.State,
		&complaint.Pincode,
		&complaint.Comment,
		&complaint.ResolutionDescription,
		&complaint.AssignedAt,
		&complaint.ResolvedAt,
		&complaint.CreatedAt,
		&complaint.UpdatedAt,
	)
}

func collectComplaints(rows pgx.Rows) ([]domain.Complaint, error) {
	var result []domain.Complaint
	for rows.Next() {
		var complaint domain.Complaint
		if err := scanComplaint(rows, &complaint); err != nil {
			return nil, err
		}
		result = append(result, complaint)
	}
	return result, rows.Err()
}
