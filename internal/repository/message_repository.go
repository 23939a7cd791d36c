package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EswarAdeshCh/Service-Desk/internal/domain"
)

// MessageRepository encapsulates thread message persistence. Read receipts
// live in a separate table keyed on (message_id, user_id) so marking a
// message read twice is idempotent.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	ListByComplaint(ctx context.Context, complaintID string) ([]domain.Message, error)
	MarkRead(ctx context.Context, messageID, userID string) error
	MarkThreadRead(ctx context.Context, complaintID, userID string) error
	UnreadCount(ctx context.Context, userID string, role domain.Role) (int64, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates the repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (complaint_id, sender_id, sender_name, sender_role, body, message_type)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		message.ComplaintID,
		message.SenderID,
		message.SenderName,
		message.SenderRole,
		message.Body,
		message.MessageType,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	const query = `
        SELECT id, complaint_id, sender_id, sender_name, sender_role, body, message_type, is_deleted, created_at
        FROM messages WHERE id=$1`
	var message domain.Message
	if err := scanMessage(r.pool.QueryRow(ctx, query, id), &message); err != nil {
		return nil, err
	}
	receipts, err := r.receiptsFor(ctx, []string{message.ID})
	if err != nil {
		return nil, err
	}
	message.ReadBy = receipts[message.ID]
	return &message, nil
}

// ListByComplaint returns the visible thread in chronological order with
// read receipts attached.
func (r *messageRepository) ListByComplaint(ctx context.Context, complaintID string) ([]domain.Message, error) {
	const query = `
        SELECT id, complaint_id, sender_id, sender_name, sender_role, body, message_type, is_deleted, created_at
        FROM messages
        WHERE complaint_id=$1 AND is_deleted=false
        ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, complaintID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	ids := []string{}
	for rows.Next() {
		var message domain.Message
		if err := scanMessage(rows, &message); err != nil {
			return nil, err
		}
		messages = append(messages, message)
		ids = append(ids, message.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	receipts, err := r.receiptsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		messages[i].ReadBy = receipts[messages[i].ID]
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, messageID, userID string) error {
	const query = `
        INSERT INTO message_reads (message_id, user_id)
        VALUES ($1,$2)
        ON CONFLICT (message_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, messageID, userID)
	return err
}

// MarkThreadRead records receipts for every message on the thread the user
// did not send, skipping already-read rows.
func (r *messageRepository) MarkThreadRead(ctx context.Context, complaintID, userID string) error {
	const query = `
        INSERT INTO message_reads (message_id, user_id)
        SELECT m.id, $2 FROM messages m
        WHERE m.complaint_id=$1 AND m.sender_id <> $2 AND m.is_deleted=false
        ON CONFLICT (message_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, complaintID, userID)
	return err
}

// UnreadCount counts messages the user has not read on complaints they can
// see. Admins see every thread, agents their assignments, ordinary users
// their own submissions.
func (r *messageRepository) UnreadCount(ctx context.Context, userID string, role domain.Role) (int64, error) {
	query := `
        SELECT COUNT(*) FROM messages m
        JOIN complaints c ON c.id = m.complaint_id
        WHERE m.is_deleted=false AND m.sender_id <> $1
          AND NOT EXISTS (
              SELECT 1 FROM message_reads r WHERE r.message_id = m.id AND r.user_id = $1
          )`
	switch role {
	case domain.RoleAgent:
		query += ` AND c.assigned_agent = $1`
	case domain.RoleOrdinary:
		query += ` AND c.submitted_by = $1`
	}

	var total int64
	err := r.pool.QueryRow(ctx, query, userID).Scan(&total)
	return total, err
}

func (r *messageRepository) receiptsFor(ctx context.Context, messageIDs []string) (map[string][]domain.ReadReceipt, error) {
	receipts := make(map[string][]domain.ReadReceipt, len(messageIDs))
	if len(messageIDs) == 0 {
		return receipts, nil
	}
	const query = `
        SELECT message_id, user_id, read_at FROM message_reads
        WHERE message_id = ANY($1)
        ORDER BY read_at ASC`
	rows, err := r.pool.Query(ctx, query, messageIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var messageID string
		var receipt domain.ReadReceipt
		if err := rows.Scan(&messageID, &receipt.UserID, &receipt.ReadAt); err != nil {
			return nil, err
		}
		receipts[messageID] = append(receipts[messageID], receipt)
	}
	return receipts, rows.Err()
}

func scanMessage(row pgx.Row, message *domain.Message) error {
	return row.Scan(
		&message.ID,
		&message.ComplaintID,
		&message.SenderID,
		&message.SenderName,
		&message.SenderRole,
		&message.Body,
		&message.MessageType,
		&message.IsDeleted,
		&message.CreatedAt,
	)
}
