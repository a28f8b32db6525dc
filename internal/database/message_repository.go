package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/NamashivayamS/Support-Sphere/internal/models"
	"github.com/NamashivayamS/Support-Sphere/internal/types"
)

// MessageRepo stores project chat. Messages are append-only.
type MessageRepo struct {
	db *sql.DB
}

func (r *MessageRepo) CreateChatMessage(ctx context.Context, m *models.ChatMessage) (*models.ChatMessage, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_messages (project_id, sender_id, body) VALUES (?, ?, ?)`,
		m.ProjectID, m.SenderID, m.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	msgs, err := r.query(ctx, `WHERE c.id = ?`, id)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("chat message: %w", ErrNotFound)
	}
	return msgs[0], nil
}

// ListChatMessages returns messages with an ID greater than sinceID in
// posting order. Pass 0 for the full history.
func (r *MessageRepo) ListChatMessages(ctx context.Context, projectID types.ProjectID, sinceID types.MessageID) ([]*models.ChatMessage, error) {
	return r.query(ctx, `WHERE c.project_id = ? AND c.id > ? ORDER BY c.id`, projectID, sinceID)
}

func (r *MessageRepo) query(ctx context.Context, where string, args ...any) ([]*models.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.id, c.project_id, c.sender_id, u.name, c.body, c.created_at
		 FROM chat_messages c JOIN users u ON u.id = c.sender_id `+where, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat messages: %w", err)
	}
	defer rows.Close()

	var msgs []*models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.SenderID, &m.Sender, &m.Body, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}
