// Package message reads and appends the per-conversation transcript.
package message

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	dbpkg "github.com/mygoodmovers/movebot/internal/db"
)

// Message is one transcript entry.
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Body           string    `json:"body"`
	CreatedAt      time.Time `json:"created_at"`
}

// Service reads and writes transcript entries.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates a message service.
func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:   pool,
		logger: log.With(slog.String("service", "message")),
	}
}

// Append stores one transcript entry.
func (s *Service) Append(ctx context.Context, conversationID, sender, body string) error {
	pgID, err := dbpkg.ParseUUID(conversationID)
	if err != nil {
		return fmt.Errorf("invalid conversation id: %w", err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO messages (conversation_id, sender, body) VALUES ($1, $2, $3)`,
		pgID, sender, body,
	); err != nil {
		return fmt.Errorf("append message: %w", err)
	}
	return nil
}

// History returns the transcript in chronological order.
func (s *Service) History(ctx context.Context, conversationID string) ([]Message, error) {
	pgID, err := dbpkg.ParseUUID(conversationID)
	if err != nil {
		return nil, fmt.Errorf("invalid conversation id: %w", err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, sender, body, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at`,
		pgID,
	)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var history []Message
	for rows.Next() {
		var (
			id        pgtype.UUID
			msg       Message
			createdAt pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &msg.Sender, &msg.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msg.ID = dbpkg.UUIDToString(id)
		msg.ConversationID = conversationID
		msg.CreatedAt = dbpkg.TimeFromPg(createdAt)
		history = append(history, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return history, nil
}

// RenderTranscript formats a transcript for the free-form prompt, one
// "Sender: body" line per entry.
func RenderTranscript(history []Message) string {
	lines := make([]string, 0, len(history))
	for _, msg := range history {
		lines = append(lines, capitalize(msg.Sender)+": "+msg.Body)
	}
	return strings.Join(lines, "\n")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
