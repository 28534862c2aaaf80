// Package conversation persists chat sessions and their move details, and
// applies each turn's outcome atomically with its transcript entries.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	dbpkg "github.com/mygoodmovers/movebot/internal/db"
	"github.com/mygoodmovers/movebot/internal/dialogue"
	"github.com/mygoodmovers/movebot/internal/slots"
)

var (
	ErrNotFound = errors.New("conversation not found")
	ErrEnded    = errors.New("conversation has been ended")
)

const (
	SenderUser      = "user"
	SenderAssistant = "assistant"
)

// Service manages conversation lifecycle and per-turn persistence.
type Service struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewService creates a conversation service.
func NewService(log *slog.Logger, pool *pgxpool.Pool) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:   pool,
		logger: log.With(slog.String("service", "conversation")),
	}
}

// Create opens a new conversation in the start state and stores the welcome
// message in the same transaction.
func (s *Service) Create(ctx context.Context) (Conversation, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Conversation{}, fmt.Errorf("begin create conversation: %w", err)
	}
	defer tx.Rollback(ctx)

	var (
		pgID      pgtype.UUID
		state     string
		createdAt pgtype.Timestamptz
	)
	err = tx.QueryRow(ctx,
		`INSERT INTO conversations DEFAULT VALUES RETURNING id, state, created_at`,
	).Scan(&pgID, &state, &createdAt)
	if err != nil {
		return Conversation{}, fmt.Errorf("create conversation: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO messages (conversation_id, sender, body) VALUES ($1, $2, $3)`,
		pgID, SenderAssistant, dialogue.WelcomeReply,
	); err != nil {
		return Conversation{}, fmt.Errorf("store welcome message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Conversation{}, fmt.Errorf("commit create conversation: %w", err)
	}

	conv := Conversation{
		ID:        dbpkg.UUIDToString(pgID),
		State:     dialogue.State(state),
		Active:    true,
		CreatedAt: dbpkg.TimeFromPg(createdAt),
		UpdatedAt: dbpkg.TimeFromPg(createdAt),
	}
	s.logger.Info("conversation started", slog.String("conversation_id", conv.ID))
	return conv, nil
}

// Get loads a conversation with its move slots.
func (s *Service) Get(ctx context.Context, conversationID string) (Conversation, error) {
	pgID, err := dbpkg.ParseUUID(conversationID)
	if err != nil {
		return Conversation{}, ErrNotFound
	}

	var (
		state                pgtype.Text
		active, confirmed    bool
		name, phone, email   pgtype.Text
		moveDate             pgtype.Text
		costMin, costMax     pgtype.Float8
		createdAt, updatedAt pgtype.Timestamptz
		origin, destination  pgtype.Text
		moveSize, services   pgtype.Text
	)
	err = s.pool.QueryRow(ctx, `
		SELECT c.state, c.active, c.confirmed,
		       c.contact_name, c.contact_phone, c.contact_email,
		       c.move_date, c.estimated_cost_min, c.estimated_cost_max,
		       c.created_at, c.updated_at,
		       m.origin, m.destination, m.move_size, m.additional_services
		FROM conversations c
		LEFT JOIN move_slots m ON m.conversation_id = c.id
		WHERE c.id = $1`,
		pgID,
	).Scan(&state, &active, &confirmed, &name, &phone, &email,
		&moveDate, &costMin, &costMax, &createdAt, &updatedAt,
		&origin, &destination, &moveSize, &services)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Conversation{}, ErrNotFound
		}
		return Conversation{}, fmt.Errorf("load conversation: %w", err)
	}

	return Conversation{
		ID:        conversationID,
		State:     dialogue.State(dbpkg.TextToString(state)),
		Active:    active,
		Confirmed: confirmed,
		Slots: slots.MoveSlots{
			Origin:       dbpkg.TextToString(origin),
			Destination:  dbpkg.TextToString(destination),
			MoveSize:     dbpkg.TextToString(moveSize),
			MoveDate:     dbpkg.TextToString(moveDate),
			Services:     splitServices(dbpkg.TextToString(services)),
			ContactName:  dbpkg.TextToString(name),
			ContactPhone: dbpkg.TextToString(phone),
			ContactEmail: dbpkg.TextToString(email),
			CostMin:      dbpkg.Float8ToPtr(costMin),
			CostMax:      dbpkg.Float8ToPtr(costMax),
		},
		CreatedAt: dbpkg.TimeFromPg(createdAt),
		UpdatedAt: dbpkg.TimeFromPg(updatedAt),
	}, nil
}

// SaveOutcome persists one turn: the user message, the engine's reply, the
// new state, and the merged slots, all in a single transaction. The caller
// never observes a reply whose state was not also persisted.
func (s *Service) SaveOutcome(ctx context.Context, conversationID, userText string, out dialogue.Outcome) error {
	pgID, err := dbpkg.ParseUUID(conversationID)
	if err != nil {
		return ErrNotFound
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save outcome: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO messages (conversation_id, sender, body) VALUES ($1, $2, $3)`,
		pgID, SenderUser, userText,
	); err != nil {
		return fmt.Errorf("store user message: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO messages (conversation_id, sender, body) VALUES ($1, $2, $3)`,
		pgID, SenderAssistant, out.Reply,
	); err != nil {
		return fmt.Errorf("store assistant message: %w", err)
	}

	// A confirmed booking also deactivates the conversation.
	tag, err := tx.Exec(ctx, `
		UPDATE conversations
		SET state = $2,
		    confirmed = confirmed OR $3,
		    active = active AND NOT $3,
		    contact_name = $4,
		    contact_phone = $5,
		    contact_email = $6,
		    move_date = $7,
		    estimated_cost_min = $8,
		    estimated_cost_max = $9,
		    updated_at = now()
		WHERE id = $1`,
		pgID, string(out.State), out.Confirmed,
		dbpkg.ToPgText(out.Slots.ContactName),
		dbpkg.ToPgText(out.Slots.ContactPhone),
		dbpkg.ToPgText(out.Slots.ContactEmail),
		dbpkg.ToPgText(out.Slots.MoveDate),
		dbpkg.ToPgFloat8(out.Slots.CostMin),
		dbpkg.ToPgFloat8(out.Slots.CostMax),
	)
	if err != nil {
		return fmt.Errorf("update conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO move_slots (conversation_id, origin, destination, move_size, additional_services)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (conversation_id) DO UPDATE
		SET origin = EXCLUDED.origin,
		    destination = EXCLUDED.destination,
		    move_size = EXCLUDED.move_size,
		    additional_services = EXCLUDED.additional_services`,
		pgID,
		dbpkg.ToPgText(out.Slots.Origin),
		dbpkg.ToPgText(out.Slots.Destination),
		dbpkg.ToPgText(out.Slots.MoveSize),
		dbpkg.ToPgText(joinServices(out.Slots.Services)),
	); err != nil {
		return fmt.Errorf("upsert move slots: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit save outcome: %w", err)
	}
	return nil
}

// End stores the farewell message and deactivates the conversation.
func (s *Service) End(ctx context.Context, conversationID string) (string, error) {
	pgID, err := dbpkg.ParseUUID(conversationID)
	if err != nil {
		return "", ErrNotFound
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin end conversation: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE conversations SET active = FALSE, updated_at = now() WHERE id = $1`,
		pgID,
	)
	if err != nil {
		return "", fmt.Errorf("deactivate conversation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return "", ErrNotFound
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO messages (conversation_id, sender, body) VALUES ($1, $2, $3)`,
		pgID, SenderAssistant, dialogue.FarewellReply,
	); err != nil {
		return "", fmt.Errorf("store farewell message: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit end conversation: %w", err)
	}

	s.logger.Info("conversation ended", slog.String("conversation_id", conversationID))
	return dialogue.FarewellReply, nil
}

// DeactivateIdle closes conversations with no activity since the cutoff and
// returns how many were closed.
func (s *Service) DeactivateIdle(ctx context.Context, idleFor time.Duration) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`UPDATE conversations SET active = FALSE, updated_at = now()
		 WHERE active AND updated_at < now() - make_interval(secs => $1)`,
		idleFor.Seconds(),
	)
	if err != nil {
		return 0, fmt.Errorf("deactivate idle conversations: %w", err)
	}
	return tag.RowsAffected(), nil
}

func joinServices(services []string) string {
	return strings.Join(services, ",")
}

func splitServices(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	services := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			services = append(services, p)
		}
	}
	return services
}
