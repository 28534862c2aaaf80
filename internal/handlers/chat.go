package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mygoodmovers/movebot/internal/conversation"
	"github.com/mygoodmovers/movebot/internal/dialogue"
	"github.com/mygoodmovers/movebot/internal/events"
	"github.com/mygoodmovers/movebot/internal/message"
)

// TurnEngine handles one dialogue turn. Implemented by dialogue.Engine.
type TurnEngine interface {
	HandleTurn(ctx context.Context, turn dialogue.Turn) dialogue.Outcome
}

// ChatHandler exposes the conversation lifecycle over HTTP.
type ChatHandler struct {
	engine    TurnEngine
	convSvc   *conversation.Service
	msgSvc    *message.Service
	publisher events.Publisher
	logger    *slog.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(log *slog.Logger, engine TurnEngine, convSvc *conversation.Service, msgSvc *message.Service, publisher events.Publisher) *ChatHandler {
	return &ChatHandler{
		engine:    engine,
		convSvc:   convSvc,
		msgSvc:    msgSvc,
		publisher: publisher,
		logger:    log.With(slog.String("handler", "chat")),
	}
}

// Register mounts the chat routes on the Echo instance.
func (h *ChatHandler) Register(e *echo.Echo) {
	e.POST("/chats", h.Start)
	e.POST("/chats/:chat_id/messages", h.Turn)
	e.POST("/chats/:chat_id/end", h.End)
	e.GET("/chats/:chat_id/messages", h.History)
}

// StartResponse is returned when a new conversation opens.
type StartResponse struct {
	ChatID  string `json:"chat_id"`
	Message string `json:"message"`
}

// TurnRequest carries one user message.
type TurnRequest struct {
	Message string `json:"message"`
}

// TurnResponse carries the single reply for a turn.
type TurnResponse struct {
	ChatID string `json:"chat_id"`
	Reply  string `json:"reply"`
	State  string `json:"state"`
}

// Start godoc
// @Summary Start a conversation
// @Tags chat
// @Success 200 {object} StartResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats [post]
func (h *ChatHandler) Start(c echo.Context) error {
	conv, err := h.convSvc.Create(c.Request().Context())
	if err != nil {
		h.logger.Error("start conversation failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to start chat session")
	}
	return c.JSON(http.StatusOK, StartResponse{
		ChatID:  conv.ID,
		Message: dialogue.WelcomeReply,
	})
}

// Turn godoc
// @Summary Send a message
// @Tags chat
// @Param chat_id path string true "Conversation ID"
// @Param payload body TurnRequest true "User message"
// @Success 200 {object} TurnResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats/{chat_id}/messages [post]
func (h *ChatHandler) Turn(c echo.Context) error {
	chatID := strings.TrimSpace(c.Param("chat_id"))
	if chatID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat id is required")
	}

	var req TurnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userText := strings.TrimSpace(req.Message)
	if userText == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "message is required")
	}

	ctx := c.Request().Context()
	conv, err := h.convSvc.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat session not found")
		}
		h.logger.Error("load conversation failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load chat session")
	}
	if !conv.Active && conv.State != dialogue.StateConfirmed {
		return echo.NewHTTPError(http.StatusBadRequest, "this chat session has been ended, please start a new session")
	}

	history, err := h.msgSvc.History(ctx, chatID)
	if err != nil {
		h.logger.Error("load history failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load chat history")
	}

	outcome := h.engine.HandleTurn(ctx, dialogue.Turn{
		ConversationID: conv.ID,
		State:          conv.State,
		Slots:          conv.Slots,
		UserText:       userText,
		History:        message.RenderTranscript(history),
	})

	if err := h.convSvc.SaveOutcome(ctx, conv.ID, userText, outcome); err != nil {
		h.logger.Error("save outcome failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to save chat turn")
	}

	if outcome.Confirmed {
		if err := h.publisher.PublishBookingConfirmed(ctx, conv.ID, outcome.Slots); err != nil {
			// Delivery is best-effort; the booking itself is already persisted.
			h.logger.Error("booking event publish failed",
				slog.String("conversation_id", conv.ID),
				slog.Any("error", err),
			)
		}
	}

	return c.JSON(http.StatusOK, TurnResponse{
		ChatID: conv.ID,
		Reply:  outcome.Reply,
		State:  string(outcome.State),
	})
}

// End godoc
// @Summary End a conversation
// @Tags chat
// @Param chat_id path string true "Conversation ID"
// @Success 200 {object} TurnResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats/{chat_id}/end [post]
func (h *ChatHandler) End(c echo.Context) error {
	chatID := strings.TrimSpace(c.Param("chat_id"))
	if chatID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat id is required")
	}

	farewell, err := h.convSvc.End(c.Request().Context(), chatID)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat session not found")
		}
		h.logger.Error("end conversation failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to end chat session")
	}
	return c.JSON(http.StatusOK, TurnResponse{ChatID: chatID, Reply: farewell})
}

// History godoc
// @Summary Get the transcript
// @Tags chat
// @Param chat_id path string true "Conversation ID"
// @Success 200 {array} message.Message
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /chats/{chat_id}/messages [get]
func (h *ChatHandler) History(c echo.Context) error {
	chatID := strings.TrimSpace(c.Param("chat_id"))
	if chatID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "chat id is required")
	}

	ctx := c.Request().Context()
	if _, err := h.convSvc.Get(ctx, chatID); err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chat session not found")
		}
		h.logger.Error("load conversation failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load chat session")
	}

	history, err := h.msgSvc.History(ctx, chatID)
	if err != nil {
		h.logger.Error("load history failed", slog.Any("error", err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load chat history")
	}
	if history == nil {
		history = []message.Message{}
	}
	return c.JSON(http.StatusOK, history)
}
