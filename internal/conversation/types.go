package conversation

import (
	"time"

	"github.com/mygoodmovers/movebot/internal/dialogue"
	"github.com/mygoodmovers/movebot/internal/slots"
)

// Conversation is one chat session with its collected move details.
type Conversation struct {
	ID        string          `json:"id"`
	State     dialogue.State  `json:"state"`
	Active    bool            `json:"active"`
	Confirmed bool            `json:"confirmed"`
	Slots     slots.MoveSlots `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
