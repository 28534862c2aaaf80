package dialogue

import (
	"fmt"
	"strings"

	"github.com/mygoodmovers/movebot/internal/slots"
)

// WelcomeReply opens every new conversation.
const WelcomeReply = "Hello! I'm MoveBot 🤖. How can I assist you with your move today? 📦🚚"

// FarewellReply closes a conversation the user ends.
const FarewellReply = "Chat ended successfully. Thank you for using My Good Movers! 👋"

const personaPrompt = "You are MoveBot 🤖, a friendly assistant for My Good Movers. " +
	"My Good Movers is a platform that connects users and moving companies. " +
	"Try to convince the user to take our services. " +
	"Use emoticons to make your responses more friendly and engaging. " +
	"Keep your answers brief, no more than 2 short sentences."

const (
	replyEstimationFailed = "I couldn't calculate the distance for that move. 😕 Could you double-check the origin and destination locations and try again?"
	replyTryAgain         = "Sorry, something went wrong on my end. 😓 Please try again in a moment."

	replyAskContact    = "Great! To confirm your booking, I'll need your name and contact number. Please provide them in this format: John Doe, 555 123 4567 📇"
	replyContactFormat = "Please provide both your name and contact number, separated by a comma. For example: John Doe, 555 123 4567 📇"
	replyPhoneInvalid  = "That contact number doesn't look right. 📞 It should have exactly 10 digits, for example: John Doe, 555 123 4567"

	replyAskEmail           = "Thanks! And what's the best email address to send your booking confirmation to? 📧"
	replyEmailInvalid       = "That email address doesn't look valid. 📧 Please double-check and send it again."
	replyEmailSuggestionFmt = "That email address doesn't look valid. 📧 Did you mean %s? Please double-check and send it again."

	replyEstimateDeclined = "No problem! Let me know if you'd like to get another estimate or if you have any questions. 😊"
	replyProceedReprompt  = "Please respond with 'Yes' or 'No'. Would you like to proceed with booking this move? 👍👎"
	replyConfirmReprompt  = "Please respond with 'Yes' or 'No'. Do you confirm this booking? 👍👎"

	replyAskModifications = "I understand. What details would you like to modify? Please provide the updated information."
	replyBookingConfirmed = "Your move has been successfully confirmed! 🎉 Our team will reach out to you shortly. Thank you for choosing My Good Movers! 😊"

	summaryHeaderInitial = "Here are your move details:"
	summaryHeaderUpdated = "Here are your updated move details:"
)

// renderEstimate formats the estimate-bearing reply with the yes/no prompt.
func renderEstimate(s slots.MoveSlots) string {
	return fmt.Sprintf(
		"The estimated cost for moving from %s to %s (%s, date: %s) is between $%.2f and $%.2f. 🏠📦💰\n\n"+
			"Would you like to proceed with booking this move? (Reply with Yes/No) 👍👎",
		slots.Title(s.Origin), slots.Title(s.Destination), slots.Title(s.MoveSize),
		s.MoveDate, *s.CostMin, *s.CostMax,
	)
}

// renderMissingFields asks for exactly the unset pricing-required fields.
func renderMissingFields(missing []string) string {
	return fmt.Sprintf(
		"To provide you with an accurate cost estimate, I need your %s. Please provide these details. 📝",
		joinWithAnd(missing),
	)
}

// renderSummary shows the full booking detail block for review. The tags are
// rendered by the chat widget.
func renderSummary(s slots.MoveSlots, header string) string {
	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	fmt.Fprintf(&b, "📍 <strong>From:</strong> %s\n", orNotProvided(slots.Title(s.Origin)))
	fmt.Fprintf(&b, "📍 <strong>To:</strong> %s\n", orNotProvided(slots.Title(s.Destination)))
	fmt.Fprintf(&b, "🏠 <strong>Move Size:</strong> %s\n", orNotProvided(slots.Title(s.MoveSize)))
	fmt.Fprintf(&b, "📅 <strong>Move Date:</strong> %s\n", orNotProvided(s.MoveDate))
	if len(s.Services) > 0 {
		fmt.Fprintf(&b, "🛠️ <strong>Services:</strong> %s\n", strings.Join(s.Services, ", "))
	}
	if s.HasEstimate() {
		fmt.Fprintf(&b, "💰 <strong>Estimated Cost:</strong> $%.2f - $%.2f\n", *s.CostMin, *s.CostMax)
	}
	fmt.Fprintf(&b, "👤 <strong>Name:</strong> %s\n", orNotProvided(s.ContactName))
	fmt.Fprintf(&b, "📞 <strong>Contact No:</strong> %s\n", orNotProvided(s.ContactPhone))
	fmt.Fprintf(&b, "📧 <strong>Email:</strong> %s\n", orNotProvided(s.ContactEmail))
	b.WriteString("\nPlease review your details. Do you confirm this booking? (Yes/No) 👍👎")
	return b.String()
}

// joinWithAnd joins items as a natural-language list: "a", "a and b",
// "a, b, and c".
func joinWithAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func orNotProvided(value string) string {
	if strings.TrimSpace(value) == "" {
		return "Not Provided"
	}
	return value
}
