package responder

// Canned bot texts used by the conversation turn pipeline.
const (
	// Greeting opens every new session.
	Greeting = "Hello! I'm here to help you with your ScootCare needs. How can I assist you today?"

	// FallbackNoMatch is the reply when no knowledge entry scores above zero.
	// It offers escalation; sending it never means the lookup failed.
	FallbackNoMatch = "I understand your question, but I don't have a specific answer for that. Would you like me to escalate this to our support team?"

	// DegradedLookup is the reply when the question was recognized but the
	// resolver could not produce an answer.
	DegradedLookup = "I found the right topic for your question, but I couldn't look up the answer just now. Please try again in a few moments, or ask me to escalate this to our support team."

	// FileUploadAck acknowledges a message that carried only an attachment.
	FileUploadAck = "Thank you for uploading the file for reference. How can I help you with this?"

	// EscalationNotice is appended to the session when a ticket is created.
	EscalationNotice = "Your conversation has been escalated to our human support team. Someone will contact you within 24 hours."
)
