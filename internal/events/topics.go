package events

// Topic constants for domain events emitted by the engine.
const (
	TopicTransactionCreated = "transaction.created"
	TopicSessionOpened      = "session.opened"
	TopicSessionVoided      = "session.voided"
)

// DefaultTopics returns the canonical list of emitted topics.
func DefaultTopics() []string {
	return []string{
		TopicTransactionCreated,
		TopicSessionOpened,
		TopicSessionVoided,
	}
}
