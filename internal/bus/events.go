package bus

// Location is a geographic point attached to an inbound message.
type Location struct {
	Latitude  float64
	Longitude float64
}

// InboundMessage represents a message received from any channel.
type InboundMessage struct {
	Channel  string    // source channel name (e.g. "telegram", "slack")
	SenderID string    // sender identifier
	ChatID   string    // chat/conversation identifier
	Content  string    // text content (commands included, e.g. "/start")
	Location *Location // set when the message carries a location share
}

// HasLocation reports whether the message carries a location payload.
func (m InboundMessage) HasLocation() bool {
	return m.Location != nil
}

// OutboundMessage represents a message to be sent to a channel.
type OutboundMessage struct {
	Channel string // target channel
	ChatID  string // target chat
	Content string // text content
}
