package events

// EventCollector buffers the events raised while handling one request so
// they can be published together once the request outcome is known.
// The zero value is ready to use.
type EventCollector struct {
	pending []DomainEvent
}

// Record buffers evt.
func (c *EventCollector) Record(evt DomainEvent) {
	c.pending = append(c.pending, evt)
}

// Len is the number of buffered events.
func (c *EventCollector) Len() int { return len(c.pending) }

// Drain hands over the buffered events and empties the collector.
func (c *EventCollector) Drain() []DomainEvent {
	out := c.pending
	c.pending = nil
	return out
}
