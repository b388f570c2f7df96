// Package status tracks the delivery state of messages in the open thread.
package status

// Status is the delivery state of one message.
type Status string

const (
	Unknown   Status = "unknown"
	Sending   Status = "sending"
	Sent      Status = "sent"
	Delivered Status = "delivered"
	Read      Status = "read"
	Failed    Status = "failed"
	// Received marks inbound rows. They carry no indicator.
	Received Status = "received"
)

// rank orders the outbound lifecycle. States outside it return -1.
func (s Status) rank() int {
	switch s {
	case Sending:
		return 0
	case Sent:
		return 1
	case Delivered:
		return 2
	case Read:
		return 3
	}
	return -1
}

// absent reports whether s carries no known state. The zero value counts.
func (s Status) absent() bool {
	return s == Unknown || s == ""
}

// Outbound reports whether s belongs to a message the current user sent.
func (s Status) Outbound() bool {
	return s.rank() >= 0 || s == Failed
}

// Merge combines the current and incoming status. The lifecycle only moves
// forward; failed is reachable only from sending and is never left.
func Merge(current, incoming Status) Status {
	switch {
	case current == incoming:
		return current
	case current == Failed:
		return Failed
	case incoming == Failed:
		if current == Sending || current.absent() {
			return Failed
		}
		return current
	case current.absent():
		return incoming
	case incoming.rank() < 0 || current.rank() < 0:
		return current
	case incoming.rank() > current.rank():
		return incoming
	}
	return current
}

// ForMessage derives the status of a history row: own messages are read or
// delivered depending on the read flag, everything else is received.
func ForMessage(senderID, currentUserID int64, isRead bool) Status {
	if senderID != currentUserID {
		return Received
	}
	if isRead {
		return Read
	}
	return Delivered
}
