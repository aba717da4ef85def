package services

// Notifier is told when a day's match has paired two people.
// Implementations must not block the request path.
type Notifier interface {
	NotifyMatched(date string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) NotifyMatched(string, interface{}) {}
