package dashboard

import "sync"

// Level is the visual weight of a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a transient message shown once to the user.
type Notification struct {
	Level   Level
	Message string
}

// Notifications queues messages until the next render drains them.
type Notifications struct {
	mu    sync.Mutex
	items []Notification
}

// NewNotifications creates an empty queue.
func NewNotifications() *Notifications {
	return &Notifications{}
}

// Push appends a notification.
func (n *Notifications) Push(level Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{Level: level, Message: message})
}

// Drain returns the queued notifications and empties the queue.
func (n *Notifications) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	items := n.items
	n.items = nil
	return items
}
