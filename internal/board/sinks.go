package board

import "github.com/google/uuid"

// NotificationType distinguishes success and error notifications.
type NotificationType string

// Notification types.
const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
)

// Notification is a fire-and-forget user-facing message.
type Notification struct {
	Key         string           `json:"key"`
	Type        NotificationType `json:"type"`
	Message     string           `json:"message"`
	Description string           `json:"description,omitempty"`
}

// Notifier receives notifications emitted by board operations. The server
// fans them out to connected clients; tests record them.
type Notifier interface {
	Notify(n Notification)
}

// NavigateMode controls history behavior when routing.
type NavigateMode string

// Navigation modes.
const (
	NavigatePush    NavigateMode = "push"
	NavigateReplace NavigateMode = "replace"
)

// Navigator routes the client to a resource view, used to enter the
// finalize-deal flow after a terminal drop.
type Navigator interface {
	NavigateTo(resource string, id uuid.UUID, mode NavigateMode)
}

// NopNotifier discards notifications.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(Notification) {}

// NopNavigator discards navigation requests.
type NopNavigator struct{}

// NavigateTo implements Navigator.
func (NopNavigator) NavigateTo(string, uuid.UUID, NavigateMode) {}
