package session

// View identifies a navigation target in the application shell.
type View string

// Views the session manager navigates between.
const (
	ViewLogin     View = "login"
	ViewDashboard View = "dashboard"
)

// Variant selects the presentation of a notification.
type Variant string

// Notification variants.
const (
	VariantNormal      Variant = "normal"
	VariantDestructive Variant = "destructive"
)

// Notification is a fire-and-forget user-facing message.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier receives notifications from the session manager. Implementations
// must not block; no result is consumed.
type Notifier interface {
	Notify(n Notification)
}

// Navigator performs view changes on behalf of the session manager and
// reports the current view so redundant redirects can be skipped. The
// session core holds no routing logic of its own.
type Navigator interface {
	CurrentView() View
	NavigateTo(v View)
}
