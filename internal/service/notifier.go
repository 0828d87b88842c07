package service

import (
	"context"
	"encoding/json"
	"log"

	"barangay/internal/model"
	"barangay/internal/repository"
	ws "barangay/internal/websocket"
)

// Notifier appends notification records and pushes live events to connected
// dashboards. Emission is best-effort: it runs after the owning mutation has
// committed and its failure is logged, never propagated.
type Notifier struct {
	repo repository.NotificationRepository
	hub  *ws.Hub
}

func NewNotifier(repo repository.NotificationRepository, hub *ws.Hub) *Notifier {
	return &Notifier{repo: repo, hub: hub}
}

// Notify writes a notification for userID (nil for system-wide notices) in
// its own unit of work and broadcasts it over the websocket hub.
func (n *Notifier) Notify(ctx context.Context, userID *uint, typ, title, message string) {
	notif := model.Notification{
		Title:   title,
		Message: message,
		Type:    typ,
		IsRead:  false,
		UserID:  userID,
	}

	if err := n.repo.Create(ctx, &notif); err != nil {
		log.Printf("WARNING: failed to create notification %q: %v", title, err)
		return
	}

	n.push(notif)
}

// push broadcasts the notification event without blocking the caller. Events
// are dropped when the hub is absent (tests) or saturated.
func (n *Notifier) push(notif model.Notification) {
	if n.hub == nil {
		return
	}
	payload, err := json.Marshal(notif)
	if err != nil {
		log.Printf("WARNING: failed to encode notification event: %v", err)
		return
	}
	select {
	case n.hub.Broadcast <- payload:
	default:
	}
}
