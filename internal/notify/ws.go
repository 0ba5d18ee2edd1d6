package notify

import (
	"github.com/swiftride/backend/internal/domain/ride"
	"github.com/swiftride/backend/pkg/websocket"
)

// WSNotifier publishes ride state changes over the WebSocket hub.
// Each event goes to both participants, to anyone subscribed to the
// ride, and to dashboard clients.
type WSNotifier struct {
	hub *websocket.Hub
}

// NewWSNotifier creates a new WebSocket notifier
func NewWSNotifier(hub *websocket.Hub) *WSNotifier {
	return &WSNotifier{hub: hub}
}

// RideStarted announces a new active ride
func (n *WSNotifier) RideStarted(r *ride.Ride) {
	n.publish("ride_started", r)
}

// RideCompleted announces a completed ride
func (n *WSNotifier) RideCompleted(r *ride.Ride) {
	n.publish("ride_completed", r)
}

// RideCancelled announces a cancelled ride
func (n *WSNotifier) RideCancelled(r *ride.Ride) {
	n.publish("ride_cancelled", r)
}

func (n *WSNotifier) publish(event string, r *ride.Ride) {
	msg := websocket.Message{Type: event, Data: r}

	n.hub.SendToUser(r.PassengerID.String(), msg)
	n.hub.SendToUser(r.DriverID.String(), msg)
	n.hub.BroadcastToRide(r.ID.String(), msg)
	n.hub.BroadcastToType("dashboard", msg)
}
