package notification

import "context"

// Audience selects recipients. All wins over UserIDs.
type Audience struct {
	All     bool
	UserIDs []string
}

func (a Audience) Empty() bool {
	return !a.All && len(a.UserIDs) == 0
}

type Message struct {
	Title    string
	Body     string
	ImageURL string
}

// DeliveryResult counts per-device outcomes reported by the gateway.
type DeliveryResult struct {
	Sent   int
	Failed int
}

// Gateway delivers push messages to the devices registered for an audience.
// Device subscriptions are owned by the gateway.
type Gateway interface {
	Send(ctx context.Context, audience Audience, msg Message) (DeliveryResult, error)
}
