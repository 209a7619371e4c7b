package notifiers

import (
	"context"

	"github.com/ilindan-dev/webhook-notifier/internal/domain/model"
)

// Notifier is a secondary channel that receives a copy of each notification.
// Webhook fan-out itself goes through an EndpointDispatcher.
type Notifier interface {
	// Name identifies the notifier in results and logs.
	Name() string
	// Send delivers the notification's subject and body.
	Send(ctx context.Context, n *model.Notification) error
}

// EndpointDispatcher posts a payload to each URL of a comma-delimited list.
type EndpointDispatcher interface {
	Dispatch(ctx context.Context, urlList string, data []byte) []model.DispatchResult
}
