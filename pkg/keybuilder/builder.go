package keybuilder

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	Service  string = "webhook-notifier"
	Delivery string = "delivery"
)

// RedisDeliveryKeyBuild returns the key marking a notification as dispatched.
func RedisDeliveryKeyBuild(id uuid.UUID) string {
	return fmt.Sprintf("%s:%s:%s", Service, Delivery, id)
}
