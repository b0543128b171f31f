package responder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/scootcare/support-platform/internal/errs"
	"github.com/scootcare/support-platform/internal/model"
	"github.com/scootcare/support-platform/internal/store"
)

// ResolverOrderTracking is the registry key for the order-status lookup.
const ResolverOrderTracking = "order_tracking"

// NewOrderTrackingResolver builds the resolver that formats the caller's most
// recent order as a status message.
func NewOrderTrackingResolver(orders store.OrderStore) Resolver {
	return func(ctx context.Context, userID string) (string, error) {
		order, err := orders.LatestByOwner(ctx, userID)
		if errors.Is(err, errs.ErrNotFound) {
			return "I don't see any orders associated with your account. If you placed an order recently it may still be registering, or you can ask me to escalate this to our support team.", nil
		}
		if err != nil {
			return "", err
		}
		return FormatOrderStatus(order), nil
	}
}

// FormatOrderStatus renders a single order as the bot's status reply.
func FormatOrderStatus(order *model.Order) string {
	delivery := "not yet scheduled"
	if order.ExpectedDeliveryDate != nil {
		delivery = order.ExpectedDeliveryDate.Format("Monday, January 2, 2006")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Order status update for your %s:\n", order.ModelName)
	fmt.Fprintf(&b, "Status: %s\n", order.Status)
	fmt.Fprintf(&b, "Expected delivery: %s\n", delivery)
	fmt.Fprintf(&b, "Ordered on: %s\n", order.CreatedAt.Format("January 2, 2006"))

	switch order.Status {
	case model.OrderShipped:
		b.WriteString("Your order is on its way!")
	case model.OrderDelivered:
		b.WriteString("Your order has been delivered. Enjoy your new scooter!")
	case model.OrderProcessing:
		b.WriteString("We're preparing your order for shipment.")
	default:
		b.WriteString("Please contact support if you have any questions about your order.")
	}

	return b.String()
}
