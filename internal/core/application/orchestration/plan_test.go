package orchestration_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/orchestration"
	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopicFor(t *testing.T) {
	cases := map[order.Action]string{
		order.ActionPlaced:    "order.created",
		order.ActionConfirmed: "order.status.updated",
		order.ActionRejected:  "order.status.updated",
		order.ActionAccepted:  "order.courier.accepted",
		order.ActionPickedUp:  "order.courier.picked-up",
		order.ActionDelivered: "order.delivered",
	}
	for action, topic := range cases {
		assert.Equal(t, topic, orchestration.TopicFor(action), string(action))
	}
	assert.Empty(t, orchestration.TopicFor("archived"))
}

func TestAudienceFor(t *testing.T) {
	assert.Equal(t, orchestration.Audience{Provider: true, Requester: true, Stock: true},
		orchestration.AudienceFor(order.ActionPlaced))
	assert.Equal(t, orchestration.Audience{Provider: true, Requester: true},
		orchestration.AudienceFor(order.ActionRejected))
	assert.Equal(t, orchestration.Audience{Provider: true, Courier: true, Requester: true},
		orchestration.AudienceFor(order.ActionConfirmed))
	assert.Equal(t, orchestration.Audience{Provider: true, Courier: true, Requester: true},
		orchestration.AudienceFor(order.ActionDelivered))
}

func TestPlanFor_OnlyPlacementTouchesInventory(t *testing.T) {
	provider := kernel.NewUUID()
	o := placedOrder(t, provider, provider)

	placed := orchestration.PlanFor(orchestration.Change{Order: o, Action: order.ActionPlaced})
	require.Len(t, placed.Adjustments, 2)
	assert.Equal(t, orchestration.Adjustment{ProviderID: provider, ProductKey: "paracetamol", Quantity: 2},
		placed.Adjustments[0])
	assert.NotContains(t, placed.CacheKeys, ports.CourierBoardCacheKey)

	require.NoError(t, o.Confirm(provider, time.Now()))
	confirmed := orchestration.PlanFor(orchestration.Change{Order: o, Action: order.ActionConfirmed})
	assert.Empty(t, confirmed.Adjustments)
	assert.Equal(t, []string{ports.CourierBoardCacheKey}, confirmed.CacheKeys)
	assert.Equal(t, orchestration.TopicOrderStatusUpdated, confirmed.Topic)
}

func TestNewOrderEvent(t *testing.T) {
	provider, courier := kernel.NewUUID(), kernel.NewUUID()
	o := placedOrder(t, provider, provider)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	tariff, err := geo.NewTariff(decimal.NewFromInt(30), decimal.NewFromInt(5))
	require.NoError(t, err)

	pending := orchestration.NewOrderEvent(o, order.ActionPlaced, now)
	assert.Nil(t, pending.CourierID)
	assert.Nil(t, pending.Earnings)
	assert.Equal(t, "20.00", pending.Items[0].UnitPrice)

	require.NoError(t, o.Confirm(provider, now))
	require.NoError(t, o.Accept(courier, now))
	require.NoError(t, o.PickUp(courier, now))
	_, err = o.Deliver(courier, nil, tariff, now)
	require.NoError(t, err)

	delivered := orchestration.NewOrderEvent(o, order.ActionDelivered, now)
	require.NotNil(t, delivered.CourierID)
	assert.Equal(t, courier.String(), *delivered.CourierID)
	require.NotNil(t, delivered.Earnings)
	assert.Equal(t, "30.00", delivered.Earnings.Total)
	assert.Equal(t, "delivered", delivered.Status)
	assert.Equal(t, now, delivered.OccurredAt)
}
