package order_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/geo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var placedAt = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

type fixture struct {
	requester kernel.UUID
	provider  kernel.UUID
	courier   kernel.UUID
	home      kernel.Location
	pharmacy  kernel.Location
	tariff    geo.Tariff
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	home, err := kernel.NewLocation(12.9, 77.6)
	require.NoError(t, err)
	pharmacy, err := kernel.NewLocation(12.936, 77.6)
	require.NoError(t, err)
	tariff, err := geo.NewTariff(decimal.NewFromInt(30), decimal.NewFromInt(5))
	require.NoError(t, err)

	return fixture{
		requester: kernel.NewUUID(),
		provider:  kernel.NewUUID(),
		courier:   kernel.NewUUID(),
		home:      home,
		pharmacy:  pharmacy,
		tariff:    tariff,
	}
}

func (f fixture) items(t *testing.T) []order.Item {
	t.Helper()
	a, err := order.NewItem("Paracetamol 500mg", 2, decimal.RequireFromString("3.50"), f.provider)
	require.NoError(t, err)
	b, err := order.NewItem("Cough Syrup", 1, decimal.RequireFromString("7.25"), kernel.NewUUID())
	require.NoError(t, err)
	return []order.Item{a, b}
}

func (f fixture) pending(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), f.requester, f.provider, f.items(t), &f.home, "12 MG Road", placedAt)
	require.NoError(t, err)
	return o
}

// in drives a fresh order to the requested status through the public transitions.
func (f fixture) in(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	o := f.pending(t)
	steps := map[order.Status][]func() error{
		order.Pending:  nil,
		order.Rejected: {func() error { return o.Reject(f.provider, placedAt) }},
		order.Ready:    {func() error { return o.Confirm(f.provider, placedAt) }},
		order.OutForDelivery: {
			func() error { return o.Confirm(f.provider, placedAt) },
			func() error { return o.Accept(f.courier, placedAt) },
		},
		order.Delivered: {
			func() error { return o.Confirm(f.provider, placedAt) },
			func() error { return o.Accept(f.courier, placedAt) },
			func() error { _, err := o.Deliver(f.courier, &f.pharmacy, f.tariff, placedAt); return err },
		},
	}
	for _, step := range steps[status] {
		require.NoError(t, step())
	}
	require.Equal(t, status, o.Status())
	return o
}

func TestNewOrder(t *testing.T) {
	f := newFixture(t)

	t.Run("creates a pending order with a placement record", func(t *testing.T) {
		o := f.pending(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, order.Pending, o.Status())
		assert.True(t, o.ProviderID().IsEqual(f.provider))
		assert.Nil(t, o.CourierID())
		assert.False(t, o.PickedUp())
		assert.True(t, o.Earnings().IsZero())
		assert.Equal(t, placedAt, o.OrderedAt())
		assert.Len(t, o.Items(), 2)

		transitions := o.PendingTransitions()
		require.Len(t, transitions, 1)
		assert.Equal(t, order.ActionPlaced, transitions[0].Action)
		assert.Equal(t, order.Pending, transitions[0].To)
		assert.True(t, transitions[0].ActorID.IsEqual(f.requester))
	})

	t.Run("snapshots the requester location", func(t *testing.T) {
		loc := f.home
		o, err := order.NewOrder(kernel.NewUUID(), f.requester, f.provider, f.items(t), &loc, "", placedAt)
		require.NoError(t, err)

		loc, _ = kernel.NewLocation(0, 0)

		assert.InDelta(t, 12.9, o.RequesterLocation().Lat(), 1e-12)
	})

	t.Run("allows a missing requester location", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), f.requester, f.provider, f.items(t), nil, "", placedAt)

		require.NoError(t, err)
		assert.Nil(t, o.RequesterLocation())
	})

	t.Run("rejects an empty item list", func(t *testing.T) {
		o, err := order.NewOrder(kernel.NewUUID(), f.requester, f.provider, nil, nil, "", placedAt)

		require.ErrorIs(t, err, errs.ErrCartIsEmpty)
		assert.Nil(t, o)
	})

	t.Run("joins every invalid field", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, kernel.UUID{}, f.items(t), nil, "", time.Time{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "requesterId")
		assert.Contains(t, err.Error(), "providerId")
		assert.Contains(t, err.Error(), "orderedAt")
	})

	t.Run("rejects items that bypassed NewItem", func(t *testing.T) {
		_, err := order.NewOrder(kernel.NewUUID(), f.requester, f.provider, []order.Item{{}}, nil, "", placedAt)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_ProviderDecisions(t *testing.T) {
	f := newFixture(t)

	t.Run("owner confirms a pending order", func(t *testing.T) {
		o := f.pending(t)

		require.NoError(t, o.Confirm(f.provider, placedAt))
		assert.Equal(t, order.Ready, o.Status())
	})

	t.Run("owner rejects a pending order", func(t *testing.T) {
		o := f.pending(t)

		require.NoError(t, o.Reject(f.provider, placedAt))
		assert.Equal(t, order.Rejected, o.Status())
	})

	t.Run("another provider is forbidden", func(t *testing.T) {
		o := f.pending(t)

		require.ErrorIs(t, o.Confirm(kernel.NewUUID(), placedAt), errs.ErrForbidden)
		require.ErrorIs(t, o.Reject(kernel.NewUUID(), placedAt), errs.ErrForbidden)
		assert.Equal(t, order.Pending, o.Status())
	})

	t.Run("an out-for-delivery order cannot go back to ready", func(t *testing.T) {
		o := f.in(t, order.OutForDelivery)

		err := o.Confirm(f.provider, placedAt)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.OutForDelivery, o.Status())
	})

	t.Run("decisions after pending are invalid transitions", func(t *testing.T) {
		for _, s := range []order.Status{order.Ready, order.OutForDelivery, order.Delivered, order.Rejected} {
			o := f.in(t, s)

			require.ErrorIs(t, o.Confirm(f.provider, placedAt), errs.ErrInvalidTransition, s.String())
			require.ErrorIs(t, o.Reject(f.provider, placedAt), errs.ErrInvalidTransition, s.String())
			assert.Equal(t, s, o.Status())
		}
	})
}

func TestOrder_Accept(t *testing.T) {
	f := newFixture(t)

	t.Run("assigns the courier to a ready order", func(t *testing.T) {
		o := f.in(t, order.Ready)

		require.NoError(t, o.Accept(f.courier, placedAt))

		assert.Equal(t, order.OutForDelivery, o.Status())
		require.NotNil(t, o.CourierID())
		assert.True(t, o.CourierID().IsEqual(f.courier))
		assert.False(t, o.PickedUp())
		assert.Nil(t, o.PickedUpAt())
	})

	t.Run("only ready orders can be accepted", func(t *testing.T) {
		for _, s := range []order.Status{order.Pending, order.OutForDelivery, order.Delivered, order.Rejected} {
			o := f.in(t, s)
			before := o.CourierID()

			require.ErrorIs(t, o.Accept(kernel.NewUUID(), placedAt), errs.ErrInvalidTransition, s.String())
			assert.Equal(t, before, o.CourierID())
		}
	})

	t.Run("the courier is never reassigned", func(t *testing.T) {
		o := f.in(t, order.OutForDelivery)

		require.Error(t, o.Accept(kernel.NewUUID(), placedAt))
		assert.True(t, o.CourierID().IsEqual(f.courier))
	})
}

func TestOrder_PickUp(t *testing.T) {
	f := newFixture(t)
	later := placedAt.Add(10 * time.Minute)

	t.Run("the assignee picks up once", func(t *testing.T) {
		o := f.in(t, order.OutForDelivery)

		require.NoError(t, o.PickUp(f.courier, later))

		assert.True(t, o.PickedUp())
		require.NotNil(t, o.PickedUpAt())
		assert.Equal(t, later, *o.PickedUpAt())
		assert.Equal(t, order.OutForDelivery, o.Status())

		require.ErrorIs(t, o.PickUp(f.courier, later), errs.ErrInvalidTransition)
	})

	t.Run("another courier is forbidden", func(t *testing.T) {
		courierA, courierB := kernel.NewUUID(), kernel.NewUUID()
		o := f.in(t, order.Ready)
		require.NoError(t, o.Accept(courierA, placedAt))

		err := o.PickUp(courierB, later)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.False(t, o.PickedUp())
	})

	t.Run("pickup requires out for delivery", func(t *testing.T) {
		for _, s := range []order.Status{order.Pending, order.Ready, order.Delivered, order.Rejected} {
			o := f.in(t, s)

			require.ErrorIs(t, o.PickUp(f.courier, later), errs.ErrInvalidTransition, s.String())
		}
	})
}

func TestOrder_Deliver(t *testing.T) {
	f := newFixture(t)
	deliveredAt := placedAt.Add(40 * time.Minute)

	t.Run("computes earnings from provider to requester", func(t *testing.T) {
		o := f.in(t, order.OutForDelivery)
		expected := f.tariff.Earnings(geo.DistanceKm(&f.pharmacy, &f.home))

		applied, err := o.Deliver(f.courier, &f.pharmacy, f.tariff, deliveredAt)

		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, order.Delivered, o.Status())
		assert.InDelta(t, 4.0, o.Earnings().DistanceKm, 0.01)
		assert.True(t, expected.Total.Equal(o.Earnings().Total))
		require.NotNil(t, o.DeliveredAt())
		assert.Equal(t, deliveredAt, *o.DeliveredAt())
	})

	t.Run("delivering twice keeps the first earnings", func(t *testing.T) {
		o := f.in(t, order.OutForDelivery)
		_, err := o.Deliver(f.courier, &f.pharmacy, f.tariff, deliveredAt)
		require.NoError(t, err)
		first := o.Earnings()
		o.MarkPersisted(o.Version() + 1)

		far, _ := kernel.NewLocation(13.5, 78.1)
		applied, err := o.Deliver(kernel.NewUUID(), &far, f.tariff, deliveredAt.Add(time.Hour))

		require.NoError(t, err)
		assert.False(t, applied)
		assert.Equal(t, first, o.Earnings())
		assert.Equal(t, deliveredAt, *o.DeliveredAt())
		assert.Empty(t, o.PendingTransitions())
	})

	t.Run("missing locations pay the base amount", func(t *testing.T) {
		o := f.in(t, order.OutForDelivery)

		_, err := o.Deliver(f.courier, nil, f.tariff, deliveredAt)

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(30).Equal(o.Earnings().Total))
	})

	t.Run("another courier is forbidden", func(t *testing.T) {
		o := f.in(t, order.OutForDelivery)

		_, err := o.Deliver(kernel.NewUUID(), &f.pharmacy, f.tariff, deliveredAt)

		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Equal(t, order.OutForDelivery, o.Status())
		assert.True(t, o.Earnings().IsZero())
	})

	t.Run("only out-for-delivery orders can be delivered", func(t *testing.T) {
		for _, s := range []order.Status{order.Pending, order.Ready, order.Rejected} {
			o := f.in(t, s)

			_, err := o.Deliver(f.courier, &f.pharmacy, f.tariff, deliveredAt)

			require.ErrorIs(t, err, errs.ErrInvalidTransition, s.String())
			assert.Equal(t, s, o.Status())
		}
	})
}

func TestOrder_TransitionLog(t *testing.T) {
	f := newFixture(t)
	o := f.in(t, order.Delivered)

	var actions []order.Action
	for _, tr := range o.PendingTransitions() {
		actions = append(actions, tr.Action)
	}
	assert.Equal(t, []order.Action{
		order.ActionPlaced, order.ActionConfirmed, order.ActionAccepted, order.ActionDelivered,
	}, actions)

	o.MarkPersisted(7)
	assert.Empty(t, o.PendingTransitions())
	assert.Equal(t, 7, o.Version())
}

func TestRestoreOrder(t *testing.T) {
	f := newFixture(t)

	t.Run("round trips state", func(t *testing.T) {
		original := f.in(t, order.Delivered)
		original.MarkPersisted(4)

		restored, err := order.RestoreOrder(original.State())

		require.NoError(t, err)
		assert.Equal(t, original.State(), restored.State())
		assert.Empty(t, restored.PendingTransitions())
	})

	t.Run("rejects a courier on a pending order", func(t *testing.T) {
		state := f.pending(t).State()
		courier := kernel.NewUUID()
		state.CourierID = &courier

		_, err := order.RestoreOrder(state)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejects an unknown status", func(t *testing.T) {
		state := f.pending(t).State()
		state.Status = order.Unknown

		_, err := order.RestoreOrder(state)

		require.Error(t, err)
	})
}

func TestOrder_ZeroValueIsInvalid(t *testing.T) {
	var o *order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	require.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
}
