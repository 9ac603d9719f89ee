package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCycleNext(t *testing.T) {
	noWrap := StatusCycle{Forward: DefaultStatusCycle.Forward, Wrap: false}

	tests := []struct {
		name    string
		cycle   StatusCycle
		current OrderStatus
		want    OrderStatus
		wantErr error
	}{
		{name: "pending advances to processing", cycle: DefaultStatusCycle, current: StatusPending, want: StatusProcessing},
		{name: "processing advances to shipped", cycle: DefaultStatusCycle, current: StatusProcessing, want: StatusShipped},
		{name: "shipped advances to delivered", cycle: DefaultStatusCycle, current: StatusShipped, want: StatusDelivered},
		{name: "delivered wraps to pending", cycle: DefaultStatusCycle, current: StatusDelivered, want: StatusPending},
		{name: "delivered without wrap fails", cycle: noWrap, current: StatusDelivered, want: StatusDelivered, wantErr: ErrInvalidTransition},
		{name: "cancelled never advances", cycle: DefaultStatusCycle, current: StatusCancelled, want: StatusCancelled, wantErr: ErrInvalidTransition},
		{name: "unknown status never advances", cycle: DefaultStatusCycle, current: "Lost", want: "Lost", wantErr: ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cycle.Next(tt.current)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatusCycleNeverYieldsCancelled(t *testing.T) {
	for _, wrap := range []bool{true, false} {
		cycle := StatusCycle{Forward: DefaultStatusCycle.Forward, Wrap: wrap}
		s := StatusPending
		for range 10 {
			next, err := cycle.Next(s)
			if err != nil {
				break
			}
			assert.NotEqual(t, StatusCancelled, next)
			s = next
		}
	}
}

func TestOrderSetStatus(t *testing.T) {
	tests := []struct {
		name    string
		initial OrderStatus
		target  OrderStatus
		wantErr error
	}{
		{name: "processing to shipped", initial: StatusProcessing, target: StatusShipped},
		{name: "pending to cancelled", initial: StatusPending, target: StatusCancelled},
		{name: "processing to cancelled", initial: StatusProcessing, target: StatusCancelled},
		{name: "shipped to cancelled", initial: StatusShipped, target: StatusCancelled},
		{name: "cancelled to cancelled is idempotent", initial: StatusCancelled, target: StatusCancelled},
		{name: "delivered to cancelled fails", initial: StatusDelivered, target: StatusCancelled, wantErr: ErrInvalidTransition},
		{name: "unknown target fails", initial: StatusPending, target: "Returned", wantErr: ErrInvalidStatus},
		{name: "explicit assignment may move backwards", initial: StatusShipped, target: StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &Order{ID: "o1", Status: tt.initial}
			err := o.SetStatus(tt.target)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.initial, o.Status, "status should not change on error")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, o.Status)
		})
	}
}

func TestOrderAdvance(t *testing.T) {
	o := &Order{ID: "o1", Status: StatusShipped}
	require.NoError(t, o.Advance(DefaultStatusCycle))
	assert.Equal(t, StatusDelivered, o.Status)

	o.Status = StatusCancelled
	assert.ErrorIs(t, o.Advance(DefaultStatusCycle), ErrInvalidTransition)
	assert.Equal(t, StatusCancelled, o.Status)
}

func TestOrderValidate(t *testing.T) {
	assert.ErrorIs(t, Order{}.Validate(), ErrInvalidInput)
	assert.ErrorIs(t, Order{Items: []OrderItem{{ProductID: "1", Quantity: 0}}}.Validate(), ErrInvalidInput)
	assert.NoError(t, Order{Items: []OrderItem{{ProductID: "1", Quantity: 2}}}.Validate())
}

func TestOrderItemsTotal(t *testing.T) {
	o := Order{Items: []OrderItem{
		{ProductID: "1", Price: 100, Quantity: 2},
		{ProductID: "2", Price: 25.5, Quantity: 1},
	}}
	assert.InDelta(t, 225.5, o.ItemsTotal(), 1e-9)
}
