package entities

import (
	"context"

	"github.com/mesh-intelligence/storefront/pkg/types"
)

// CreateOrder validates and stores a new order. The id, creation time and
// Pending status are always assigned here; a zero total is computed from
// the items.
func (r *Registry) CreateOrder(ctx context.Context, o types.Order) (types.Order, error) {
	if err := o.Validate(); err != nil {
		return types.Order{}, err
	}
	o.ID = r.newID()
	o.CreatedAt = r.now().UnixMilli()
	o.Status = types.StatusPending
	if o.TotalAmount == 0 {
		o.TotalAmount = o.ItemsTotal()
	}
	return r.Orders.Create(ctx, o)
}

// SetOrderStatus assigns status to the order. Only the status changes.
func (r *Registry) SetOrderStatus(ctx context.Context, id string, status types.OrderStatus) (types.Order, error) {
	return r.Orders.Ref(id).Mutate(ctx, func(o types.Order) (types.Order, error) {
		err := o.SetStatus(status)
		return o, err
	})
}

// AdvanceOrder moves the order one step along the registry's StatusCycle.
func (r *Registry) AdvanceOrder(ctx context.Context, id string) (types.Order, error) {
	return r.Orders.Ref(id).Mutate(ctx, func(o types.Order) (types.Order, error) {
		err := o.Advance(r.cycle)
		return o, err
	})
}
