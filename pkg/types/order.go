package types

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// Order statuses. An order moves forward through Pending, Processing,
// Shipped and Delivered; Cancelled is only reached by explicit assignment.
const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

// validOrderStatuses is the set of recognized status values.
var validOrderStatuses = map[OrderStatus]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusDelivered:  true,
	StatusCancelled:  true,
}

// cancellableFrom lists the statuses an order may be cancelled from.
var cancellableFrom = map[OrderStatus]bool{
	StatusPending:    true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusCancelled:  true,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	return validOrderStatuses[s]
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID    string  `json:"productId"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	Quantity     int     `json:"quantity"`
	SelectedSize float64 `json:"selectedSize"`
	Image        string  `json:"image"`
}

// Order is a placed checkout.
type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName"`
	Email        string      `json:"email"`
	Address      string      `json:"address"`
	City         string      `json:"city"`
	ZipCode      string      `json:"zipCode"`
	Items        []OrderItem `json:"items"`
	TotalAmount  float64     `json:"totalAmount"`
	Status       OrderStatus `json:"status"`
	CreatedAt    int64       `json:"createdAt"`
}

// RecordID returns the order ID.
func (o Order) RecordID() string { return o.ID }

// WithID returns a copy of the order carrying id.
func (o Order) WithID(id string) Order {
	o.ID = id
	return o
}

// Validate checks that the order has at least one item and that every item
// has a positive quantity. Returns ErrInvalidInput otherwise.
func (o Order) Validate() error {
	if len(o.Items) == 0 {
		return ErrInvalidInput
	}
	for _, it := range o.Items {
		if it.Quantity < 1 {
			return ErrInvalidInput
		}
	}
	return nil
}

// ItemsTotal returns the sum of price times quantity over all items.
func (o Order) ItemsTotal() float64 {
	var total float64
	for _, it := range o.Items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// SetStatus assigns status explicitly. Returns ErrInvalidStatus for an
// unknown value and ErrInvalidTransition when cancelling an order that is
// already delivered. Cancelling a cancelled order is a no-op.
func (o *Order) SetStatus(status OrderStatus) error {
	if !validOrderStatuses[status] {
		return ErrInvalidStatus
	}
	if status == StatusCancelled && !cancellableFrom[o.Status] {
		return ErrInvalidTransition
	}
	o.Status = status
	return nil
}

// Advance moves the order one step forward along cycle.
// The status is left unchanged on error.
func (o *Order) Advance(cycle StatusCycle) error {
	next, err := cycle.Next(o.Status)
	if err != nil {
		return err
	}
	o.Status = next
	return nil
}

// StatusCycle is the forward sequence used by the admin "advance" action.
// Wrap controls what happens at the end of the sequence: when true the
// order returns to the first status, otherwise advancing fails.
type StatusCycle struct {
	Forward []OrderStatus
	Wrap    bool
}

// DefaultStatusCycle advances Pending through Delivered and wraps back.
var DefaultStatusCycle = StatusCycle{
	Forward: []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered},
	Wrap:    true,
}

// Next returns the status following current. Statuses outside Forward,
// Cancelled included, cannot be advanced and return ErrInvalidTransition.
func (c StatusCycle) Next(current OrderStatus) (OrderStatus, error) {
	for i, s := range c.Forward {
		if s != current {
			continue
		}
		if i+1 < len(c.Forward) {
			return c.Forward[i+1], nil
		}
		if c.Wrap {
			return c.Forward[0], nil
		}
		return current, ErrInvalidTransition
	}
	return current, ErrInvalidTransition
}
