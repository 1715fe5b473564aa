package entity

import "github.com/mluqi/km-support/pkg/constant"

// Order represents a storefront order. Status moves through the fixed chain
// pending -> processing -> shipped -> completed, with a cancellation branch
// reachable from any pre-completed state. All transitions are actor-driven;
// there is no timer.
type Order struct {
	Id                 int64  `json:"id" gorm:"column:id;primaryKey"`
	UserId             string `json:"user_id" gorm:"column:user_id;index"`
	Status             string `json:"status" gorm:"column:status"`
	StatusBeforeCancel string `json:"status_before_cancel,omitempty" gorm:"column:status_before_cancel"`
	Awb                string `json:"awb,omitempty" gorm:"column:awb"`
	Total              int64  `json:"total" gorm:"column:total"`
	CreatedAt          int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt          int64  `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for Order
func (Order) TableName() string {
	return "orders"
}

// orderTransitions lists the admin-settable targets for each status.
// cancellation_requested resolves through approve/reject, not through a
// direct status update, and terminal states have no successors.
var orderTransitions = map[string][]string{
	constant.OrderStatusPending:    {constant.OrderStatusProcessing},
	constant.OrderStatusProcessing: {constant.OrderStatusShipped},
	constant.OrderStatusShipped:    {constant.OrderStatusCompleted},
}

// CanTransition reports whether an admin status update from -> to is legal
func CanTransition(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (o *Order) IsTerminal() bool {
	return o.Status == constant.OrderStatusCompleted || o.Status == constant.OrderStatusCancelled
}

// CanRequestCancel reports whether the customer may request cancellation:
// any pre-completed state that is not already in the cancellation branch.
func (o *Order) CanRequestCancel() bool {
	switch o.Status {
	case constant.OrderStatusPending, constant.OrderStatusProcessing, constant.OrderStatusShipped:
		return true
	}
	return false
}

// HasCancelRequest reports whether a cancellation request is pending
func (o *Order) HasCancelRequest() bool {
	return o.Status == constant.OrderStatusCancellationRequested
}
