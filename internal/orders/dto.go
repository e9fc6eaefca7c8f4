package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anandkrishnan/mealdash-backend/pkg/db/models"
	"github.com/anandkrishnan/mealdash-backend/pkg/enums"
)

// HotelQueueEntry is one row of the operator's active order queue, joined
// with the ordering customer's contact fields.
type HotelQueueEntry struct {
	OrderID       uuid.UUID         `json:"order_id" gorm:"column:order_id"`
	Status        enums.OrderStatus `json:"status" gorm:"column:status"`
	PaymentMode   enums.PaymentMode `json:"payment_mode" gorm:"column:payment_mode"`
	TotalAmount   decimal.Decimal   `json:"total_amount" gorm:"column:total_amount"`
	TotalPeople   int               `json:"total_people" gorm:"column:total_people"`
	ScheduledTime *time.Time        `json:"scheduled_time,omitempty" gorm:"column:scheduled_time"`
	OrderTime     time.Time         `json:"order_time" gorm:"column:order_time"`
	CustomerName  string            `json:"customer_name" gorm:"column:customer_name"`
	CustomerPhone *string           `json:"customer_phone,omitempty" gorm:"column:customer_phone"`
	CustomerID    uuid.UUID         `json:"customer_id" gorm:"column:customer_id"`
}

// LineItemView is the external shape of one order line.
type LineItemView struct {
	ItemName  string          `json:"item_name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// OrderView is the external shape of an order with its lines.
type OrderView struct {
	ID                 uuid.UUID         `json:"id"`
	HotelID            uuid.UUID         `json:"hotel_id"`
	Status             enums.OrderStatus `json:"status"`
	PaymentMode        enums.PaymentMode `json:"payment_mode"`
	TotalPeople        int               `json:"total_people"`
	TotalAmount        decimal.Decimal   `json:"total_amount"`
	ScheduledTime      *time.Time        `json:"scheduled_time,omitempty"`
	PickupCode         *string           `json:"pickup_code,omitempty"`
	PickupCodeImageURL *string           `json:"pickup_code_image_url,omitempty"`
	FeedbackGiven      bool              `json:"feedback_given"`
	IsLate             *bool             `json:"is_late,omitempty"`
	OrderTime          time.Time         `json:"order_time"`
	Items              []LineItemView    `json:"items"`
}

// UserOrderList wraps the customer's paginated order view plus the next cursor.
type UserOrderList struct {
	Orders     []OrderView `json:"orders"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// ToOrderView maps an order row and its preloaded lines to the external shape.
func ToOrderView(order models.Order) OrderView {
	items := make([]LineItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, LineItemView{
			ItemName:  item.ItemName,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		})
	}
	return OrderView{
		ID:                 order.ID,
		HotelID:            order.HotelID,
		Status:             order.Status,
		PaymentMode:        order.PaymentMode,
		TotalPeople:        order.TotalPeople,
		TotalAmount:        order.TotalAmount,
		ScheduledTime:      order.ScheduledTime,
		PickupCode:         order.PickupCode,
		PickupCodeImageURL: order.PickupCodeImageURL,
		FeedbackGiven:      order.FeedbackGiven,
		IsLate:             order.IsLate,
		OrderTime:          order.OrderTime,
		Items:              items,
	}
}
