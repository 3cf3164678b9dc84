// README: Order wizard form data, persisted order aggregate, and submission payload.
package orderflow

import (
	"time"

	"waybill/internal/modules/pricing"
	"waybill/internal/types"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

type Dimensions struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

type Package struct {
	Category    string     `json:"category"`
	Description string     `json:"description"`
	Weight      float64    `json:"weight"`
	Value       float64    `json:"value"`
	Fragile     bool       `json:"fragile"`
	Dimensions  Dimensions `json:"dimensions"`
}

type Location struct {
	Address      string      `json:"address"`
	Point        types.Point `json:"point"`
	ContactName  string      `json:"contactName"`
	ContactPhone string      `json:"contactPhone"`
	Instructions string      `json:"instructions"`
}

// OrderData is the wizard's form bag; every step reads and writes a section of it.
type OrderData struct {
	OrderType           string           `json:"orderType"`
	Package             Package          `json:"package"`
	Pickup              Location         `json:"pickup"`
	Dropoff             Location         `json:"dropoff"`
	VehicleRequirements []string         `json:"vehicleRequirements"`
	Priority            pricing.Priority `json:"priority"`
	SpecialHandling     []string         `json:"specialHandling"`
	PaymentMethod       string           `json:"paymentMethod"`
	ScheduledAt         *time.Time       `json:"scheduledAt,omitempty"`
	Notes               string           `json:"notes"`
}

func NewOrderData() OrderData {
	return OrderData{
		Package:             Package{Dimensions: Dimensions{Unit: "cm"}},
		VehicleRequirements: []string{},
		SpecialHandling:     []string{},
		Priority:            pricing.PriorityStandard,
	}
}

func (d OrderData) clone() OrderData {
	out := d
	out.VehicleRequirements = append([]string{}, d.VehicleRequirements...)
	out.SpecialHandling = append([]string{}, d.SpecialHandling...)
	if d.ScheduledAt != nil {
		t := *d.ScheduledAt
		out.ScheduledAt = &t
	}
	return out
}

func (d OrderData) pricingRequest() pricing.Request {
	return pricing.Request{
		Pickup:              pricing.Location{Address: d.Pickup.Address, Point: d.Pickup.Point},
		Dropoff:             pricing.Location{Address: d.Dropoff.Address, Point: d.Dropoff.Point},
		VehicleRequirements: d.VehicleRequirements,
		Priority:            d.Priority,
		SpecialHandling:     d.SpecialHandling,
		Fragile:             d.Package.Fragile,
		WeightKg:            d.Package.Weight,
	}
}

// Metadata describes the device and channel that submitted the order.
type Metadata struct {
	DeviceIP   string `json:"deviceIp"`
	DeviceInfo string `json:"deviceInfo"`
	Channel    string `json:"channel"`
}

// OrderPayload is what the creation endpoint receives.
type OrderPayload struct {
	OrderData
	DraftID        types.ID           `json:"draftId,omitempty"`
	ClientID       types.ID           `json:"clientId"`
	OrderReference string             `json:"orderReference"`
	DeliveryToken  string             `json:"deliveryToken"`
	Status         Status             `json:"status"`
	PriceEstimate  *pricing.Breakdown `json:"priceEstimate,omitempty"`
	Metadata       Metadata           `json:"metadata"`
}

// Order is the persisted aggregate.
type Order struct {
	ID            types.ID
	Reference     string
	ClientID      types.ID
	Status        Status
	DeliveryToken string
	Payload       OrderPayload
	PriceTotal    types.Money
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type CreateResult struct {
	Success bool     `json:"success"`
	OrderID types.ID `json:"orderId"`
	Message string   `json:"message,omitempty"`
}

// SubmitResult tells the client where to go after a successful submission.
type SubmitResult struct {
	OrderID    types.ID `json:"orderId"`
	Reference  string   `json:"orderReference"`
	NextScreen string   `json:"nextScreen"`
}
