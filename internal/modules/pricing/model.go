// README: Pricing rates per vehicle class and the estimate request/breakdown shapes.
package pricing

import "waybill/internal/types"

type Priority string

const (
	PriorityStandard Priority = "standard"
	PriorityExpress  Priority = "express"
)

// Rate is the tariff for one vehicle class, in minor units.
type Rate struct {
	VehicleType string
	BasePrice   int64
	PerKm       int64
	Currency    string
}

// DefaultRates are used when the rate table has no row for a vehicle type.
var DefaultRates = map[string]Rate{
	"bicycle":    {VehicleType: "bicycle", BasePrice: 50000, PerKm: 10000, Currency: types.DefaultCurrency},
	"motorcycle": {VehicleType: "motorcycle", BasePrice: 80000, PerKm: 15000, Currency: types.DefaultCurrency},
	"tricycle":   {VehicleType: "tricycle", BasePrice: 120000, PerKm: 20000, Currency: types.DefaultCurrency},
	"car":        {VehicleType: "car", BasePrice: 200000, PerKm: 25000, Currency: types.DefaultCurrency},
	"van":        {VehicleType: "van", BasePrice: 350000, PerKm: 35000, Currency: types.DefaultCurrency},
	"truck":      {VehicleType: "truck", BasePrice: 800000, PerKm: 60000, Currency: types.DefaultCurrency},
}

// vehicleRank orders vehicle classes from smallest to largest.
var vehicleRank = map[string]int{
	"bicycle":    1,
	"motorcycle": 2,
	"tricycle":   3,
	"car":        4,
	"van":        5,
	"truck":      6,
}

// KnownVehicle reports whether v is a priced vehicle class.
func KnownVehicle(v string) bool {
	_, ok := vehicleRank[v]
	return ok
}

const (
	// SpecialHandlingFee is charged per special-handling item.
	SpecialHandlingFee int64 = 20000
	// ExpressSurchargePct applies to base price plus distance charge.
	ExpressSurchargePct int64 = 50
)

type Location struct {
	Address string      `json:"address"`
	Point   types.Point `json:"point"`
}

type Request struct {
	Pickup              Location `json:"pickup"`
	Dropoff             Location `json:"dropoff"`
	VehicleRequirements []string `json:"vehicleRequirements"`
	Priority            Priority `json:"priority"`
	SpecialHandling     []string `json:"specialHandling"`
	Fragile             bool     `json:"fragile"`
	WeightKg            float64  `json:"weightKg"`
}

// Breakdown is the pricing result the wizards show on the review step.
type Breakdown struct {
	BasePrice       int64   `json:"basePrice"`
	DistanceCharge  int64   `json:"distanceCharge"`
	PriorityCharge  int64   `json:"priorityCharge"`
	SpecialHandling int64   `json:"specialHandling"`
	Total           int64   `json:"total"`
	Currency        string  `json:"currency"`
	DistanceKm      float64 `json:"distanceKm"`
	VehicleType     string  `json:"vehicleType"`
}

func (b Breakdown) TotalMoney() types.Money {
	return types.Money{Amount: b.Total, Currency: b.Currency}
}
