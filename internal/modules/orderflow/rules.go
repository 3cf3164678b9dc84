// README: Order wizard step sequence and per-step validation rules.
package orderflow

import (
	"strings"

	"waybill/internal/modules/pricing"
	"waybill/internal/wizard"
)

const (
	StepType      wizard.StepID = "type"
	StepPackage   wizard.StepID = "package"
	StepLocations wizard.StepID = "locations"
	StepVehicle   wizard.StepID = "vehicle"
	StepPayment   wizard.StepID = "payment"
	StepReview    wizard.StepID = "review"
)

var Steps = []wizard.StepDefinition{
	{ID: StepType, Title: "Order Type", Icon: "layers"},
	{ID: StepPackage, Title: "Package Details", Icon: "package"},
	{ID: StepLocations, Title: "Pickup & Dropoff", Icon: "map-pin"},
	{ID: StepVehicle, Title: "Vehicle", Icon: "truck"},
	{ID: StepPayment, Title: "Payment", Icon: "credit-card"},
	{ID: StepReview, Title: "Review", Icon: "check-circle"},
}

const (
	MsgOrderType       = "Please select an order type"
	MsgPackageCategory = "Please select a package category"
	MsgPackageDesc     = "Please describe the package"
	MsgPickupAddress   = "Pickup address is required"
	MsgDropoffAddress  = "Dropoff address is required"
	MsgVehicle         = "Please select at least one vehicle type"
	MsgUnknownVehicle  = "Please select a supported vehicle type"
	MsgPaymentMethod   = "Please select a payment method"
	MsgWeightRequired  = "Please enter the package weight"
	MsgTooHeavy        = "Package is too heavy for the selected vehicle"
)

// capacityKg lists vehicle classes with a payload limit; others are unlimited
// for wizard purposes.
var capacityKg = map[string]float64{
	"bicycle":    10,
	"motorcycle": 30,
	"tricycle":   200,
}

func allKnown(vehicles []string) bool {
	for _, v := range vehicles {
		if !pricing.KnownVehicle(v) {
			return false
		}
	}
	return true
}

// Validate returns the errors for step against d. It has no side effects.
func Validate(step wizard.StepID, d OrderData) wizard.FieldErrors {
	errs := wizard.FieldErrors{}
	switch step {
	case StepType:
		if blank(d.OrderType) {
			errs["orderType"] = MsgOrderType
		}
	case StepPackage:
		if blank(d.Package.Category) {
			errs["package.category"] = MsgPackageCategory
		}
		if blank(d.Package.Description) {
			errs["package.description"] = MsgPackageDesc
		}
	case StepLocations:
		if blank(d.Pickup.Address) {
			errs["pickup.address"] = MsgPickupAddress
		}
		if blank(d.Dropoff.Address) {
			errs["dropoff.address"] = MsgDropoffAddress
		}
	case StepVehicle:
		if len(d.VehicleRequirements) == 0 {
			errs["vehicleRequirements"] = MsgVehicle
			break
		}
		if !allKnown(d.VehicleRequirements) {
			errs["vehicleRequirements"] = MsgUnknownVehicle
			break
		}
		if limit, ok := smallestCapacity(d.VehicleRequirements); ok {
			switch {
			case d.Package.Weight <= 0:
				errs["package.weight"] = MsgWeightRequired
			case d.Package.Weight > limit:
				errs["package.weight"] = MsgTooHeavy
			}
		}
	case StepPayment:
		if blank(d.PaymentMethod) {
			errs["paymentMethod"] = MsgPaymentMethod
		}
	}
	return errs
}

// ValidateAll runs every step before review; used as a final gate on submit.
func ValidateAll(d OrderData) wizard.FieldErrors {
	errs := wizard.FieldErrors{}
	for _, s := range Steps {
		errs.Merge(Validate(s.ID, d))
	}
	return errs
}

func smallestCapacity(vehicles []string) (float64, bool) {
	var limit float64
	found := false
	for _, v := range vehicles {
		c, ok := capacityKg[strings.ToLower(strings.TrimSpace(v))]
		if !ok {
			continue
		}
		if !found || c < limit {
			limit, found = c, true
		}
	}
	return limit, found
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
