// README: Section patches applied to the order form; nested sections merge two levels deep.
package orderflow

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"waybill/internal/modules/pricing"
	"waybill/internal/types"
	"waybill/internal/wizard"
)

// NumberText is a numeric form field. It accepts a JSON number or the raw text
// the user typed.
type NumberText string

func (n *NumberText) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = NumberText(s)
		return nil
	}
	if string(b) == "null" {
		*n = ""
		return nil
	}
	*n = NumberText(b)
	return nil
}

// ParseNumber coerces text input; unparsable, non-finite or negative input becomes 0.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

type TypePatch struct {
	OrderType   *string           `json:"orderType"`
	Priority    *pricing.Priority `json:"priority"`
	ScheduledAt *time.Time        `json:"scheduledAt"`
}

type DimensionsPatch struct {
	Length *NumberText `json:"length"`
	Width  *NumberText `json:"width"`
	Height *NumberText `json:"height"`
	Unit   *string     `json:"unit"`
}

type PackagePatch struct {
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Weight      *NumberText      `json:"weight"`
	Value       *NumberText      `json:"value"`
	Fragile     *bool            `json:"fragile"`
	Dimensions  *DimensionsPatch `json:"dimensions"`
}

type LocationPatch struct {
	Address      *string      `json:"address"`
	Point        *types.Point `json:"point"`
	ContactName  *string      `json:"contactName"`
	ContactPhone *string      `json:"contactPhone"`
	Instructions *string      `json:"instructions"`
}

type VehiclePatch struct {
	VehicleRequirements *[]string `json:"vehicleRequirements"`
	SpecialHandling     *[]string `json:"specialHandling"`
}

type PaymentPatch struct {
	PaymentMethod *string `json:"paymentMethod"`
	Notes         *string `json:"notes"`
}

func applyType(d *OrderData, errs wizard.FieldErrors, p TypePatch) {
	if p.OrderType != nil {
		d.OrderType = *p.OrderType
		errs.Clear("orderType")
	}
	if p.Priority != nil {
		d.Priority = *p.Priority
	}
	if p.ScheduledAt != nil {
		t := *p.ScheduledAt
		d.ScheduledAt = &t
	}
}

func applyPackage(d *OrderData, errs wizard.FieldErrors, p PackagePatch) {
	pkg := &d.Package
	if p.Category != nil {
		pkg.Category = *p.Category
		errs.ClearField("package", "category")
	}
	if p.Description != nil {
		pkg.Description = *p.Description
		errs.ClearField("package", "description")
	}
	if p.Weight != nil {
		pkg.Weight = ParseNumber(string(*p.Weight))
		errs.ClearField("package", "weight")
	}
	if p.Value != nil {
		pkg.Value = ParseNumber(string(*p.Value))
		errs.ClearField("package", "value")
	}
	if p.Fragile != nil {
		pkg.Fragile = *p.Fragile
	}
	if dp := p.Dimensions; dp != nil {
		dim := &pkg.Dimensions
		if dp.Length != nil {
			dim.Length = ParseNumber(string(*dp.Length))
		}
		if dp.Width != nil {
			dim.Width = ParseNumber(string(*dp.Width))
		}
		if dp.Height != nil {
			dim.Height = ParseNumber(string(*dp.Height))
		}
		if dp.Unit != nil {
			dim.Unit = *dp.Unit
		}
		errs.ClearField("package", "dimensions")
	}
}

func applyLocation(loc *Location, section string, errs wizard.FieldErrors, p LocationPatch) {
	if p.Address != nil {
		loc.Address = *p.Address
		errs.ClearField(section, "address")
	}
	if p.Point != nil {
		loc.Point = *p.Point
	}
	if p.ContactName != nil {
		loc.ContactName = *p.ContactName
		errs.ClearField(section, "contactName")
	}
	if p.ContactPhone != nil {
		loc.ContactPhone = *p.ContactPhone
		errs.ClearField(section, "contactPhone")
	}
	if p.Instructions != nil {
		loc.Instructions = *p.Instructions
	}
}

func applyVehicle(d *OrderData, errs wizard.FieldErrors, p VehiclePatch) {
	if p.VehicleRequirements != nil {
		d.VehicleRequirements = normalizeList(*p.VehicleRequirements)
		errs.Clear("vehicleRequirements")
		// capacity depends on the selection
		errs.ClearField("package", "weight")
	}
	if p.SpecialHandling != nil {
		d.SpecialHandling = normalizeList(*p.SpecialHandling)
	}
}

func applyPayment(d *OrderData, errs wizard.FieldErrors, p PaymentPatch) {
	if p.PaymentMethod != nil {
		d.PaymentMethod = *p.PaymentMethod
		errs.Clear("paymentMethod")
	}
	if p.Notes != nil {
		d.Notes = *p.Notes
	}
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// DecodePatch decodes a raw section body into the patch type Update expects.
func DecodePatch(section string, raw []byte) (any, error) {
	switch section {
	case "type":
		return decodeAs[TypePatch](raw)
	case "package":
		return decodeAs[PackagePatch](raw)
	case "pickup", "dropoff":
		return decodeAs[LocationPatch](raw)
	case "vehicle":
		return decodeAs[VehiclePatch](raw)
	case "payment":
		return decodeAs[PaymentPatch](raw)
	default:
		return nil, ErrUnknownSection
	}
}

func decodeAs[T any](raw []byte) (any, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
