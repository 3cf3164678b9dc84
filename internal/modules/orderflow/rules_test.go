package orderflow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybill/internal/wizard"
)

func strPtr(s string) *string { return &s }

func numPtr(s string) *NumberText {
	n := NumberText(s)
	return &n
}

func validOrderData() OrderData {
	d := NewOrderData()
	d.OrderType = "delivery"
	d.Package.Category = "documents"
	d.Package.Description = "Signed contracts"
	d.Package.Weight = 2
	d.Pickup.Address = "12 Allen Avenue, Ikeja"
	d.Dropoff.Address = "3 Admiralty Way, Lekki"
	d.VehicleRequirements = []string{"motorcycle"}
	d.PaymentMethod = "card"
	return d
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		step   wizard.StepID
		mutate func(d *OrderData)
		want   wizard.FieldErrors
	}{
		{"valid type", StepType, nil, wizard.FieldErrors{}},
		{"missing type", StepType, func(d *OrderData) { d.OrderType = "" }, wizard.FieldErrors{"orderType": MsgOrderType}},
		{"missing category", StepPackage, func(d *OrderData) { d.Package.Category = "" }, wizard.FieldErrors{"package.category": MsgPackageCategory}},
		{"whitespace description", StepPackage, func(d *OrderData) { d.Package.Description = "   " }, wizard.FieldErrors{"package.description": MsgPackageDesc}},
		{"both addresses missing", StepLocations, func(d *OrderData) {
			d.Pickup.Address = ""
			d.Dropoff.Address = "\t"
		}, wizard.FieldErrors{"pickup.address": MsgPickupAddress, "dropoff.address": MsgDropoffAddress}},
		{"no vehicle", StepVehicle, func(d *OrderData) { d.VehicleRequirements = []string{} }, wizard.FieldErrors{"vehicleRequirements": MsgVehicle}},
		{"capacity needs weight", StepVehicle, func(d *OrderData) { d.Package.Weight = 0 }, wizard.FieldErrors{"package.weight": MsgWeightRequired}},
		{"too heavy for bicycle", StepVehicle, func(d *OrderData) {
			d.VehicleRequirements = []string{"bicycle", "van"}
			d.Package.Weight = 11
		}, wizard.FieldErrors{"package.weight": MsgTooHeavy}},
		{"van has no limit", StepVehicle, func(d *OrderData) {
			d.VehicleRequirements = []string{"van"}
			d.Package.Weight = 0
		}, wizard.FieldErrors{}},
		{"unsupported vehicle", StepVehicle, func(d *OrderData) {
			d.VehicleRequirements = []string{"van", "hovercraft"}
		}, wizard.FieldErrors{"vehicleRequirements": MsgUnknownVehicle}},
		{"missing payment", StepPayment, func(d *OrderData) { d.PaymentMethod = "" }, wizard.FieldErrors{"paymentMethod": MsgPaymentMethod}},
		{"review has no rules", StepReview, func(d *OrderData) { *d = NewOrderData() }, wizard.FieldErrors{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := validOrderData()
			if tc.mutate != nil {
				tc.mutate(&d)
			}
			assert.Equal(t, tc.want, Validate(tc.step, d))
		})
	}
}

func TestValidateAll(t *testing.T) {
	assert.True(t, ValidateAll(validOrderData()).Empty())

	errs := ValidateAll(NewOrderData())
	assert.Len(t, errs, 7)
	assert.Equal(t, MsgVehicle, errs["vehicleRequirements"])
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"":          0,
		"12":        12,
		" 4.5 ":     4.5,
		"1,250.5":   1250.5,
		"abc":       0,
		"-3":        0,
		"12kg":      0,
		"NaN":       0,
		"Inf":       0,
		"-Infinity": 0,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseNumber(in), "ParseNumber(%q)", in)
	}
}

func TestPackagePatch_DecodesTextAndNumbers(t *testing.T) {
	var p PackagePatch
	require.NoError(t, json.Unmarshal([]byte(`{"weight":"12.5","value":3000,"dimensions":{"length":40,"width":"x"}}`), &p))

	d := NewOrderData()
	applyPackage(&d, wizard.FieldErrors{}, p)
	assert.Equal(t, 12.5, d.Package.Weight)
	assert.Equal(t, 3000.0, d.Package.Value)
	assert.Equal(t, 40.0, d.Package.Dimensions.Length)
	assert.Equal(t, 0.0, d.Package.Dimensions.Width)
}

func TestDecodePatch(t *testing.T) {
	p, err := DecodePatch("pickup", []byte(`{"address":"12 Allen Avenue"}`))
	require.NoError(t, err)
	lp, ok := p.(LocationPatch)
	require.True(t, ok)
	assert.Equal(t, "12 Allen Avenue", *lp.Address)

	p, err = DecodePatch("package", []byte(`{"weight":"4"}`))
	require.NoError(t, err)
	assert.IsType(t, PackagePatch{}, p)

	_, err = DecodePatch("insurance", []byte(`{}`))
	assert.ErrorIs(t, err, ErrUnknownSection)
	_, err = DecodePatch("type", []byte(`{"orderType":`))
	assert.Error(t, err)
}

func TestApplyPackage_MergesDimensionsTwoLevels(t *testing.T) {
	d := NewOrderData()
	errs := wizard.FieldErrors{}
	applyPackage(&d, errs, PackagePatch{Dimensions: &DimensionsPatch{Length: numPtr("30"), Unit: strPtr("in")}})
	applyPackage(&d, errs, PackagePatch{Dimensions: &DimensionsPatch{Width: numPtr("20")}})

	assert.Equal(t, Dimensions{Length: 30, Width: 20, Unit: "in"}, d.Package.Dimensions)
}

func TestApplyVehicle_NormalizesSelection(t *testing.T) {
	d := NewOrderData()
	errs := wizard.FieldErrors{"vehicleRequirements": MsgVehicle, "package.weight": MsgTooHeavy}
	list := []string{" Van", "van", "", "BICYCLE"}
	applyVehicle(&d, errs, VehiclePatch{VehicleRequirements: &list})

	assert.Equal(t, []string{"van", "bicycle"}, d.VehicleRequirements)
	assert.True(t, errs.Empty())
}

func TestNewReference(t *testing.T) {
	ref := NewReference(fixedNow())
	assert.Regexp(t, `^WB-20261014-[A-HJ-NP-Z2-9]{6}$`, ref)
	assert.Regexp(t, `^\d{6}$`, NewDeliveryToken())
	assert.Len(t, string(newID()), 32)
}
