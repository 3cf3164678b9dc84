package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waybill/internal/wizard"
)

const url = "https://cdn.example.com/doc.jpg"

func completeBasic() BasicInfo {
	return BasicInfo{
		IdentificationType:   "nin",
		IdentificationNumber: "12345678901",
		PassportPhoto:        url,
		DateOfBirth:          "04/07/1990",
		OperationalState:     "Oyo",
		OperationalLGA:       "Ibadan North",
		BankAccounts:         []BankAccount{{BankName: "GTBank", AccountNumber: "0123456789", AccountName: "Ada Obi"}},
	}
}

// withAll fills every key in keys.
func withAll(keys []string) SpecificDocs {
	var d SpecificDocs
	for _, k := range keys {
		setImage(&d, k, url)
	}
	return d
}

func setImage(d *SpecificDocs, key, v string) {
	if p := pictureRef(d, key); p != nil {
		*p = v
		return
	}
	documentRef(d, key).ImageURL = v
}

func TestRequiredDocuments_PerVehicleType(t *testing.T) {
	for _, vt := range VehicleTypes {
		for _, state := range []string{"Oyo", " lagos "} {
			t.Run(string(vt)+"/"+state, func(t *testing.T) {
				required := RequiredDocuments(vt, state)
				require.NotEmpty(t, required)

				form := FormData{Basic: completeBasic(), VehicleType: vt, Specific: withAll(required)}
				form.Basic.OperationalState = state
				assert.True(t, SpecificComplete(form), "all documents present")

				for _, missing := range required {
					f := form
					setImage(&f.Specific, missing, "")
					assert.False(t, SpecificComplete(f), "missing %s", missing)
					assert.Contains(t, ValidateSpecific(vt, state, f.Specific), DocumentKey(missing))
				}
			})
		}
	}
}

func TestRequiredDocuments_Sets(t *testing.T) {
	assert.Equal(t, []string{DocBackpackEvidence, DocBicycleFront, DocBicycleRear, DocBicycleSide}, RequiredDocuments(VehicleBicycle, "Lagos"))
	assert.Contains(t, RequiredDocuments(VehicleMotorcycle, "LAGOS"), DocHackneyPermit)
	assert.NotContains(t, RequiredDocuments(VehicleMotorcycle, "Kano"), DocLasdriCard)
	assert.NotContains(t, RequiredDocuments(VehicleTricycle, "Kano"), DocVehicleInterior)
	assert.Contains(t, AllowedDocuments(VehicleTricycle, "Kano"), DocVehicleInterior)
	assert.Contains(t, RequiredDocuments(VehicleTruck, "Kano"), DocVehicleInterior)
	assert.NotContains(t, RequiredDocuments(VehicleVan, "Kano"), DocBVN)
	assert.Contains(t, AllowedDocuments(VehicleVan, "Kano"), DocBVN)
	assert.Nil(t, RequiredDocuments("hovercraft", "Lagos"))
}

func TestSpecificComplete_BicycleScenario(t *testing.T) {
	form := FormData{
		VehicleType: VehicleBicycle,
		Specific: SpecificDocs{
			BackpackEvidence: "url",
			BicyclePictures:  PictureSet{Front: "url", Rear: "url", Side: "url"},
		},
	}
	assert.True(t, SpecificComplete(form))

	form.Specific.BicyclePictures.Side = ""
	assert.False(t, SpecificComplete(form))
}

func TestValidateSpecific_VehicleType(t *testing.T) {
	assert.Equal(t, wizard.FieldErrors{"vehicleType": MsgVehicleType}, ValidateSpecific("", "Lagos", SpecificDocs{}))
	assert.Equal(t, wizard.FieldErrors{"vehicleType": MsgBadVehicle}, ValidateSpecific("hovercraft", "Lagos", SpecificDocs{}))
}

func TestValidateBasic(t *testing.T) {
	assert.True(t, ValidateBasic(completeBasic()).Empty())

	errs := ValidateBasic(BasicInfo{IdentificationType: "  "})
	assert.Equal(t, wizard.FieldErrors{
		"basic.identificationType":   MsgIDType,
		"basic.identificationNumber": MsgIDNumber,
		"basic.passportPhoto":        MsgPassport,
		"basic.operationalState":     MsgState,
		"basic.operationalLga":       MsgLGA,
		"basic.bankAccounts":         MsgBankAccount,
	}, errs)
}

func TestValidateBasic_DateOfBirth(t *testing.T) {
	for _, dob := range []string{"", "04/07/1990"} {
		b := completeBasic()
		b.DateOfBirth = dob
		assert.True(t, ValidateBasic(b).Empty(), dob)
	}
	for _, dob := range []string{"1990-07-04", "31/02/1990", "4 July 1990"} {
		b := completeBasic()
		b.DateOfBirth = dob
		assert.Equal(t, wizard.FieldErrors{"basic.dateOfBirth": MsgDateOfBirth}, ValidateBasic(b), dob)
	}
}

func TestForVehicle_DropsForeignDocuments(t *testing.T) {
	d := withAll([]string{DocBackpackEvidence, DocBicycleFront, DocRidersPermit, DocHackneyPermit})
	out := d.forVehicle(VehicleBicycle, "Lagos")
	assert.Equal(t, url, out.BackpackEvidence)
	assert.Equal(t, url, out.BicyclePictures.Front)
	assert.Empty(t, out.RidersPermit.ImageURL)
	assert.Empty(t, out.HackneyPermit.ImageURL)

	out = d.forVehicle(VehicleMotorcycle, "Lagos")
	assert.Empty(t, out.BackpackEvidence)
	assert.Equal(t, url, out.RidersPermit.ImageURL)
	assert.Equal(t, url, out.HackneyPermit.ImageURL)
}
