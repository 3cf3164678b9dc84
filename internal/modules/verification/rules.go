// README: Verification wizard steps and field-level validation for the basic and specific steps.
package verification

import (
	"strings"

	"waybill/internal/wizard"
)

const (
	StepIntro    wizard.StepID = "intro"
	StepBasic    wizard.StepID = "basic"
	StepSpecific wizard.StepID = "specific"
	StepReview   wizard.StepID = "review"
)

var Steps = []wizard.StepDefinition{
	{ID: StepIntro, Title: "Get Verified", Icon: "shield"},
	{ID: StepBasic, Title: "Basic Information", Icon: "user"},
	{ID: StepSpecific, Title: "Vehicle Documents", Icon: "file-text"},
	{ID: StepReview, Title: "Review", Icon: "check-circle"},
}

const (
	MsgIDType         = "Please select an identification type"
	MsgIDNumber       = "Please enter your identification number"
	MsgPassport       = "Please upload a passport photograph"
	MsgState          = "Please select your operational state"
	MsgLGA            = "Please select your operational LGA"
	MsgBankAccount    = "Please add at least one bank account"
	MsgVehicleType    = "Please select a vehicle type"
	MsgBadVehicle     = "Please select a valid vehicle type"
	MsgDateOfBirth    = "Please enter your date of birth as DD/MM/YYYY"
	msgRequiredSuffix = " is required"
)

func DocumentKey(doc string) string { return "specificDocs." + doc }

func ValidateBasic(b BasicInfo) wizard.FieldErrors {
	errs := wizard.FieldErrors{}
	if blank(b.IdentificationType) {
		errs["basic.identificationType"] = MsgIDType
	}
	if blank(b.IdentificationNumber) {
		errs["basic.identificationNumber"] = MsgIDNumber
	}
	if blank(b.PassportPhoto) {
		errs["basic.passportPhoto"] = MsgPassport
	}
	if blank(b.OperationalState) {
		errs["basic.operationalState"] = MsgState
	}
	if blank(b.OperationalLGA) {
		errs["basic.operationalLga"] = MsgLGA
	}
	if len(b.BankAccounts) == 0 {
		errs["basic.bankAccounts"] = MsgBankAccount
	}
	// optional, but a typed date must convert for the record
	if !blank(b.DateOfBirth) && ToISODate(b.DateOfBirth) == "" {
		errs["basic.dateOfBirth"] = MsgDateOfBirth
	}
	return errs
}

// ValidateSpecific checks the documents required for vt; state decides the
// Lagos-only documents.
func ValidateSpecific(vt VehicleType, state string, docs SpecificDocs) wizard.FieldErrors {
	errs := wizard.FieldErrors{}
	if vt == "" {
		errs["vehicleType"] = MsgVehicleType
		return errs
	}
	if !vt.Valid() {
		errs["vehicleType"] = MsgBadVehicle
		return errs
	}
	for _, key := range RequiredDocuments(vt, state) {
		if blank(imageOf(docs, key)) {
			errs[DocumentKey(key)] = DocumentLabel(key) + msgRequiredSuffix
		}
	}
	return errs
}

func BasicComplete(f FormData) bool { return ValidateBasic(f.Basic).Empty() }

func SpecificComplete(f FormData) bool {
	return ValidateSpecific(f.VehicleType, f.Basic.OperationalState, f.Specific).Empty()
}

// Validate is the per-step validator the engine runs.
func Validate(step wizard.StepID, f FormData) wizard.FieldErrors {
	switch step {
	case StepBasic:
		return ValidateBasic(f.Basic)
	case StepSpecific:
		return ValidateSpecific(f.VehicleType, f.Basic.OperationalState, f.Specific)
	}
	return wizard.FieldErrors{}
}

func ValidateAll(f FormData) wizard.FieldErrors {
	errs := ValidateBasic(f.Basic)
	errs.Merge(ValidateSpecific(f.VehicleType, f.Basic.OperationalState, f.Specific))
	return errs
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
