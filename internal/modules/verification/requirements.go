// README: Per-vehicle required document sets and keyed access into SpecificDocs.
package verification

import (
	"errors"
	"strings"
)

var ErrUnknownDocument = errors.New("unknown document key")

const (
	DocBackpackEvidence    = "backpackEvidence"
	DocBicycleFront        = "bicyclePictures.front"
	DocBicycleRear         = "bicyclePictures.rear"
	DocBicycleSide         = "bicyclePictures.side"
	DocVehicleFront        = "vehiclePictures.front"
	DocVehicleRear         = "vehiclePictures.rear"
	DocVehicleSide         = "vehiclePictures.side"
	DocVehicleInterior     = "vehiclePictures.interior"
	DocRidersPermit        = "ridersPermit"
	DocCommercialLicense   = "commercialLicense"
	DocProofOfAddress      = "proofOfAddress"
	DocProofOfOwnership    = "proofOfOwnership"
	DocRoadWorthiness      = "roadWorthiness"
	DocDriversLicense      = "driversLicense"
	DocVehicleRegistration = "vehicleRegistration"
	DocInsurance           = "insurance"
	DocHackneyPermit       = "hackneyPermit"
	DocLasdriCard          = "lasdriCard"
	DocBVN                 = "bvn"
)

var docLabels = map[string]string{
	DocBackpackEvidence:    "Backpack evidence photo",
	DocBicycleFront:        "Front bicycle photo",
	DocBicycleRear:         "Rear bicycle photo",
	DocBicycleSide:         "Side bicycle photo",
	DocVehicleFront:        "Front vehicle photo",
	DocVehicleRear:         "Rear vehicle photo",
	DocVehicleSide:         "Side vehicle photo",
	DocVehicleInterior:     "Interior vehicle photo",
	DocRidersPermit:        "Rider's permit",
	DocCommercialLicense:   "Commercial license",
	DocProofOfAddress:      "Proof of address",
	DocProofOfOwnership:    "Proof of ownership",
	DocRoadWorthiness:      "Road worthiness certificate",
	DocDriversLicense:      "Driver's license",
	DocVehicleRegistration: "Vehicle registration",
	DocInsurance:           "Insurance certificate",
	DocHackneyPermit:       "Hackney permit",
	DocLasdriCard:          "LASDRI card",
	DocBVN:                 "BVN",
}

type requirement struct {
	required []string
	optional []string
	lagos    bool // hackney permit and LASDRI card for Lagos drivers
}

var fourWheel = requirement{
	required: []string{DocVehicleFront, DocVehicleRear, DocVehicleSide, DocVehicleInterior, DocDriversLicense, DocVehicleRegistration, DocInsurance, DocRoadWorthiness},
	optional: []string{DocBVN},
	lagos:    true,
}

var requirements = map[VehicleType]requirement{
	VehicleBicycle: {
		required: []string{DocBackpackEvidence, DocBicycleFront, DocBicycleRear, DocBicycleSide},
	},
	VehicleMotorcycle: {
		required: []string{DocVehicleFront, DocVehicleRear, DocVehicleSide, DocRidersPermit, DocCommercialLicense, DocProofOfAddress, DocProofOfOwnership, DocRoadWorthiness},
		lagos:    true,
	},
	VehicleTricycle: {
		required: []string{DocVehicleFront, DocVehicleRear, DocVehicleSide, DocDriversLicense},
		optional: []string{DocVehicleInterior},
		lagos:    true,
	},
	VehicleCar:   fourWheel,
	VehicleVan:   fourWheel,
	VehicleTruck: fourWheel,
}

// IsLagos reports whether the operational state triggers the Lagos-only documents.
func IsLagos(state string) bool {
	return strings.EqualFold(strings.TrimSpace(state), "lagos")
}

// RequiredDocuments lists the document keys a driver with vt in state must provide.
func RequiredDocuments(vt VehicleType, state string) []string {
	req, ok := requirements[vt]
	if !ok {
		return nil
	}
	out := append([]string{}, req.required...)
	if req.lagos && IsLagos(state) {
		out = append(out, DocHackneyPermit, DocLasdriCard)
	}
	return out
}

// AllowedDocuments is RequiredDocuments plus the optional keys for vt.
func AllowedDocuments(vt VehicleType, state string) []string {
	out := RequiredDocuments(vt, state)
	return append(out, requirements[vt].optional...)
}

func DocumentLabel(key string) string {
	if l, ok := docLabels[key]; ok {
		return l
	}
	return key
}

// imageOf returns the image URL stored under key.
func imageOf(d SpecificDocs, key string) string {
	switch key {
	case DocBackpackEvidence:
		return d.BackpackEvidence
	case DocBicycleFront:
		return d.BicyclePictures.Front
	case DocBicycleRear:
		return d.BicyclePictures.Rear
	case DocBicycleSide:
		return d.BicyclePictures.Side
	case DocVehicleFront:
		return d.VehiclePictures.Front
	case DocVehicleRear:
		return d.VehiclePictures.Rear
	case DocVehicleSide:
		return d.VehiclePictures.Side
	case DocVehicleInterior:
		return d.VehiclePictures.Interior
	}
	if doc := documentRef(&d, key); doc != nil {
		return doc.ImageURL
	}
	return ""
}

func documentRef(d *SpecificDocs, key string) *Document {
	switch key {
	case DocRidersPermit:
		return &d.RidersPermit
	case DocCommercialLicense:
		return &d.CommercialLicense
	case DocProofOfAddress:
		return &d.ProofOfAddress
	case DocProofOfOwnership:
		return &d.ProofOfOwnership
	case DocRoadWorthiness:
		return &d.RoadWorthiness
	case DocDriversLicense:
		return &d.DriversLicense
	case DocVehicleRegistration:
		return &d.VehicleRegistration
	case DocInsurance:
		return &d.Insurance
	case DocHackneyPermit:
		return &d.HackneyPermit
	case DocLasdriCard:
		return &d.LasdriCard
	case DocBVN:
		return &d.BVN
	}
	return nil
}

func pictureRef(d *SpecificDocs, key string) *string {
	switch key {
	case DocBackpackEvidence:
		return &d.BackpackEvidence
	case DocBicycleFront:
		return &d.BicyclePictures.Front
	case DocBicycleRear:
		return &d.BicyclePictures.Rear
	case DocBicycleSide:
		return &d.BicyclePictures.Side
	case DocVehicleFront:
		return &d.VehiclePictures.Front
	case DocVehicleRear:
		return &d.VehiclePictures.Rear
	case DocVehicleSide:
		return &d.VehiclePictures.Side
	case DocVehicleInterior:
		return &d.VehiclePictures.Interior
	}
	return nil
}

// forVehicle keeps only the documents that belong to vt, so the submitted
// shape follows the vehicle class.
func (d SpecificDocs) forVehicle(vt VehicleType, state string) SpecificDocs {
	var out SpecificDocs
	for _, key := range AllowedDocuments(vt, state) {
		if p := pictureRef(&d, key); p != nil {
			*pictureRef(&out, key) = *p
			continue
		}
		if doc := documentRef(&d, key); doc != nil {
			*documentRef(&out, key) = *doc
		}
	}
	return out
}
