// README: Driver verification form data, the server-side verification record, and submission shapes.
package verification

import (
	"time"

	"waybill/internal/modules/session"
	"waybill/internal/types"
)

type VehicleType string

const (
	VehicleBicycle    VehicleType = "bicycle"
	VehicleMotorcycle VehicleType = "motorcycle"
	VehicleTricycle   VehicleType = "tricycle"
	VehicleCar        VehicleType = "car"
	VehicleVan        VehicleType = "van"
	VehicleTruck      VehicleType = "truck"
)

var VehicleTypes = []VehicleType{VehicleBicycle, VehicleMotorcycle, VehicleTricycle, VehicleCar, VehicleVan, VehicleTruck}

func (v VehicleType) Valid() bool {
	_, ok := requirements[v]
	return ok
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Document is a flattened uploaded document; the image URL decides presence.
type Document struct {
	Number     string `json:"number"`
	ImageURL   string `json:"imageUrl"`
	ExpiryDate string `json:"expiryDate"`
}

type PictureSet struct {
	Front    string `json:"front"`
	Rear     string `json:"rear"`
	Side     string `json:"side"`
	Interior string `json:"interior,omitempty"`
}

type BankAccount struct {
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountName   string `json:"accountName"`
}

type BasicInfo struct {
	IdentificationType   string        `json:"identificationType"`
	IdentificationNumber string        `json:"identificationNumber"`
	PassportPhoto        string        `json:"passportPhoto"`
	DateOfBirth          string        `json:"dateOfBirth"`
	OperationalState     string        `json:"operationalState"`
	OperationalLGA       string        `json:"operationalLga"`
	BankAccounts         []BankAccount `json:"bankAccounts"`
}

// SpecificDocs is the flat, vehicle-keyed document bag the wizard edits.
type SpecificDocs struct {
	BackpackEvidence    string     `json:"backpackEvidence,omitempty"`
	BicyclePictures     PictureSet `json:"bicyclePictures"`
	VehiclePictures     PictureSet `json:"vehiclePictures"`
	RidersPermit        Document   `json:"ridersPermit"`
	CommercialLicense   Document   `json:"commercialLicense"`
	ProofOfAddress      Document   `json:"proofOfAddress"`
	ProofOfOwnership    Document   `json:"proofOfOwnership"`
	RoadWorthiness      Document   `json:"roadWorthiness"`
	DriversLicense      Document   `json:"driversLicense"`
	VehicleRegistration Document   `json:"vehicleRegistration"`
	Insurance           Document   `json:"insurance"`
	HackneyPermit       Document   `json:"hackneyPermit"`
	LasdriCard          Document   `json:"lasdriCard"`
	BVN                 Document   `json:"bvn"`
}

type FormData struct {
	Basic       BasicInfo    `json:"basicInfo"`
	VehicleType VehicleType  `json:"vehicleType"`
	Specific    SpecificDocs `json:"specificDocs"`
}

func (f FormData) clone() FormData {
	out := f
	out.Basic.BankAccounts = append([]BankAccount{}, f.Basic.BankAccounts...)
	return out
}

// Image is the server's nested upload object.
type Image struct {
	ImageURL   string     `json:"imageUrl"`
	UploadedAt *time.Time `json:"uploadedAt,omitempty"`
}

// ServerDocument is a document as the verification record stores it; dates are ISO-8601.
type ServerDocument struct {
	Number     string `json:"number,omitempty"`
	Image      *Image `json:"image,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
}

type ServerPictures struct {
	Front    *Image `json:"front,omitempty"`
	Rear     *Image `json:"rear,omitempty"`
	Side     *Image `json:"side,omitempty"`
	Interior *Image `json:"interior,omitempty"`
}

type BasicVerification struct {
	Identification struct {
		Type   string `json:"type"`
		Number string `json:"number"`
	} `json:"identification"`
	PassportPhoto   *Image `json:"passportPhoto,omitempty"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	OperationalArea struct {
		State string `json:"state"`
		LGA   string `json:"lga"`
	} `json:"operationalArea"`
	BankAccounts []BankAccount `json:"bankAccounts"`
}

type SpecificVerification struct {
	BackpackEvidence *Image                    `json:"backpackEvidence,omitempty"`
	BicyclePictures  *ServerPictures           `json:"bicyclePictures,omitempty"`
	VehiclePictures  *ServerPictures           `json:"vehiclePictures,omitempty"`
	Documents        map[string]ServerDocument `json:"documents,omitempty"`
}

// Record is the persisted verification of one driver.
type Record struct {
	DriverID      types.ID             `json:"driverId"`
	OverallStatus Status               `json:"overallStatus"`
	ActiveType    VehicleType          `json:"activeVerificationType,omitempty"`
	Basic         BasicVerification    `json:"basicVerification"`
	Specific      SpecificVerification `json:"specificVerification"`
	SubmittedAt   *time.Time           `json:"submittedAt,omitempty"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// Payload is the submission body.
type Payload struct {
	BasicInfo    BasicInfo    `json:"basicInfo"`
	SpecificDocs SpecificDocs `json:"specificDocs"`
	VehicleType  VehicleType  `json:"vehicleType"`
}

type SubmitResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message,omitempty"`
	Record  *Record `json:"record,omitempty"`
}

const (
	ModalSuccess = "success"
	ModalError   = "error"
)

// StatusModal is the outcome shown after a submission attempt.
type StatusModal struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Retry   bool   `json:"retry"`
}

// Statistics is the delivery summary fetched alongside the record.
type Statistics = session.Statistics
