// README: Maps a fetched verification record to form data and the step the wizard resumes at.
package verification

import (
	"strings"
	"time"

	"waybill/internal/wizard"
)

const displayDate = "02/01/2006"

// Populate flattens rec into the wizard's form shape. override, when set,
// wins over the record's active verification type. A nil record yields an
// empty form.
func Populate(rec *Record, override VehicleType) FormData {
	f := FormData{Basic: BasicInfo{BankAccounts: []BankAccount{}}}
	if rec != nil {
		b := rec.Basic
		f.Basic = BasicInfo{
			IdentificationType:   b.Identification.Type,
			IdentificationNumber: b.Identification.Number,
			PassportPhoto:        imageURL(b.PassportPhoto),
			DateOfBirth:          ToDisplayDate(b.DateOfBirth),
			OperationalState:     b.OperationalArea.State,
			OperationalLGA:       b.OperationalArea.LGA,
			BankAccounts:         append([]BankAccount{}, b.BankAccounts...),
		}
		f.Specific = flattenSpecific(rec.Specific)
		f.VehicleType = rec.ActiveType
	}
	if override != "" {
		f.VehicleType = override
	}
	return f
}

// ResolveStep picks the resume step for form, which must be the result of
// Populate for the same record.
func ResolveStep(rec *Record, form FormData) wizard.StepID {
	if rec == nil || rec.OverallStatus == StatusPending {
		return StepIntro
	}
	switch {
	case rec.OverallStatus == StatusApproved:
		return StepReview
	case !BasicComplete(form):
		return StepBasic
	case !SpecificComplete(form):
		return StepSpecific
	}
	return StepReview
}

// InitialState populates, then resolves against the populated form.
func InitialState(rec *Record, override VehicleType) (FormData, wizard.StepID) {
	form := Populate(rec, override)
	return form, ResolveStep(rec, form)
}

func flattenSpecific(s SpecificVerification) SpecificDocs {
	var d SpecificDocs
	d.BackpackEvidence = imageURL(s.BackpackEvidence)
	d.BicyclePictures = flattenPictures(s.BicyclePictures)
	d.VehiclePictures = flattenPictures(s.VehiclePictures)
	for key, doc := range s.Documents {
		ref := documentRef(&d, key)
		if ref == nil {
			continue
		}
		*ref = Document{
			Number:     doc.Number,
			ImageURL:   imageURL(doc.Image),
			ExpiryDate: ToDisplayDate(doc.ExpiryDate),
		}
	}
	return d
}

func flattenPictures(p *ServerPictures) PictureSet {
	if p == nil {
		return PictureSet{}
	}
	return PictureSet{
		Front:    imageURL(p.Front),
		Rear:     imageURL(p.Rear),
		Side:     imageURL(p.Side),
		Interior: imageURL(p.Interior),
	}
}

func imageURL(img *Image) string {
	if img == nil {
		return ""
	}
	return img.ImageURL
}

// ToDisplayDate turns an ISO-8601 date or timestamp into DD/MM/YYYY; anything
// unparsable becomes empty.
func ToDisplayDate(iso string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" {
		return ""
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t.Format(displayDate)
		}
	}
	return ""
}

// ToISODate is the inverse of ToDisplayDate for stored records.
func ToISODate(display string) string {
	display = strings.TrimSpace(display)
	if display == "" {
		return ""
	}
	t, err := time.Parse(displayDate, display)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// toRecord builds the stored shape of a submission.
func toRecord(p Payload) (BasicVerification, SpecificVerification) {
	var b BasicVerification
	b.Identification.Type = p.BasicInfo.IdentificationType
	b.Identification.Number = p.BasicInfo.IdentificationNumber
	b.PassportPhoto = image(p.BasicInfo.PassportPhoto)
	b.DateOfBirth = ToISODate(p.BasicInfo.DateOfBirth)
	b.OperationalArea.State = p.BasicInfo.OperationalState
	b.OperationalArea.LGA = p.BasicInfo.OperationalLGA
	b.BankAccounts = append([]BankAccount{}, p.BasicInfo.BankAccounts...)

	docs := p.SpecificDocs
	s := SpecificVerification{
		BackpackEvidence: image(docs.BackpackEvidence),
		BicyclePictures:  pictures(docs.BicyclePictures),
		VehiclePictures:  pictures(docs.VehiclePictures),
		Documents:        map[string]ServerDocument{},
	}
	for key := range docLabels {
		doc := documentRef(&docs, key)
		if doc == nil || (blank(doc.ImageURL) && blank(doc.Number)) {
			continue
		}
		s.Documents[key] = ServerDocument{
			Number:     doc.Number,
			Image:      image(doc.ImageURL),
			ExpiryDate: ToISODate(doc.ExpiryDate),
		}
	}
	return b, s
}

func image(url string) *Image {
	if blank(url) {
		return nil
	}
	return &Image{ImageURL: url}
}

func pictures(p PictureSet) *ServerPictures {
	if p == (PictureSet{}) {
		return nil
	}
	return &ServerPictures{Front: image(p.Front), Rear: image(p.Rear), Side: image(p.Side), Interior: image(p.Interior)}
}
