package catalog

import (
	"encoding/xml"
)

// Wire representation of one uploaded catalog version. The document structs
// are only an unmarshalling target; buildVersion converts them into the
// immutable domain model and performs all structural checks beyond XML
// well-formedness.
type catalogDocument struct {
	XMLName                               xml.Name          `xml:"catalog"`
	CatalogName                           string            `xml:"catalogName"`
	EffectiveDate                         string            `xml:"effectiveDate"`
	EffectiveDateForExistingSubscriptions string            `xml:"effectiveDateForExistingSubscriptions"`
	Products                              []productDocument `xml:"products>product"`
	Plans                                 []planDocument    `xml:"plans>plan"`
}

type productDocument struct {
	Name     string `xml:"name,attr"`
	Category string `xml:"category"`
}

type planDocument struct {
	Name    string          `xml:"name,attr"`
	Product string          `xml:"product"`
	Phases  []phaseDocument `xml:"phases>phase"`
}

type phaseDocument struct {
	Name      string             `xml:"name,attr"`
	Type      string             `xml:"type,attr"`
	Duration  *durationDocument  `xml:"duration"`
	Recurring *recurringDocument `xml:"recurring"`
}

type durationDocument struct {
	Unit   string `xml:"unit"`
	Number int    `xml:"number"`
}

type recurringDocument struct {
	BillingPeriod  string `xml:"billingPeriod"`
	RecurringPrice string `xml:"recurringPrice"`
}

// parseDocument unmarshals a raw catalog document. Unmarshalling errors are
// surfaced verbatim as schema stage findings.
func parseDocument(raw []byte) (*catalogDocument, error) {
	var doc catalogDocument
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
