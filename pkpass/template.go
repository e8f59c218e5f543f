package pkpass

import (
	"embed"
)

// assets holds the fixed visual template shipped with the binary: the
// icon and logo images copied into every generated archive.
//
//go:embed assets/*.png
var assets embed.FS

// Field is one labeled slot on the pass face.
type Field struct {
	Key   string      `json:"key"`
	Label string      `json:"label,omitempty"`
	Value interface{} `json:"value"`
}

// Barcode encodes the shareable profile URL.
type Barcode struct {
	Message         string `json:"message"`
	Format          string `json:"format"`
	MessageEncoding string `json:"messageEncoding"`
}

// GenericPass carries the stat fields in the slot layout the wallet
// renders: header = tier, primary = display name, secondary = PR
// counts, auxiliary = issue and total counts.
type GenericPass struct {
	HeaderFields    []Field `json:"headerFields"`
	PrimaryFields   []Field `json:"primaryFields"`
	SecondaryFields []Field `json:"secondaryFields"`
	AuxiliaryFields []Field `json:"auxiliaryFields"`
}

// PassDefinition is the pass.json document of a .pkpass archive.
type PassDefinition struct {
	FormatVersion       int         `json:"formatVersion"`
	PassTypeIdentifier  string      `json:"passTypeIdentifier"`
	SerialNumber        string      `json:"serialNumber"`
	TeamIdentifier      string      `json:"teamIdentifier"`
	WebServiceURL       string      `json:"webServiceURL"`
	AuthenticationToken string      `json:"authenticationToken"`
	OrganizationName    string      `json:"organizationName"`
	Description         string      `json:"description"`
	LogoText            string      `json:"logoText"`
	ForegroundColor     string      `json:"foregroundColor"`
	BackgroundColor     string      `json:"backgroundColor"`
	LabelColor          string      `json:"labelColor"`
	Barcodes            []Barcode   `json:"barcodes"`
	Generic             GenericPass `json:"generic"`
}
