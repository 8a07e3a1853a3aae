package symbology

import "strconv"

// ID is the canonical symbology identifier.
type ID int

// Sentinel IDs.
const (
	// Unknown is returned for an unregistered vendor/AIM identifier pair.
	Unknown ID = -1

	// None is returned for an unregistered binary code ID.
	None ID = 0
)

// Canonical symbology IDs.
const (
	EAN8 ID = iota + 1
	EAN13
	Discrete2of5
	Matrix2of5
	Interleaved2of5
	Codabar
	Code93
	Code128
	UPCA
	UPCE
	GS1Databar14
	GS1DatabarLimited
	GS1DatabarExpanded
	PDF417
	TriOptic
	Code32
	MicroPDF417
	QRCode
	Aztec
	PostalPlanet
	PostalPostnet
	Postal4State
	PostalRoyalMail
	PostalAustralian
	PostalKIX
	PostalJapan
	GS1128
	MicroQR
	UPCE1
	UPCAAddOn2
	UPCEAddOn2
	EAN13AddOn2
	EAN8AddOn2
	UPCAAddOn5
	UPCEAddOn5
	EAN13AddOn5
	EAN8AddOn5
	ISSN
	ISBN
	UPCE1AddOn2
	UPCE1AddOn5
	ISBT128
	Code39FullASCII
	Code39
	ItalianPharmaceutical
	CodabarABC
	CodabarCX
	Industrial2of5
	SCode
	ChinesePost
	IATA
	MSIPlessey
	Telepen
	UKPlessey
	Code11
	KoreanPostal
	IntelligentMail
	GS1Databar
	CCA
	CCB
	CCC
	CodablockF
	DataMatrix
	ChineseSensible
	MaxiCode
	OCR
	DotCode
	ISMN
)

// String returns the display name, or the numeric value for IDs without one.
func (id ID) String() string {
	if name := Name(id); name != "" {
		return name
	}
	return "symbology(" + strconv.Itoa(int(id)) + ")"
}
