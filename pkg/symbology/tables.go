package symbology

var names = map[ID]string{
	EAN8:                  "EAN-8",
	EAN13:                 "EAN-13",
	Discrete2of5:          "Industrial 2 of 5",
	Matrix2of5:            "Matrix 2 of 5",
	Interleaved2of5:       "Interleaved 2 of 5",
	Codabar:               "Codabar",
	Code93:                "Code 93",
	Code128:               "Code 128",
	UPCA:                  "UPC-A",
	UPCE:                  "UPC-E",
	GS1Databar14:          "GS1 Databar-14",
	GS1DatabarLimited:     "GS1 DataBar Limited",
	GS1DatabarExpanded:    "GS1 DataBar Expanded",
	PDF417:                "PDF417",
	TriOptic:              "Tri-Optic",
	Code32:                "Code 32",
	MicroPDF417:           "MicroPDF417",
	QRCode:                "QR Code",
	Aztec:                 "Aztec",
	PostalPlanet:          "PLANET",
	PostalPostnet:         "POSTNET",
	Postal4State:          "Mailmark4StatePostal",
	PostalRoyalMail:       "UK Postal (Royal Mail)",
	PostalAustralian:      "Australian Postal",
	PostalKIX:             "Netherlands KIX Code",
	PostalJapan:           "Japanese Postal",
	GS1128:                "GS1-128",
	MicroQR:               "Micro QR Code",
	UPCE1:                 "UPC-E1",
	UPCAAddOn2:            "UPC-A + 2",
	UPCEAddOn2:            "UPC-E + 2",
	EAN13AddOn2:           "EAN-13 + 2",
	EAN8AddOn2:            "EAN-8 + 2",
	UPCAAddOn5:            "UPC-A + 5",
	UPCEAddOn5:            "UPC-E + 5",
	EAN13AddOn5:           "EAN-13 + 5",
	EAN8AddOn5:            "EAN-8 + 5",
	ISSN:                  "ISSN",
	ISBN:                  "ISBN",
	UPCE1AddOn2:           "UPC-E1 + 2",
	UPCE1AddOn5:           "UPC-E1 + 5",
	ISBT128:               "ISBT 128",
	Code39FullASCII:       "Code 39 Full ASCII",
	Code39:                "Code 39",
	ItalianPharmaceutical: "Italian Pharmacode",
	CodabarABC:            "ABC Codabar",
	CodabarCX:             "CX Codabar",
	Industrial2of5:        "Industrial 2 of 5",
	SCode:                 "S-Code",
	ChinesePost:           "Chinese Post Matrix 2 of 5",
	IATA:                  "IATA",
	MSIPlessey:            "MSI/Plessey",
	Telepen:               "Telepen",
	UKPlessey:             "UK/Plessey",
	Code11:                "Code 11",
	KoreanPostal:          "Korean Postal Authority code",
	IntelligentMail:       "Intelligent Mail Barcode",
	GS1Databar:            "GS1 DataBar",
	CCA:                   "CC-A",
	CCB:                   "CC-B",
	CCC:                   "CC-C",
	CodablockF:            "Codablock-F",
	DataMatrix:            "DataMatrix",
	ChineseSensible:       "Chinese Sensible code",
	MaxiCode:              "MaxiCode",
	OCR:                   "OCR",
	DotCode:               "DotCode",
}

type identifierPair struct {
	vendor string
	aim    string
}

var byIdentifier = map[identifierPair]ID{
	{"B", "E"}: EAN13,
	{"C", "E"}: UPCA,
	{"A", "E"}: EAN8,
	{"D", "E"}: UPCE,
	{"B", "X"}: ISBN,
	{"V", "A"}: Code39,
	{"R", "F"}: Codabar,
	{"O", "S"}: Discrete2of5,
	{"N", "I"}: Interleaved2of5,
	{"U", "G"}: Code93,
	{"T", "C"}: Code128,
	{"Z", "M"}: MSIPlessey,
	{"P", "R"}: IATA,
	{"a", "P"}: UKPlessey,
	{"d", "B"}: Telepen,
	{"Q", "X"}: Matrix2of5,
	{"g", "X"}: SCode,
	{"V", "X"}: TriOptic,
	{"W", "A"}: Code39FullASCII,
	{"Y", "X"}: ItalianPharmaceutical,
	{"y", "e"}: GS1Databar,
	{"r", "L"}: PDF417,
	{"l", "e"}: CCC,
	{"s", "L"}: MicroPDF417,
	{"m", "e"}: CCA,
	{"n", "e"}: CCB,
	{"b", "H"}: Code11,
	{"c", "X"}: KoreanPostal,
	{"E", "O"}: CodablockF,
	{"L", "E"}: EAN13AddOn2,
	{"F", "E"}: UPCAAddOn2,
	{"J", "E"}: EAN8AddOn2,
	{"H", "E"}: UPCEAddOn2,
	{"M", "E"}: EAN13AddOn5,
	{"G", "E"}: UPCAAddOn5,
	{"K", "E"}: EAN8AddOn5,
	{"I", "E"}: UPCEAddOn5,
	{"u", "Q"}: QRCode,
	{"t", "d"}: DataMatrix,
	{"v", "Q"}: MicroQR,
	{"v", "U"}: MaxiCode,
	{"o", "z"}: Aztec,
	{"?", "X"}: ChineseSensible,
}

var byCodeID = map[byte]ID{
	0x01: EAN13,
	0x02: UPCA,
	0x03: EAN8,
	0x04: UPCE,
	0x05: UPCE1,
	0x06: ISBN,
	0x07: ISSN,
	0x08: ISMN,
	0x09: Code39,
	0x0A: Codabar,
	0x0B: Discrete2of5,
	0x0C: Interleaved2of5,
	0x0D: Code93,
	0x0E: Code128,
	0x0F: MSIPlessey,
	0x10: IATA,
	0x11: UKPlessey,
	0x12: Telepen,
	0x13: Matrix2of5,
	0x14: ChinesePost,
	0x15: CodabarABC,
	0x16: CodabarCX,
	0x17: SCode,
	0x18: TriOptic,
	0x19: Code39FullASCII,
	0x1A: ItalianPharmaceutical,
	0x1C: GS1Databar14,
	0x1D: GS1DatabarLimited,
	0x1E: GS1DatabarExpanded,
	0x1F: PDF417,
	0x21: MicroPDF417,
	0x24: Code11,
	0x26: KoreanPostal,
	0x27: CodablockF,
	0x30: QRCode,
	0x31: DataMatrix,
	0x32: MaxiCode,
	0x33: Aztec,
	0x34: OCR,
	0x35: ChineseSensible,
	0x38: DotCode,
	0x41: EAN13AddOn2,
	0x42: UPCAAddOn2,
	0x43: EAN8AddOn2,
	0x44: UPCEAddOn2,
	0x45: UPCE1AddOn2,
	0x81: EAN13AddOn5,
	0x82: UPCAAddOn5,
	0x83: EAN8AddOn5,
	0x84: UPCEAddOn5,
	0x85: UPCE1AddOn5,
	0xF0: Code39,
	0xF1: PDF417,
	0xF2: Code128,
	0xF3: QRCode,
	0xF4: Aztec,
}
