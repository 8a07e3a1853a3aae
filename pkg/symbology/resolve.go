package symbology

import "strings"

// Name returns the display name of id, or "" if id has none.
func Name(id ID) string {
	return names[id]
}

// ByVendorAndAIM resolves a vendor code and an AIM identifier to a
// canonical ID. The AIM identifier may be given as the bare code letter
// ("E"), with its modifier ("E0") or in full ("]E0"). It returns Unknown for
// unregistered pairs.
func ByVendorAndAIM(vendor, aim string) ID {
	aim = strings.TrimPrefix(aim, string(AIMPrefix))
	if len(aim) > 1 {
		aim = aim[:1]
	}
	if id, ok := byIdentifier[identifierPair{vendor, aim}]; ok {
		return id
	}
	return Unknown
}

// ByCodeID resolves the binary code ID of a barcode frame header.
// It returns None for unregistered codes.
func ByCodeID(code byte) ID {
	if id, ok := byCodeID[code]; ok {
		return id
	}
	return None
}

// AIMPrefix is the flag character that opens an AIM identifier.
const AIMPrefix = ']'

// ParsePrefix looks for an identifier prefix at the start of text:
// a one-character vendor code followed by an AIM identifier of the form
// "]" letter modifier. On a registered pair it returns the resolved ID and
// the text with the prefix removed. Otherwise it returns Unknown and text
// unchanged.
func ParsePrefix(text string) (ID, string) {
	// vendor(1) + ']' + letter + modifier
	if len(text) < 4 || text[1] != AIMPrefix {
		return Unknown, text
	}
	id := ByVendorAndAIM(text[:1], text[1:4])
	if id == Unknown {
		return Unknown, text
	}
	return id, text[4:]
}
