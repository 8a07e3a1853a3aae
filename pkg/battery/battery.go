// Package battery decodes battery telemetry reported by OPC scanners.
package battery

import "encoding/binary"

// NotReported is the percentage of a Status whose level byte was absent.
const NotReported = -1

// Status payload layout.
const (
	flagsIndex = 0
	powerIndex = 1
	levelIndex = 3

	minStatusLen = 3
)

// FlagLevelPresent is set in the flags byte when the level byte follows the
// power-state field.
const FlagLevelPresent = 0x02

// Power-state bits.
const (
	PowerPresent  uint16 = 0x0001
	PowerWireless uint16 = 0x0004
	PowerWired    uint16 = 0x0010
	PowerCharging uint16 = 0x0020
	PowerFault    uint16 = 0x1000
)

// Status is the decoded battery state of a scanner.
type Status struct {
	Present          bool
	WirelessCharging bool
	WiredCharging    bool
	Charging         bool
	Fault            bool

	// Percentage is 0..100, or NotReported.
	Percentage int
}

// Unknown returns the status used for missing or malformed payloads.
func Unknown() Status {
	return Status{Percentage: NotReported}
}

// Decode decodes a battery status payload. A payload too short for the
// fields its flags announce yields Unknown().
func Decode(payload []byte) Status {
	if len(payload) < minStatusLen {
		return Unknown()
	}
	flags := payload[flagsIndex]
	levelPresent := flags&FlagLevelPresent != 0
	if levelPresent && len(payload) <= levelIndex {
		return Unknown()
	}

	power := binary.LittleEndian.Uint16(payload[powerIndex:])
	charging := power&PowerCharging != 0
	wired := power&PowerWired != 0

	// A charging bit without a wired source is reported as wireless
	// charging; some cradles never set the wireless bit.
	s := Status{
		Present:          power&PowerPresent != 0,
		WiredCharging:    wired,
		WirelessCharging: power&PowerWireless != 0 || (charging && !wired),
		Charging:         charging,
		Fault:            power&PowerFault != 0,
		Percentage:       NotReported,
	}
	if levelPresent {
		s.Percentage = percentage(payload[levelIndex])
	}
	return s
}

// DecodeLevel decodes the one-byte battery level characteristic.
func DecodeLevel(payload []byte) int {
	if len(payload) == 0 {
		return NotReported
	}
	return percentage(payload[0])
}

func percentage(b byte) int {
	if b > 100 {
		return NotReported
	}
	return int(b)
}
