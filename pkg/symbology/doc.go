// Package symbology identifies barcode symbologies reported by OPC scanners.
//
// Scanners identify the symbology of a scan in one of two ways:
//   - a binary code ID in the header of a barcode frame
//   - a textual identifier prefix made of a vendor code and an AIM
//     identifier, when the scanner is configured to prefix scans
//
// Both resolve to a canonical ID, which maps to a display name.
// All lookups are total: unknown keys return a sentinel instead of an
// error, and the record carrying them is still delivered.
package symbology
