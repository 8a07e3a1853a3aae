// Package wire implements the OPC frame format spoken by Opticon scanners.
//
// A frame on the wire looks like this:
//
//	DLE STX <type> <header> <data> DLE ETX <checksum hi> <checksum lo>
//
// The header length is derived from the type byte: 0 bytes when the top
// three bits are zero, otherwise 2^((type>>5)-1) bytes. Inside a frame a
// literal DLE is doubled. DLE STX restarts a frame, DLE ETX ends it and any
// other DLE sequence is invalid.
//
// The checksum covers the raw bytes from the opening DLE STX through the
// closing DLE ETX. The algorithm is pluggable (ChecksumFunc); CRC16 is
// the default.
//
// # Decoding
//
// Decoder is an incremental parser. Chunks may split or merge frames at any
// byte; state carries across Feed calls. Corrupt input is reported as a
// *FramingError through DecoderConfig.OnError and never stops decoding.
//
// # Frame Types
//
//   - 0x43: menu command, host to scanner (2-byte sequence header)
//   - 0x64: menu command response (ACK, NAK or response data)
//   - 0x82: barcode (8-byte header)
//   - 0xA2: barcode with scan timestamp (16-byte header)
package wire
