// Package transport connects byte streams of scanners to a session
// registry.
//
// A scanner reaches the host over a serial line exposed as a stream, most
// often a serial-over-TCP bridge. A Link owns one such stream: it creates
// the device session, pumps every chunk it reads into Router.RouteBytes and
// serializes command writes. When the stream ends the session is destroyed,
// failing any pending commands.
//
// Two ways to obtain streams are provided:
//   - Server accepts bridges that dial in; each connection becomes a Link.
//   - Run dials a bridge and redials with exponential backoff whenever the
//     link drops.
package transport
