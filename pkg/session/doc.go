// Package session owns the per-device state of connected scanners.
//
// A Registry maps device IDs to Sessions. Each Session pairs a frame
// decoder with a command channel and publishes scans and battery readings
// on receive channels that never block the routing path:
//
//	reg := session.NewRegistry(session.Config{Logger: logger})
//	s, err := reg.CreateSession("AA:BB:CC:DD:EE:FF", conn)
//	...
//	reg.RouteBytes(s.DeviceID(), chunk) // from the transport read loop
//	resp, err := reg.Submit(ctx, s.DeviceID(), command.New("DDN"))
//	for rec := range s.Barcodes() { ... }
//
// Sessions must be created before bytes are routed for a device, and the
// transport must stop routing before it destroys the session.
package session
