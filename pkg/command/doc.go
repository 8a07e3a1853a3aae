// Package command sends menu commands to a scanner and correlates the
// answers.
//
// The OPC wire format carries no request identifier: a response frame
// belongs to the oldest outstanding command. A Channel therefore keeps at
// most one command in flight per device and queues the rest in FIFO order.
//
// # Lifecycle of a Command
//
//  1. Enqueue encodes the Spec and queues it.
//  2. When the channel is idle the command is written and a deadline starts.
//  3. Response data frames accumulate; ACK completes the command, NAK fails
//     it with ErrNak.
//  4. On the first deadline the same bytes are written again; the second
//     deadline fails the command with ErrTimeout.
//  5. Close fails everything still queued or in flight with ErrDisconnected.
//
// Every Call resolves exactly once.
package command
