package ports

import (
	"context"
	"errors"
)

var (
	// ErrNotConnected is returned by Send before Connect or after Close.
	ErrNotConnected = errors.New("vehicle: not connected")
	// ErrAckTimeout means no reply arrived in time. The vehicle may still
	// have executed the command, so the caller must not blindly re-send it.
	ErrAckTimeout = errors.New("vehicle: no reply before ack timeout")
)

// Contract for the link to a physical vehicle that accepts text commands.
type VehicleDriver interface {
	// Open the link and enter command mode.
	Connect(ctx context.Context) error
	// Send one command and report whether the vehicle acknowledged it.
	// A refusal is (false, nil); a missing reply is ErrAckTimeout; any
	// other error is a transport failure.
	Send(ctx context.Context, command string) (bool, error)
	Close() error
}
