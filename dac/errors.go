package dac

import "fmt"

// This module contains common errors emitted from interfaces and methods in
// this package

type ErrNoDevices struct{}

func (e ErrNoDevices) Error() string { return "no DAC devices found" }

type ErrNotInitialized struct{}

func (e ErrNotInitialized) Error() string { return "dac not initialized" }

type ErrInvalidDevice struct {
	device, count int
}

func (e ErrInvalidDevice) Error() string {
	return fmt.Sprintf("device %v out of range, %v device(s) open", e.device, e.count)
}

type ErrInvalidBackend struct {
	backend string
}

func (e ErrInvalidBackend) Error() string {
	return fmt.Sprintf("invalid backend %s: not one of %s", e.backend, []Backend{TerminalBackend, WindowBackend})
}

type ErrDisplayInterrupt struct{}

func (e ErrDisplayInterrupt) Error() string { return "signal caught" }

type ErrDisplayTooSmall struct {
	height, width int
}

func (e ErrDisplayTooSmall) Error() string {
	return fmt.Sprintf("%vx%v display too small must be %vx%v", e.width, e.height, minDisplayWidth, minDisplayHeight)
}
