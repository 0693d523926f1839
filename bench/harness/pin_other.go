//go:build !linux

package harness

import "errors"

var errPinUnsupported = errors.New("harness: core pinning not supported on this platform")

func pinToCore(int) error { return errPinUnsupported }
