// internal/protocol/serial/errors.go
package serial

import (
	"errors"
	"os"

	"go.bug.st/serial"
)

// Open failure kinds
const (
	KindNotFound   = "not_found"
	KindBusy       = "busy"
	KindPermission = "permission"
	KindOther      = "other"
)

// ClassifyOpenError maps a port open failure to a coarse kind
func ClassifyOpenError(err error) string {
	if err == nil {
		return ""
	}

	if code, ok := portErrorCode(err); ok {
		switch code {
		case serial.PortNotFound, serial.InvalidSerialPort:
			return KindNotFound
		case serial.PortBusy:
			return KindBusy
		case serial.PermissionDenied:
			return KindPermission
		}
		return KindOther
	}

	switch {
	case errors.Is(err, os.ErrNotExist):
		return KindNotFound
	case errors.Is(err, os.ErrPermission):
		return KindPermission
	}
	return KindOther
}

func portErrorCode(err error) (serial.PortErrorCode, bool) {
	var ptr *serial.PortError
	if errors.As(err, &ptr) && ptr != nil {
		return ptr.Code(), true
	}
	var val serial.PortError
	if errors.As(err, &val) {
		return val.Code(), true
	}
	return 0, false
}
