package protocol

import "fmt"

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"

	// Connection state.
	ErrNotConnected = "E_NOT_CONNECTED"
	ErrDisconnected = "E_DISCONNECTED"

	// Action layer.
	ErrBadRequest    = "E_BAD_REQUEST"
	ErrTimeout       = "E_TIMEOUT"
	ErrNoPath        = "E_NO_PATH"
	ErrNoContainer   = "E_NO_CONTAINER"
	ErrNoWindow      = "E_NO_WINDOW"
	ErrNoItem        = "E_NO_ITEM"
	ErrNoOffer       = "E_NO_OFFER"
	ErrInvalidTarget = "E_INVALID_TARGET"
	ErrInterrupted   = "E_INTERRUPTED"
	ErrInternal      = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrNotConnected:    {},
	ErrDisconnected:    {},
	ErrBadRequest:      {},
	ErrTimeout:         {},
	ErrNoPath:          {},
	ErrNoContainer:     {},
	ErrNoWindow:        {},
	ErrNoItem:          {},
	ErrNoOffer:         {},
	ErrInvalidTarget:   {},
	ErrInterrupted:     {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// CodeError is a rejected action as reported by the bridge.
type CodeError struct {
	Code    string
	Message string
}

func (e *CodeError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is matches another *CodeError with the same code, so callers can test
// errors.Is(err, &CodeError{Code: ErrTimeout}).
func (e *CodeError) Is(target error) bool {
	t, ok := target.(*CodeError)
	return ok && t.Code == e.Code
}
