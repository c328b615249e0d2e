package protocol

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsKnownCode(t *testing.T) {
	cases := []string{
		"",
		ErrProtoBadRequest,
		ErrNotConnected,
		ErrDisconnected,
		ErrBadRequest,
		ErrTimeout,
		ErrNoPath,
		ErrNoContainer,
		ErrNoWindow,
		ErrNoItem,
		ErrNoOffer,
		ErrInvalidTarget,
		ErrInterrupted,
		ErrInternal,
	}
	for _, c := range cases {
		if !IsKnownCode(c) {
			t.Fatalf("expected known code: %q", c)
		}
	}
	if IsKnownCode("E_NOT_DEFINED") {
		t.Fatalf("expected unknown code rejected")
	}
}

func TestAckErr(t *testing.T) {
	if err := (AckMsg{Accepted: true}).Err(); err != nil {
		t.Fatalf("accepted ack: %v", err)
	}

	err := AckMsg{AckFor: "A1", Code: ErrNoContainer, Message: "no chest at [1, 2, 3]"}.Err()
	if err == nil {
		t.Fatalf("expected error for rejected ack")
	}
	if err.Error() != "E_NO_CONTAINER: no chest at [1, 2, 3]" {
		t.Fatalf("message: %q", err.Error())
	}
	wrapped := fmt.Errorf("open: %w", err)
	if !errors.Is(wrapped, &CodeError{Code: ErrNoContainer}) {
		t.Fatalf("expected errors.Is to match the code")
	}
	if errors.Is(wrapped, &CodeError{Code: ErrTimeout}) {
		t.Fatalf("unexpected match on another code")
	}

	var ce *CodeError
	if !errors.As(AckMsg{}.Err(), &ce) || ce.Code != ErrInternal {
		t.Fatalf("empty code should default to %s, got %v", ErrInternal, ce)
	}
}
