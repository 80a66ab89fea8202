package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "Formatted",
			err:  New(ErrCodeNodeNotFound, "no card %q", "n-7"),
			want: `NODE_NOT_FOUND: no card "n-7"`,
		},
		{
			name: "WithCause",
			err:  Wrap(ErrCodeBackend, errors.New("status 502"), "generate mind map"),
			want: "BACKEND_ERROR: generate mind map: status 502",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "post document")

	if err.Code != ErrCodeNetwork || err.Message != "post document" {
		t.Errorf("got %v %q", err.Code, err.Message)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}

func TestIs(t *testing.T) {
	nested := Wrap(ErrCodeNetwork, New(ErrCodeInvalidInput, "inner"), "outer")

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"Match", New(ErrCodeInvalidInput, "x"), ErrCodeInvalidInput, true},
		{"Mismatch", New(ErrCodeInvalidInput, "x"), ErrCodeNetwork, false},
		{"Outer", nested, ErrCodeNetwork, true},
		{"Inner", nested, ErrCodeInvalidInput, true},
		{"FmtWrapped", fmt.Errorf("upload: %w", New(ErrCodeBackend, "status 500")), ErrCodeBackend, true},
		{"Plain", errors.New("plain"), ErrCodeInvalidInput, false},
		{"Nil", nil, ErrCodeInvalidInput, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCodeIsStdlibTarget(t *testing.T) {
	err := fmt.Errorf("relayout: %w", New(ErrCodeLayoutPrecondition, "cycle"))
	if !errors.Is(err, ErrCodeLayoutPrecondition) {
		t.Error("errors.Is(err, ErrCodeLayoutPrecondition) = false")
	}
	if errors.Is(err, ErrCodeInternal) {
		t.Error("errors.Is matched the wrong code")
	}
	if ErrCodeNetwork.Error() != "NETWORK_ERROR" {
		t.Errorf("Code.Error() = %q", ErrCodeNetwork.Error())
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"Direct", New(ErrCodeInvalidDocument, "x"), ErrCodeInvalidDocument},
		{"Outermost", Wrap(ErrCodeBackend, New(ErrCodeNetwork, "dial"), "upload"), ErrCodeBackend},
		{"FmtWrapped", fmt.Errorf("load: %w", New(ErrCodeInvalidDocument, "x")), ErrCodeInvalidDocument},
		{"Plain", errors.New("plain"), ""},
		{"Nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

type detailError struct{ detail string }

func (e *detailError) Error() string       { return "status 400: " + e.detail }
func (e *detailError) UserMessage() string { return e.detail }

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Error", New(ErrCodeInvalidInput, "label must not be empty"), "label must not be empty"},
		{"Plain", errors.New("plain error"), "plain error"},
		{"Detail", &detailError{detail: "unsupported file type"}, "unsupported file type"},
		{"DetailInError", Wrap(ErrCodeBackend, &detailError{detail: "bad pdf"}, "generate mind map"), "bad pdf"},
		{"Nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
