package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
		msg  string
	}{
		{
			name: "no cause",
			err:  New(ErrCodeInvalidRoot, "found %d original nodes", 2),
			want: "INVALID_ROOT: found 2 original nodes",
			msg:  "found 2 original nodes",
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeParse, errors.New("syntax error in line 3"), "parse %s", "model.dot"),
			want: "PARSE_ERROR: parse model.dot: syntax error in line 3",
			msg:  "parse model.dot",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if got := UserMessage(tt.err); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestWrapChain(t *testing.T) {
	cause := errors.New("no such file")
	err := fmt.Errorf("load: %w", Wrap(ErrCodeFileNotFound, cause, "open model.dot"))

	if !errors.Is(err, cause) {
		t.Error("cause lost in chain")
	}
	if GetCode(err) != ErrCodeFileNotFound {
		t.Errorf("GetCode() = %q", GetCode(err))
	}
	if UserMessage(err) != "open model.dot" {
		t.Errorf("UserMessage() = %q", UserMessage(err))
	}
}

func TestIsAndGetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		is   bool
		get  Code
	}{
		{"match", New(ErrCodeInvalidSplit, "split 4"), ErrCodeInvalidSplit, true, ErrCodeInvalidSplit},
		{"other code", New(ErrCodeInvalidSplit, "split 4"), ErrCodeParse, false, ErrCodeInvalidSplit},
		{"outer code wins", Wrap(ErrCodeLayout, New(ErrCodeInvalidGraph, "cycle"), "layout"), ErrCodeLayout, true, ErrCodeLayout},
		{"plain", errors.New("boom"), ErrCodeInternal, false, ""},
		{"nil", nil, ErrCodeInternal, false, ""},
		{"empty code", errors.New("boom"), "", false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.is {
				t.Errorf("Is() = %v, want %v", got, tt.is)
			}
			if got := GetCode(tt.err); got != tt.get {
				t.Errorf("GetCode() = %q, want %q", got, tt.get)
			}
		})
	}
}

func TestUserMessagePlain(t *testing.T) {
	if got := UserMessage(errors.New("disk full")); got != "disk full" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid root", New(ErrCodeInvalidRoot, "two roots"), 400},
		{"parse", Wrap(ErrCodeParse, errors.New("syntax"), "bad dot"), 400},
		{"session missing", New(ErrCodeSessionNotFound, "gone"), 404},
		{"node missing", New(ErrCodeNodeNotFound, "gone"), 404},
		{"unsupported", New(ErrCodeUnsupported, "pdf"), 501},
		{"plain", errors.New("boom"), 500},
		{"layout", New(ErrCodeLayout, "engine"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}
