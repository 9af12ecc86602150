package handlers

import (
	"encoding/json"
	"labyrinth-server/pkg/api"
	"strings"
	"testing"
)

func TestWithPayload(t *testing.T) {
	called := false
	h := WithPayload(func(ctx Context, p api.MovePayload) (Result, error) {
		called = true
		if p.Dx != 0.5 {
			t.Errorf("Expected dx 0.5, got %v", p.Dx)
		}
		return Result{Msg: "ok"}, nil
	})

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{"Valid", `{"dx":0.5,"dy":0}`, ""},
		{"Broken JSON", `{"dx":`, "invalid payload format"},
		{"Missing payload", ``, "payload is missing"},
		{"Unknown field", `{"dx":0.5,"dz":1}`, "invalid payload format"},
		{"Validator rejects", `{"dx":5,"dy":0}`, "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called = false
			res, err := h(Context{}, json.RawMessage(tt.raw))
			if tt.wantErr == "" {
				if err != nil || res.Msg != "ok" || !called {
					t.Errorf("Expected success, got %v (called=%v)", err, called)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
			if !IsRejected(err) {
				t.Errorf("Payload errors must be rejections, got %v", err)
			}
			if called {
				t.Errorf("Handler must not run on bad payload")
			}
		})
	}
}

func TestWithEmptyPayload(t *testing.T) {
	h := WithEmptyPayload(func(ctx Context) (Result, error) {
		return Result{Resync: true}, nil
	})
	res, err := h(Context{}, json.RawMessage(`garbage`))
	if err != nil || !res.Resync {
		t.Errorf("Empty payload handler must ignore input, got %v %+v", err, res)
	}
}

func TestRequireAdmin(t *testing.T) {
	called := false
	h := RequireAdmin(func(ctx Context, _ json.RawMessage) (Result, error) {
		called = true
		return EmptyResult(), nil
	})

	if _, err := h(Context{}, nil); err != ErrNotAdmin || called {
		t.Errorf("Expected ErrNotAdmin without token, got %v (called=%v)", err, called)
	}
	if _, err := h(Context{Admin: true}, nil); err != nil || !called {
		t.Errorf("Admin command must pass, got %v", err)
	}
}
