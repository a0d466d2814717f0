package ops_test

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/avelline/ladle/internal/ops"
	"github.com/avelline/ladle/internal/value"
)

type fakeOp struct {
	name string
}

func (f *fakeOp) Name() string        { return f.name }
func (f *fakeOp) Description() string { return "fake" }
func (f *fakeOp) Args() []ops.ArgSpec { return nil }
func (f *fakeOp) InputType() string   { return value.TypeString }
func (f *fakeOp) OutputType() string  { return value.TypeString }

func (f *fakeOp) Run(ctx context.Context, in value.Value, args ops.Args) (value.Value, error) {
	return in, nil
}

// ─── Registry ───────────────────────────────────────────────────────────

func TestNew_UnknownOperation(t *testing.T) {
	t.Parallel()
	_, err := ops.New("definitely not registered", ops.Deps{})
	if err == nil {
		t.Fatal("expected error for unknown operation")
	}
	if !strings.Contains(err.Error(), "definitely not registered") {
		t.Errorf("error should name the operation: %v", err)
	}
}

func TestRegisterAndNew(t *testing.T) {
	t.Parallel()
	ops.Register("registry test op", func(deps ops.Deps) (ops.Operation, error) {
		return &fakeOp{name: "registry test op"}, nil
	})

	op, err := ops.New("registry test op", ops.Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if op.Name() != "registry test op" {
		t.Errorf("Name = %q", op.Name())
	}
}

func TestNew_ConstructorError(t *testing.T) {
	t.Parallel()
	wantErr := errors.New("constructor failed")
	ops.Register("registry failing op", func(deps ops.Deps) (ops.Operation, error) {
		return nil, wantErr
	})

	_, err := ops.New("registry failing op", ops.Deps{})
	if !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped %v", err, wantErr)
	}
}

func TestList_SortedAndComplete(t *testing.T) {
	t.Parallel()
	ops.Register("registry list op b", func(deps ops.Deps) (ops.Operation, error) {
		return &fakeOp{name: "b"}, nil
	})
	ops.Register("registry list op a", func(deps ops.Deps) (ops.Operation, error) {
		return &fakeOp{name: "a"}, nil
	})

	got := ops.List()
	if !slices.IsSorted(got) {
		t.Errorf("List not sorted: %v", got)
	}
	for _, want := range []string{"registry list op a", "registry list op b"} {
		if !slices.Contains(got, want) {
			t.Errorf("List missing %q: %v", want, got)
		}
	}
}

// ─── Args defaults ──────────────────────────────────────────────────────

func TestArgs_Get(t *testing.T) {
	t.Parallel()
	spec := []ops.ArgSpec{
		{Name: "Mode", Type: ops.ArgChoice, Options: []string{"A", "B"}, Default: "A"},
		{Name: "Pattern", Type: ops.ArgText},
	}

	tests := []struct {
		name string
		args ops.Args
		key  string
		want string
	}{
		{"explicit value", ops.Args{"Mode": "B"}, "Mode", "B"},
		{"missing falls back to default", ops.Args{}, "Mode", "A"},
		{"nil map falls back to default", nil, "Mode", "A"},
		{"empty string is an explicit value", ops.Args{"Mode": ""}, "Mode", ""},
		{"no default means empty", ops.Args{}, "Pattern", ""},
		{"undeclared key", ops.Args{}, "Nope", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.args.Get(spec, tt.key); got != tt.want {
				t.Errorf("Get(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
