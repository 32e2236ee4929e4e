// SPDX-License-Identifier: MPL-2.0

package host

import (
	"errors"
	"testing"
)

func TestReplacePolicyIsValid(t *testing.T) {
	t.Parallel()

	for _, p := range []ReplacePolicy{ReplaceAlways, ReplaceNever, ReplaceAsk} {
		if ok, errs := p.IsValid(); !ok || errs != nil {
			t.Errorf("%s.IsValid() = %v, %v", p, ok, errs)
		}
	}

	ok, errs := ReplacePolicy("sometimes").IsValid()
	if ok || len(errs) != 1 {
		t.Fatalf("IsValid() = %v, %v; want false with one error", ok, errs)
	}
	if !errors.Is(errs[0], ErrInvalidReplacePolicy) {
		t.Errorf("error %v does not wrap ErrInvalidReplacePolicy", errs[0])
	}
}

func TestInstructionValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inst    Instruction
		wantErr bool
	}{
		{"copy", CopyInstruction("a.dll", "a.dll"), false},
		{"copy without destination", Instruction{Type: InstructionCopy, Source: "a"}, true},
		{"setmodtype", SetModTypeInstruction("loader"), false},
		{"setmodtype without value", Instruction{Type: InstructionSetModType}, true},
		{"unknown type", Instruction{Type: "delete", Source: "a"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.inst.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidInstruction) {
				t.Errorf("error %v does not wrap ErrInvalidInstruction", err)
			}
		})
	}
}

func TestServicesWithDefaults(t *testing.T) {
	t.Parallel()

	svc := Services{}.WithDefaults()
	if svc.Stat == nil {
		t.Fatal("Stat not defaulted")
	}
	if _, err := svc.Stat(t.TempDir()); err != nil {
		t.Errorf("default Stat: %v", err)
	}
}
