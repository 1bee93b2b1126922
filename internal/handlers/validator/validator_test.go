package validator

import (
	"errors"
	"testing"

	"github.com/kubev2v/capacity-planner/api/v1alpha1"
)

func TestSelectionValidators(t *testing.T) {
	ptr := func(f float64) *float64 { return &f }
	tests := []struct {
		name       string
		form       v1alpha1.Selection
		shouldFail bool
		message    string
	}{
		{
			name:       "validation ok -- defaults",
			form:       v1alpha1.Selection{},
			shouldFail: false,
		},
		{
			name: "validation ok -- every field set",
			form: v1alpha1.Selection{
				Clusters:      []string{"cluster-a", "cluster-b"},
				CpuBasis:      "peak-on",
				CpuGrowth:     ptr(0),
				MemoryBasis:   "p95-on",
				MemoryGrowth:  ptr(100),
				StorageBasis:  "provisioned-all",
				StorageGrowth: ptr(12.5),
			},
			shouldFail: false,
		},
		{
			name:       "validation ko -- storage basis for cpu",
			form:       v1alpha1.Selection{CpuBasis: "consumed-all"},
			message:    "cpu cannot be sized from consumed storage",
			shouldFail: true,
		},
		{
			name:       "validation ko -- usage basis for storage",
			form:       v1alpha1.Selection{StorageBasis: "p95-on"},
			message:    "storage cannot be sized from a percentile",
			shouldFail: true,
		},
		{
			name:       "validation ko -- unknown memory basis",
			form:       v1alpha1.Selection{MemoryBasis: "max"},
			shouldFail: true,
		},
		{
			name:       "validation ko -- provisioned off is not a sizing basis",
			form:       v1alpha1.Selection{MemoryBasis: "provisioned-off"},
			shouldFail: true,
		},
		{
			name:       "validation ko -- negative growth",
			form:       v1alpha1.Selection{CpuGrowth: ptr(-1)},
			shouldFail: true,
		},
		{
			name:       "validation ko -- growth above 100",
			form:       v1alpha1.Selection{StorageGrowth: ptr(100.5)},
			shouldFail: true,
		},
		{
			name:       "validation ko -- empty cluster name",
			form:       v1alpha1.Selection{Clusters: []string{"cluster-a", ""}},
			shouldFail: true,
		},
	}

	v := NewValidator()
	v.Register(NewSelectionValidationRules()...)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.form)
			if (err != nil) != tt.shouldFail {
				t.Errorf("validation: error = %v, shouldValidate = %v", err, tt.shouldFail)
				return
			}
			if err != nil {
				var invalid *ErrInvalidRequest
				if !errors.As(err, &invalid) {
					t.Errorf("expected *ErrInvalidRequest, got %T", err)
				}
			}
		})
	}
}

func TestPublishRequestValidators(t *testing.T) {
	tests := []struct {
		name       string
		form       v1alpha1.PublishRequest
		shouldFail bool
	}{
		{
			name:       "validation ok",
			form:       v1alpha1.PublishRequest{Format: v1alpha1.ReportFormatCSV},
			shouldFail: false,
		},
		{
			name:       "validation ko -- format is missing",
			form:       v1alpha1.PublishRequest{},
			shouldFail: true,
		},
		{
			name:       "validation ko -- unsupported format",
			form:       v1alpha1.PublishRequest{Format: "pdf"},
			shouldFail: true,
		},
		{
			name: "validation ko -- embedded selection is validated",
			form: v1alpha1.PublishRequest{
				Selection: v1alpha1.Selection{CpuBasis: "consumed-on"},
				Format:    v1alpha1.ReportFormatXLSX,
			},
			shouldFail: true,
		},
	}

	v := NewValidator()
	v.Register(NewPublishValidationRules("csv", "xlsx")...)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.form)
			if (err != nil) != tt.shouldFail {
				t.Errorf("validation: error = %v, shouldValidate = %v", err, tt.shouldFail)
			}
		})
	}
}

func TestValidationMessage(t *testing.T) {
	v := NewValidator()
	v.Register(NewSelectionValidationRules()...)

	growth := 150.0
	err := v.Struct(v1alpha1.Selection{CpuBasis: "consumed-all", MemoryGrowth: &growth})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	want := `CpuBasis "consumed-all" is not an allowed basis; MemoryGrowth must be between 0 and 100, got 150`
	if err.Error() != want {
		t.Errorf("message = %q, want %q", err.Error(), want)
	}
}
