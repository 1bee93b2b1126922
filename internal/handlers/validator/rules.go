package validator

import (
	"github.com/go-playground/validator/v10"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

func registerFn(tag string, fn func(fl validator.FieldLevel) bool) func(v *validator.Validate) {
	return func(v *validator.Validate) {
		_ = v.RegisterValidation(tag, fn)
	}
}

func NewSelectionValidationRules() []ValidationRule {
	return []ValidationRule{
		{
			Rule: registerFn("cpu_basis", basisValidator(sizing.ResourceCPU)),
		},
		{
			Rule: registerFn("memory_basis", basisValidator(sizing.ResourceMemory)),
		},
		{
			Rule: registerFn("storage_basis", basisValidator(sizing.ResourceStorage)),
		},
		{
			Rule: registerFn("growth", growthValidator),
		},
	}
}

// NewPublishValidationRules adds the report format rule to the selection rules.
func NewPublishValidationRules(formats ...string) []ValidationRule {
	return append(NewSelectionValidationRules(), ValidationRule{
		Rule: registerFn("report_format", reportFormatValidator(formats)),
	})
}
