package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/cache"
	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/capacity-planner/internal/handlers/validator"
	"github.com/kubev2v/capacity-planner/internal/service"
	"github.com/kubev2v/capacity-planner/internal/sizing"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
	"sigs.k8s.io/yaml"
)

const (
	jsonFormat = "json"
	yamlFormat = "yaml"
)

var (
	legalOutputTypes = []string{jsonFormat, yamlFormat}
)

func validateOutput(output string) error {
	if len(output) > 0 && !funk.ContainsString(legalOutputTypes, output) {
		return fmt.Errorf("output format must be one of %s", strings.Join(legalOutputTypes, ", "))
	}
	return nil
}

// printStructured writes v as json or yaml. It returns false for the table
// output so the caller prints its own table.
func printStructured(w io.Writer, v any, output string) (bool, error) {
	var (
		marshalled []byte
		err        error
	)
	switch output {
	case jsonFormat:
		marshalled, err = json.MarshalIndent(v, "", "  ")
	case yamlFormat:
		marshalled, err = yaml.Marshal(v)
	default:
		return false, nil
	}
	if err != nil {
		return true, fmt.Errorf("marshalling %T: %w", v, err)
	}
	_, err = fmt.Fprintf(w, "%s\n", strings.TrimSuffix(string(marshalled), "\n"))
	return true, err
}

// SelectionOptions are the sizing flags shared by analyze and export.
type SelectionOptions struct {
	Clusters      []string
	CpuBasis      string
	CpuGrowth     float64
	MemoryBasis   string
	MemoryGrowth  float64
	StorageBasis  string
	StorageGrowth float64
}

func DefaultSelectionOptions() SelectionOptions {
	defaults := sizing.DefaultSelection()
	return SelectionOptions{
		CpuBasis:      string(defaults.CPU.Basis),
		CpuGrowth:     *defaults.CPU.Growth,
		MemoryBasis:   string(defaults.Memory.Basis),
		MemoryGrowth:  *defaults.Memory.Growth,
		StorageBasis:  string(defaults.Storage.Basis),
		StorageGrowth: *defaults.Storage.Growth,
	}
}

func (o *SelectionOptions) Bind(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&o.Clusters, "clusters", "c", o.Clusters, "Clusters to analyse. Every cluster when empty.")
	fs.StringVar(&o.CpuBasis, "cpu-basis", o.CpuBasis, fmt.Sprintf("vCPU basis. One of: (%s).", joinBases(sizing.CPUBases)))
	fs.Float64Var(&o.CpuGrowth, "cpu-growth", o.CpuGrowth, "vCPU growth in percent")
	fs.StringVar(&o.MemoryBasis, "memory-basis", o.MemoryBasis, fmt.Sprintf("vMemory basis. One of: (%s).", joinBases(sizing.MemoryBases)))
	fs.Float64Var(&o.MemoryGrowth, "memory-growth", o.MemoryGrowth, "vMemory growth in percent")
	fs.StringVar(&o.StorageBasis, "storage-basis", o.StorageBasis, fmt.Sprintf("Storage basis. One of: (%s).", joinBases(sizing.StorageBases)))
	fs.Float64Var(&o.StorageGrowth, "storage-growth", o.StorageGrowth, "Storage growth in percent")
}

func (o *SelectionOptions) form() v1alpha1.Selection {
	return v1alpha1.Selection{
		Clusters:      o.Clusters,
		CpuBasis:      o.CpuBasis,
		CpuGrowth:     &o.CpuGrowth,
		MemoryBasis:   o.MemoryBasis,
		MemoryGrowth:  &o.MemoryGrowth,
		StorageBasis:  o.StorageBasis,
		StorageGrowth: &o.StorageGrowth,
	}
}

// Validate applies the rules of the API to the flags.
func (o *SelectionOptions) Validate() error {
	v := validator.NewValidator()
	v.Register(validator.NewSelectionValidationRules()...)
	return v.Struct(o.form())
}

func (o *SelectionOptions) Selection() sizing.Selection {
	return mappers.SelectionFromApi(o.form())
}

func joinBases(bases []capacity.Basis) string {
	return strings.Join(funk.Map(bases, func(b capacity.Basis) string { return string(b) }).([]string), ", ")
}

// loadWorkbook reads path into a fresh planner service.
func loadWorkbook(ctx context.Context, path string, opts ...service.PlannerOption) (*service.PlannerService, *service.Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading workbook: %w", err)
	}

	planner := service.NewPlannerService(cache.New(1), opts...)
	ds, err := planner.Load(ctx, filepath.Base(path), content)
	if err != nil {
		return nil, nil, err
	}
	return planner, ds, nil
}
