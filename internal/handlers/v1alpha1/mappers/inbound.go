package mappers

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

// SelectionFromApi turns a validated selection form into a sizing selection.
// Empty fields stay empty so the sizers apply their defaults.
func SelectionFromApi(form v1alpha1.Selection) sizing.Selection {
	return sizing.Selection{
		Clusters: form.Clusters,
		CPU:      sizing.Choice{Basis: capacity.Basis(form.CpuBasis), Growth: form.CpuGrowth},
		Memory:   sizing.Choice{Basis: capacity.Basis(form.MemoryBasis), Growth: form.MemoryGrowth},
		Storage:  sizing.Choice{Basis: capacity.Basis(form.StorageBasis), Growth: form.StorageGrowth},
	}
}

// SelectionFromQuery reads a selection from query parameters. Clusters are
// given either repeated or comma separated.
func SelectionFromQuery(query url.Values) (v1alpha1.Selection, error) {
	form := v1alpha1.Selection{
		Clusters:     splitList(query["clusters"]),
		CpuBasis:     query.Get("cpuBasis"),
		MemoryBasis:  query.Get("memoryBasis"),
		StorageBasis: query.Get("storageBasis"),
	}

	var err error
	if form.CpuGrowth, err = parseGrowth(query, "cpuGrowth"); err != nil {
		return form, err
	}
	if form.MemoryGrowth, err = parseGrowth(query, "memoryGrowth"); err != nil {
		return form, err
	}
	if form.StorageGrowth, err = parseGrowth(query, "storageGrowth"); err != nil {
		return form, err
	}
	return form, nil
}

func splitList(values []string) []string {
	var res []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				res = append(res, item)
			}
		}
	}
	return res
}

func parseGrowth(query url.Values, name string) (*float64, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %q is not a number", name, raw)
	}
	return &v, nil
}
