package mappers

import (
	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/service"
	"github.com/kubev2v/capacity-planner/internal/sizing"
)

func DatasetToApi(d *service.Dataset) v1alpha1.Dataset {
	return v1alpha1.Dataset{
		Id:       d.ID.String(),
		Name:     d.Name,
		Size:     d.Size,
		Clusters: d.Clusters,
		Vms:      d.VMs,
		Hosts:    d.Hosts,
		Cached:   d.Cached,
		LoadedAt: d.LoadedAt,
	}
}

func RecommendationToApi(r sizing.Recommendation) v1alpha1.Recommendation {
	return v1alpha1.Recommendation{
		Resource:    string(r.Resource),
		Basis:       string(r.Basis),
		BasisLabel:  r.BasisLabel,
		Growth:      r.Growth,
		Unit:        string(r.Unit),
		BasisValue:  r.BasisValue,
		FinalValue:  r.FinalValue,
		GrowthDelta: r.GrowthDelta,
		Savings:     r.Savings,
		Reason:      r.Reason,
		// a sizer that failed leaves the basis empty
		Failed: r.Basis == "",
	}
}

func AnalysisToApi(a *service.Analysis) v1alpha1.Analysis {
	recs := make([]v1alpha1.Recommendation, 0, len(a.Recommendations))
	for _, r := range a.Recommendations {
		recs = append(recs, RecommendationToApi(r))
	}
	return v1alpha1.Analysis{
		DatasetId:       a.ID.String(),
		Name:            a.Name,
		Clusters:        a.Summary.Clusters,
		GeneratedAt:     a.GeneratedAt,
		Summary:         a.Summary,
		Recommendations: recs,
	}
}

func BasesToApi(resources []sizing.Resource) []v1alpha1.ResourceBases {
	defaults := sizing.DefaultSelection()
	res := make([]v1alpha1.ResourceBases, 0, len(resources))
	for _, r := range resources {
		bases := sizing.BasesFor(r)
		names := make([]string, 0, len(bases))
		for _, b := range bases {
			names = append(names, string(b))
		}
		item := v1alpha1.ResourceBases{Resource: string(r), Bases: names}
		if g := defaults.Choice(r).Growth; g != nil {
			item.DefaultGrowth = *g
		}
		res = append(res, item)
	}
	return res
}
