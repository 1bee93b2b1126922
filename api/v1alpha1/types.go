// Package v1alpha1 holds the request and reply documents of the capacity
// planner API.
package v1alpha1

import (
	"time"

	"github.com/kubev2v/capacity-planner/internal/capacity"
)

// Selection picks the clusters and the basis and growth of each resource.
// Empty fields select every cluster and the resource defaults.
type Selection struct {
	Clusters      []string `json:"clusters,omitempty" validate:"omitempty,dive,required,max=255"`
	CpuBasis      string   `json:"cpuBasis,omitempty" validate:"omitempty,cpu_basis"`
	CpuGrowth     *float64 `json:"cpuGrowth,omitempty" validate:"omitempty,growth"`
	MemoryBasis   string   `json:"memoryBasis,omitempty" validate:"omitempty,memory_basis"`
	MemoryGrowth  *float64 `json:"memoryGrowth,omitempty" validate:"omitempty,growth"`
	StorageBasis  string   `json:"storageBasis,omitempty" validate:"omitempty,storage_basis"`
	StorageGrowth *float64 `json:"storageGrowth,omitempty" validate:"omitempty,growth"`
}

type PublishRequest struct {
	Selection
	Format ReportFormat `json:"format" validate:"required,report_format"`
}

type ReportFormat string

const (
	ReportFormatCSV  ReportFormat = "csv"
	ReportFormatXLSX ReportFormat = "xlsx"
)

type Dataset struct {
	Id       string    `json:"id"`
	Name     string    `json:"name"`
	Size     int       `json:"size"`
	Clusters []string  `json:"clusters"`
	Vms      int       `json:"vms"`
	Hosts    int       `json:"hosts"`
	Cached   bool      `json:"cached"`
	LoadedAt time.Time `json:"loadedAt"`
}

type Recommendation struct {
	Resource    string   `json:"resource"`
	Basis       string   `json:"basis,omitempty"`
	BasisLabel  string   `json:"basisLabel,omitempty"`
	Growth      float64  `json:"growth"`
	Unit        string   `json:"unit,omitempty"`
	BasisValue  float64  `json:"basisValue"`
	FinalValue  float64  `json:"finalValue"`
	GrowthDelta float64  `json:"growthDelta"`
	Savings     *float64 `json:"savings,omitempty"`
	Reason      string   `json:"reason,omitempty"`
	Failed      bool     `json:"failed,omitempty"`
}

type Analysis struct {
	DatasetId       string            `json:"datasetId"`
	Name            string            `json:"name"`
	Clusters        []string          `json:"clusters"`
	GeneratedAt     time.Time         `json:"generatedAt"`
	Summary         *capacity.Summary `json:"summary"`
	Recommendations []Recommendation  `json:"recommendations"`
}

type ClusterList struct {
	Clusters []string `json:"clusters"`
}

// ResourceBases lists the bases a resource accepts. The first one is the default.
type ResourceBases struct {
	Resource      string   `json:"resource"`
	Bases         []string `json:"bases"`
	DefaultGrowth float64  `json:"defaultGrowth"`
}

type Publication struct {
	Location string `json:"location"`
}

type Health struct {
	Status   string `json:"status"`
	Datasets int    `json:"datasets"`
}

type Info struct {
	GitCommit   string `json:"gitCommit"`
	VersionName string `json:"versionName"`
}

type Error struct {
	Message   string `json:"message"`
	RequestId string `json:"requestId,omitempty"`
}
