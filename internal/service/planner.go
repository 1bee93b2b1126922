package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kubev2v/capacity-planner/internal/cache"
	"github.com/kubev2v/capacity-planner/internal/capacity"
	"github.com/kubev2v/capacity-planner/internal/sizing"
	"github.com/kubev2v/capacity-planner/internal/sizing/selectors"
	"github.com/kubev2v/capacity-planner/internal/workbook"
	"github.com/kubev2v/capacity-planner/pkg/metrics"
	"go.uber.org/zap"
)

// Dataset describes a loaded workbook.
type Dataset struct {
	ID       cache.Key `json:"id"`
	Name     string    `json:"name"`
	Size     int       `json:"size"`
	Clusters []string  `json:"clusters"`
	VMs      int       `json:"vms"`
	Hosts    int       `json:"hosts"`
	Cached   bool      `json:"cached"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Analysis is the result of sizing a selection of a dataset.
type Analysis struct {
	ID              cache.Key               `json:"id"`
	Name            string                  `json:"name"`
	Selection       sizing.Selection        `json:"selection"`
	Summary         *capacity.Summary       `json:"summary"`
	Recommendations []sizing.Recommendation `json:"recommendations"`
	GeneratedAt     time.Time               `json:"generatedAt"`

	details []capacity.VMDetail
}

// Uploader stores artifacts outside the process.
type Uploader interface {
	Upload(ctx context.Context, name string, content []byte, contentType string) (string, error)
}

// PlannerService loads workbooks into the dataset cache and sizes selections
// of them. Results only depend on the workbook bytes and the selection.
type PlannerService struct {
	cache       *cache.Cache
	engine      *sizing.Engine
	reports     *ReportService
	uploader    Uploader
	eventWriter EventWriter
	now         func() time.Time
}

type PlannerOption func(*PlannerService)

func WithEngine(e *sizing.Engine) PlannerOption {
	return func(s *PlannerService) {
		s.engine = e
	}
}

func WithUploader(u Uploader) PlannerOption {
	return func(s *PlannerService) {
		s.uploader = u
	}
}

func NewPlannerService(c *cache.Cache, opts ...PlannerOption) *PlannerService {
	s := &PlannerService{
		cache:   c,
		engine:  selectors.NewEngine(),
		reports: NewReportService(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load parses and normalizes a workbook. Loading the same bytes again is
// served from the cache.
func (s *PlannerService) Load(ctx context.Context, name string, content []byte) (*Dataset, error) {
	logger := zap.S().Named("planner_service")
	key := cache.KeyOf(content)

	if entry, found := s.cache.Get(key); found {
		metrics.IncreaseWorkbookLoadsTotal(metrics.StateCached)
		logger.Debugw("workbook served from cache", "id", key, "name", name)
		ds := describe(entry, true)
		s.datasetEvent(ctx, ds)
		return ds, nil
	}

	tables, err := workbook.Parse(content)
	if err != nil {
		metrics.IncreaseWorkbookLoadsTotal(metrics.StateFailed)
		if workbook.IsMalformed(err) {
			return nil, NewErrMalformedWorkbook(err)
		}
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}

	dataset, err := capacity.Normalize(tables)
	if err != nil {
		metrics.IncreaseWorkbookLoadsTotal(metrics.StateFailed)
		var inconsistent *capacity.ErrInconsistentDataset
		if errors.As(err, &inconsistent) {
			return nil, NewErrMalformedWorkbook(err)
		}
		return nil, fmt.Errorf("failed to normalize workbook: %w", err)
	}

	entry := &cache.Entry{
		Key:      key,
		Name:     name,
		Size:     len(content),
		Dataset:  dataset,
		LoadedAt: s.now(),
	}
	s.cache.Put(entry)
	metrics.IncreaseWorkbookLoadsTotal(metrics.StateSuccess)
	logger.Infow("workbook loaded", "id", key, "name", name, "vms", len(dataset.VMs), "hosts", len(dataset.Hosts))

	ds := describe(entry, false)
	s.datasetEvent(ctx, ds)
	return ds, nil
}

func describe(e *cache.Entry, cached bool) *Dataset {
	return &Dataset{
		ID:       e.Key,
		Name:     e.Name,
		Size:     e.Size,
		Clusters: e.Dataset.ClusterNames(),
		VMs:      len(e.Dataset.VMs),
		Hosts:    len(e.Dataset.Hosts),
		Cached:   cached,
		LoadedAt: e.LoadedAt,
	}
}

func (s *PlannerService) Get(ctx context.Context, id cache.Key) (*Dataset, error) {
	entry, found := s.cache.Get(id)
	if !found {
		return nil, NewErrDatasetNotFound(id)
	}
	return describe(entry, true), nil
}

// Clusters returns the cluster names a selection can pick from.
func (s *PlannerService) Clusters(ctx context.Context, id cache.Key) ([]string, error) {
	entry, found := s.cache.Get(id)
	if !found {
		return nil, NewErrDatasetNotFound(id)
	}
	return entry.Dataset.ClusterNames(), nil
}

// Resources returns the sized resources in report order.
func (s *PlannerService) Resources() []sizing.Resource {
	return s.engine.Resources()
}

// Formats returns the supported export formats.
func (s *PlannerService) Formats() []ReportFormat {
	return s.reports.Formats()
}

// Stats reports the dataset cache usage.
func (s *PlannerService) Stats() cache.Stats {
	return s.cache.Stats()
}

// Forget drops a dataset from the cache.
func (s *PlannerService) Forget(ctx context.Context, id cache.Key) error {
	if !s.cache.Invalidate(id) {
		return NewErrDatasetNotFound(id)
	}
	zap.S().Named("planner_service").Infow("dataset removed", "id", id)
	return nil
}

// Analyze filters the dataset to the selected clusters, aggregates it and
// sizes every resource with the selection's basis and growth.
func (s *PlannerService) Analyze(ctx context.Context, id cache.Key, selection sizing.Selection) (*Analysis, error) {
	entry, found := s.cache.Get(id)
	if !found {
		metrics.IncreaseAnalysesTotal(metrics.StateFailed)
		return nil, NewErrDatasetNotFound(id)
	}

	filtered, err := entry.Dataset.Filter(selection.Clusters)
	if err != nil {
		metrics.IncreaseAnalysesTotal(metrics.StateFailed)
		if errors.Is(err, capacity.ErrEmptySelection) {
			return nil, NewErrEmptySelection(selection.Clusters)
		}
		return nil, err
	}

	summary := capacity.Aggregate(filtered)
	results := s.engine.Run(summary, selection)

	recommendations := make([]sizing.Recommendation, 0, len(results))
	for _, r := range s.engine.Resources() {
		recommendations = append(recommendations, results[r])
	}

	metrics.IncreaseAnalysesTotal(metrics.StateSuccess)
	zap.S().Named("planner_service").Debugw("selection analyzed", "id", id, "clusters", summary.Clusters)

	return &Analysis{
		ID:              id,
		Name:            entry.Name,
		Selection:       selection,
		Summary:         summary,
		Recommendations: recommendations,
		GeneratedAt:     s.now(),
		details:         filtered.Details(),
	}, nil
}

// Artifact is a rendered report.
type Artifact struct {
	Name        string
	ContentType string
	Content     []byte
}

// Export renders the analysis of a selection in the given format.
func (s *PlannerService) Export(ctx context.Context, id cache.Key, selection sizing.Selection, format ReportFormat) (*Artifact, error) {
	analysis, artifact, err := s.export(ctx, id, selection, format)
	if err != nil {
		return nil, err
	}
	s.reportEvent(ctx, analysis, format, artifact, "")
	return artifact, nil
}

func (s *PlannerService) export(ctx context.Context, id cache.Key, selection sizing.Selection, format ReportFormat) (*Analysis, *Artifact, error) {
	renderer, err := s.reports.Renderer(format)
	if err != nil {
		return nil, nil, err
	}

	analysis, err := s.Analyze(ctx, id, selection)
	if err != nil {
		return nil, nil, err
	}

	content, err := s.reports.Render(analysis, renderer)
	if err != nil {
		metrics.IncreaseExportsTotal(string(format), metrics.StateFailed)
		return nil, nil, fmt.Errorf("failed to render %s report: %w", format, err)
	}
	metrics.IncreaseExportsTotal(string(format), metrics.StateSuccess)

	return analysis, &Artifact{
		Name:        reportName(analysis, format),
		ContentType: renderer.ContentType(),
		Content:     content,
	}, nil
}

// Publish exports the analysis and uploads it to the object store. It returns
// the location of the uploaded artifact.
func (s *PlannerService) Publish(ctx context.Context, id cache.Key, selection sizing.Selection, format ReportFormat) (string, error) {
	if s.uploader == nil {
		return "", NewErrUploadNotConfigured()
	}
	analysis, artifact, err := s.export(ctx, id, selection, format)
	if err != nil {
		return "", err
	}
	location, err := s.uploader.Upload(ctx, artifact.Name, artifact.Content, artifact.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", artifact.Name, err)
	}
	zap.S().Named("planner_service").Infow("report published", "id", id, "location", location)
	s.reportEvent(ctx, analysis, format, artifact, location)
	return location, nil
}

func reportName(a *Analysis, format ReportFormat) string {
	id := string(a.ID)
	if len(id) > 12 {
		id = id[:12]
	}
	return fmt.Sprintf("vm-right-sizing-%s-%s.%s", id, a.GeneratedAt.UTC().Format("20060102-150405"), format)
}
