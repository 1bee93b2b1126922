package v1alpha1

import (
	"github.com/go-chi/chi/v5"
	"github.com/kubev2v/capacity-planner/internal/handlers/validator"
	"github.com/kubev2v/capacity-planner/internal/service"
)

const (
	// uploadField is the multipart field carrying the workbook.
	uploadField = "file"

	// defaultMaxUploadSize bounds the multipart form kept in memory.
	defaultMaxUploadSize = 100 << 20
)

type ServiceHandler struct {
	plannerSrv         *service.PlannerService
	selectionValidator *validator.Validator
	publishValidator   *validator.Validator
	maxUploadSize      int64
}

type HandlerOption func(*ServiceHandler)

func WithMaxUploadSize(size int64) HandlerOption {
	return func(h *ServiceHandler) {
		if size > 0 {
			h.maxUploadSize = size
		}
	}
}

func NewServiceHandler(plannerSrv *service.PlannerService, opts ...HandlerOption) *ServiceHandler {
	selectionValidator := validator.NewValidator()
	selectionValidator.Register(validator.NewSelectionValidationRules()...)

	formats := make([]string, 0, len(plannerSrv.Formats()))
	for _, f := range plannerSrv.Formats() {
		formats = append(formats, string(f))
	}
	publishValidator := validator.NewValidator()
	publishValidator.Register(validator.NewPublishValidationRules(formats...)...)

	h := &ServiceHandler{
		plannerSrv:         plannerSrv,
		selectionValidator: selectionValidator,
		publishValidator:   publishValidator,
		maxUploadSize:      defaultMaxUploadSize,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes mounts the API under /api/v1.
func (h *ServiceHandler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/info", h.GetInfo)
		r.Get("/bases", h.ListBases)
		r.Post("/datasets", h.UploadDataset)
		r.Route("/datasets/{id}", func(r chi.Router) {
			r.Get("/", h.GetDataset)
			r.Delete("/", h.DeleteDataset)
			r.Get("/clusters", h.ListClusters)
			r.Post("/analysis", h.Analyze)
			r.Get("/export", h.Export)
			r.Post("/publish", h.Publish)
		})
	})
}
