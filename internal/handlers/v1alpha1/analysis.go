package v1alpha1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/capacity-planner/internal/handlers/validator"
	"github.com/kubev2v/capacity-planner/internal/service"
)

// (POST /api/v1/datasets/{id}/analysis)
// An empty body analyses every cluster with the default bases and growth.
func (h *ServiceHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger("analysis_handler", r)

	id, err := datasetID(r)
	if err != nil {
		fail(w, r, logger, err)
		return
	}

	var form v1alpha1.Selection
	if r.ContentLength != 0 {
		if err := render.DecodeJSON(r.Body, &form); err != nil {
			fail(w, r, logger, validator.NewErrInvalidRequest("invalid selection: %s", err))
			return
		}
	}
	if err := h.selectionValidator.Struct(form); err != nil {
		fail(w, r, logger, err)
		return
	}

	analysis, err := h.plannerSrv.Analyze(r.Context(), id, mappers.SelectionFromApi(form))
	if err != nil {
		fail(w, r, logger, err)
		return
	}

	logger.Debugw("analysis done", "id", id, "clusters", analysis.Summary.Clusters)
	reply(w, r, http.StatusOK, mappers.AnalysisToApi(analysis))
}

// (GET /api/v1/datasets/{id}/export)
// The selection is read from the query, the format from the "format"
// parameter which defaults to xlsx.
func (h *ServiceHandler) Export(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger("analysis_handler", r)

	id, err := datasetID(r)
	if err != nil {
		fail(w, r, logger, err)
		return
	}

	form, err := mappers.SelectionFromQuery(r.URL.Query())
	if err != nil {
		fail(w, r, logger, validator.NewErrInvalidRequest("%s", err))
		return
	}
	if err := h.selectionValidator.Struct(form); err != nil {
		fail(w, r, logger, err)
		return
	}

	format := v1alpha1.StringToReportFormat(r.URL.Query().Get("format"))
	artifact, err := h.plannerSrv.Export(r.Context(), id, mappers.SelectionFromApi(form), service.ReportFormat(format))
	if err != nil {
		fail(w, r, logger, err)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(artifact.Content); err != nil {
		logger.Warnw("failed to write export", "error", err, "name", artifact.Name)
	}
}

// (POST /api/v1/datasets/{id}/publish)
func (h *ServiceHandler) Publish(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger("analysis_handler", r)

	id, err := datasetID(r)
	if err != nil {
		fail(w, r, logger, err)
		return
	}

	var form v1alpha1.PublishRequest
	if err := render.DecodeJSON(r.Body, &form); err != nil {
		fail(w, r, logger, validator.NewErrInvalidRequest("invalid publish request: %s", err))
		return
	}
	if err := h.publishValidator.Struct(form); err != nil {
		fail(w, r, logger, err)
		return
	}

	location, err := h.plannerSrv.Publish(r.Context(), id, mappers.SelectionFromApi(form.Selection), service.ReportFormat(form.Format))
	if err != nil {
		fail(w, r, logger, err)
		return
	}

	logger.Infow("report published", "id", id, "location", location)
	reply(w, r, http.StatusCreated, v1alpha1.Publication{Location: location})
}
