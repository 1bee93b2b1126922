package v1alpha1

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/capacity-planner/internal/handlers/validator"
	"github.com/kubev2v/capacity-planner/internal/workbook"
)

// (POST /api/v1/datasets)
// The workbook is sent either as the "file" field of a multipart form or as
// the raw request body with the file name in the "name" query parameter.
func (h *ServiceHandler) UploadDataset(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger("dataset_handler", r)

	name, content, err := h.readUpload(r)
	if err != nil {
		fail(w, r, logger, err)
		return
	}
	if !workbook.IsExcelFile(content) {
		fail(w, r, logger, validator.NewErrInvalidRequest("%s is not an xlsx workbook", name))
		return
	}

	ds, err := h.plannerSrv.Load(r.Context(), name, content)
	if err != nil {
		fail(w, r, logger, err)
		return
	}

	status := http.StatusCreated
	if ds.Cached {
		status = http.StatusOK
	}
	logger.Infow("dataset uploaded", "id", ds.ID, "name", ds.Name, "cached", ds.Cached)
	reply(w, r, status, mappers.DatasetToApi(ds))
}

func (h *ServiceHandler) readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType != "multipart/form-data" {
		content, err := io.ReadAll(r.Body)
		if err != nil {
			return "", nil, err
		}
		if len(content) == 0 {
			return "", nil, validator.NewErrInvalidRequest("empty body")
		}
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "workbook.xlsx"
		}
		return filepath.Base(name), content, nil
	}

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, err
		}
		return "", nil, validator.NewErrInvalidRequest("failed to parse multipart form: %s", err)
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return "", nil, validator.NewErrInvalidRequest("missing %q field: %s", uploadField, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
	}
	return filepath.Base(header.Filename), buf.Bytes(), nil
}

// (GET /api/v1/datasets/{id})
func (h *ServiceHandler) GetDataset(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger("dataset_handler", r)

	id, err := datasetID(r)
	if err != nil {
		fail(w, r, logger, err)
		return
	}
	ds, err := h.plannerSrv.Get(r.Context(), id)
	if err != nil {
		fail(w, r, logger, err)
		return
	}
	reply(w, r, http.StatusOK, mappers.DatasetToApi(ds))
}

// (DELETE /api/v1/datasets/{id})
func (h *ServiceHandler) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger("dataset_handler", r)

	id, err := datasetID(r)
	if err != nil {
		fail(w, r, logger, err)
		return
	}
	if err := h.plannerSrv.Forget(r.Context(), id); err != nil {
		fail(w, r, logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// (GET /api/v1/datasets/{id}/clusters)
func (h *ServiceHandler) ListClusters(w http.ResponseWriter, r *http.Request) {
	logger := handlerLogger("dataset_handler", r)

	id, err := datasetID(r)
	if err != nil {
		fail(w, r, logger, err)
		return
	}
	clusters, err := h.plannerSrv.Clusters(r.Context(), id)
	if err != nil {
		fail(w, r, logger, err)
		return
	}
	reply(w, r, http.StatusOK, v1alpha1.ClusterList{Clusters: clusters})
}
