package v1alpha1

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/cache"
	"github.com/kubev2v/capacity-planner/internal/handlers/validator"
	"github.com/kubev2v/capacity-planner/internal/service"
	"github.com/kubev2v/capacity-planner/internal/workbook"
	"github.com/kubev2v/capacity-planner/pkg/requestid"
	"go.uber.org/zap"
)

func reply(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func replyError(w http.ResponseWriter, r *http.Request, status int, message string) {
	reply(w, r, status, v1alpha1.Error{Message: message, RequestId: requestid.FromRequest(r)})
}

// statusOf maps service and validation errors to HTTP status codes.
func statusOf(err error) int {
	var (
		malformed     *service.ErrMalformedWorkbook
		notFound      *service.ErrDatasetNotFound
		empty         *service.ErrEmptySelection
		unsupported   *service.ErrUnsupportedFormat
		notConfigured *service.ErrUploadNotConfigured
		invalid       *validator.ErrInvalidRequest
		tooLarge      *http.MaxBytesError
	)

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &malformed), errors.As(err, &unsupported), errors.As(err, &invalid), workbook.IsMalformed(err):
		return http.StatusBadRequest
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &empty):
		return http.StatusUnprocessableEntity
	case errors.As(err, &notConfigured):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and replies with its status. Server errors are logged at
// error level, client errors at debug level.
func fail(w http.ResponseWriter, r *http.Request, logger *zap.SugaredLogger, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Errorw("request failed", "error", err, "status", status)
	} else {
		logger.Debugw("request rejected", "error", err, "status", status)
	}
	replyError(w, r, status, err.Error())
}

func datasetID(r *http.Request) (cache.Key, error) {
	key, err := cache.ParseKey(chi.URLParam(r, "id"))
	if err != nil {
		return "", validator.NewErrInvalidRequest("%s", err)
	}
	return key, nil
}

func handlerLogger(name string, r *http.Request) *zap.SugaredLogger {
	return zap.S().Named(name).With("request_id", requestid.FromRequest(r))
}
