package v1alpha1

import (
	"net/http"

	"github.com/kubev2v/capacity-planner/api/v1alpha1"
	"github.com/kubev2v/capacity-planner/internal/handlers/v1alpha1/mappers"
	"github.com/kubev2v/capacity-planner/pkg/version"
)

// (GET /api/v1/info)
func (h *ServiceHandler) GetInfo(w http.ResponseWriter, r *http.Request) {
	versionInfo := version.Get()

	reply(w, r, http.StatusOK, v1alpha1.Info{
		GitCommit:   versionInfo.GitCommit,
		VersionName: versionInfo.GitVersion,
	})
}

// (GET /api/v1/health)
func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	reply(w, r, http.StatusOK, v1alpha1.Health{
		Status:   "ok",
		Datasets: h.plannerSrv.Stats().Entries,
	})
}

// (GET /api/v1/bases)
func (h *ServiceHandler) ListBases(w http.ResponseWriter, r *http.Request) {
	reply(w, r, http.StatusOK, mappers.BasesToApi(h.plannerSrv.Resources()))
}
