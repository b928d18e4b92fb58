package httpserver

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/visittracker/internal/common"
	"github.com/dmitrijs2005/visittracker/internal/server/models"
)

type syncRequest struct {
	Action  string          `json:"action"`
	Objects []models.Object `json:"objects"`
	Users   []models.User   `json:"users"`
}

type syncResponse struct {
	Status         string        `json:"status"`
	Message        string        `json:"message"`
	UploadedPhotos int           `json:"uploaded_photos"`
	FailedPhotos   int           `json:"failed_photos"`
	Users          []models.User `json:"users"`
}

type pullResponse struct {
	Status string           `json:"status"`
	Data   *models.Snapshot `json:"data"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": common.ServiceName})
}

func (s *Server) handlePull(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Sync.Pull(r.Context())
	if err != nil {
		s.fail(w, r, err, "failed to load data")
		return
	}
	writeJSON(w, http.StatusOK, pullResponse{Status: "success", Data: snap})
}

func (s *Server) handlePush(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if code, err := decodeJSON(r, &req); err != nil {
		writeError(w, code, err.Error())
		return
	}
	if req.Action != common.SyncAction {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("%v: %q", common.ErrUnknownAction, req.Action))
		return
	}

	sum, err := s.svc.Sync.Reconcile(r.Context(), req.Objects, req.Users)
	if err != nil {
		s.fail(w, r, err, "sync failed")
		return
	}

	users := sum.Users
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, syncResponse{
		Status:         "success",
		Message:        fmt.Sprintf("Синхронизировано %d объектов", sum.MergedObjects),
		UploadedPhotos: sum.UploadedMedia,
		FailedPhotos:   sum.FailedMedia,
		Users:          users,
	})
}
