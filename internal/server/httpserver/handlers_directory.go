package httpserver

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/visittracker/internal/server/models"
	"github.com/dmitrijs2005/visittracker/internal/server/services"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

type notifyRequest struct {
	Phones          []string `json:"phones"`
	ObjectName      string   `json:"object_name"`
	TaskDescription string   `json:"task_description"`
}

type notifyResponse struct {
	Status        string                  `json:"status"`
	Message       string                  `json:"message"`
	Notifications []services.Notification `json:"notifications"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if code, err := decodeJSON(r, &req); err != nil {
		writeError(w, code, err.Error())
		return
	}

	user, token, err := s.svc.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err, "login failed")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: user, Token: token})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Objects.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err, "failed to load stats")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleListObjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Objects.ListObjects(r.Context())
	if err != nil {
		s.fail(w, r, err, "failed to list objects")
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateObject(w http.ResponseWriter, r *http.Request) {
	var o models.Object
	if code, err := decodeJSON(r, &o); err != nil {
		writeError(w, code, err.Error())
		return
	}

	created, err := s.svc.Objects.CreateObject(r.Context(), o)
	if err != nil {
		s.fail(w, r, err, "failed to create object")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateObject(w http.ResponseWriter, r *http.Request) {
	var o models.Object
	if code, err := decodeJSON(r, &o); err != nil {
		writeError(w, code, err.Error())
		return
	}
	o.ID = r.PathValue("id")

	updated, err := s.svc.Objects.UpdateObject(r.Context(), o)
	if err != nil {
		s.fail(w, r, err, "failed to update object")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleObjectVisits(w http.ResponseWriter, r *http.Request) {
	visits, err := s.svc.Objects.ObjectVisits(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err, "failed to load visits")
		return
	}
	writeJSON(w, http.StatusOK, visits)
}

func (s *Server) handleCreateVisit(w http.ResponseWriter, r *http.Request) {
	var v models.Visit
	if code, err := decodeJSON(r, &v); err != nil {
		writeError(w, code, err.Error())
		return
	}
	v.ObjectID = r.PathValue("id")

	created, err := s.svc.Objects.CreateVisit(r.Context(), v)
	if err != nil {
		s.fail(w, r, err, "failed to create visit")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleNotify(w http.ResponseWriter, r *http.Request) {
	var req notifyRequest
	if code, err := decodeJSON(r, &req); err != nil {
		writeError(w, code, err.Error())
		return
	}

	sent, err := s.svc.Notify.Notify(r.Context(), req.Phones, req.ObjectName, req.TaskDescription)
	if err != nil {
		s.fail(w, r, err, "failed to queue notifications")
		return
	}
	writeJSON(w, http.StatusOK, notifyResponse{
		Status:        "success",
		Message:       fmt.Sprintf("SMS уведомления отправлены на %d номеров", len(sent)),
		Notifications: sent,
	})
}
