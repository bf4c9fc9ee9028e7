package app

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/deskops/helpdesk-groups/pkg/app/handlers/groups"
	"github.com/deskops/helpdesk-groups/pkg/model"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const maxBodyBytes = 1 << 20

type listResponse struct {
	Success bool           `json:"success"`
	Groups  []*model.Group `json:"groups"`
}

type groupResponse struct {
	Success bool         `json:"success"`
	Error   *string      `json:"error"`
	Group   *model.Group `json:"group"`
}

type statusResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// GroupsAPI serves the JSON group endpoints used by the helpdesk front end.
type GroupsAPI struct {
	handler *groups.GroupHandler
	logger  *zerolog.Logger
}

func NewGroupsAPI(logger *zerolog.Logger, handler *groups.GroupHandler) *GroupsAPI {
	apiLogger := logger.With().Str("component", "groups-api").Logger()

	return &GroupsAPI{
		handler: handler,
		logger:  &apiLogger,
	}
}

func (a *GroupsAPI) Register(r *mux.Router) {
	r.HandleFunc("/groups", a.list).Methods(http.MethodGet)
	r.HandleFunc("/groups", a.delete).Methods(http.MethodDelete)
	r.HandleFunc("/groups/create", a.create).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id}", a.get).Methods(http.MethodGet)
	r.HandleFunc("/groups/{id}", a.update).Methods(http.MethodPut)
	r.HandleFunc("/groups/{id:[^/]*}", a.delete).Methods(http.MethodDelete)
}

func (a *GroupsAPI) list(w http.ResponseWriter, r *http.Request) {
	result, err := a.handler.List(r.Context())
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, statusResponse{Error: err.Error()})
		return
	}

	a.writeJSON(w, http.StatusOK, listResponse{Success: true, Groups: result})
}

func (a *GroupsAPI) get(w http.ResponseWriter, r *http.Request) {
	grp, err := a.handler.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, statusResponse{Error: err.Error()})
		return
	}

	a.writeJSON(w, http.StatusOK, groupResponse{Success: true, Group: grp})
}

func (a *GroupsAPI) create(w http.ResponseWriter, r *http.Request) {
	input, ok := a.decodeInput(w, r)
	if !ok {
		return
	}

	grp, err := a.handler.Create(r.Context(), input)
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, statusResponse{Error: err.Error()})
		return
	}

	a.writeJSON(w, http.StatusOK, groupResponse{Success: true, Group: grp})
}

func (a *GroupsAPI) update(w http.ResponseWriter, r *http.Request) {
	input, ok := a.decodeInput(w, r)
	if !ok {
		return
	}

	grp, err := a.handler.Update(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		a.writeJSON(w, http.StatusBadRequest, statusResponse{Error: err.Error()})
		return
	}

	a.writeJSON(w, http.StatusOK, groupResponse{Success: true, Group: grp})
}

// delete answers 200 for every workflow outcome and reports failures in the body.
// Only a missing id is a 400.
func (a *GroupsAPI) delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if strings.TrimSpace(id) == "" {
		a.writeJSON(w, http.StatusBadRequest, statusResponse{Error: "Invalid Group Id"})
		return
	}

	if err := a.handler.Delete(r.Context(), id); err != nil {
		a.writeJSON(w, http.StatusOK, statusResponse{Error: err.Error()})
		return
	}

	a.writeJSON(w, http.StatusOK, statusResponse{Success: true})
}

func (a *GroupsAPI) decodeInput(w http.ResponseWriter, r *http.Request) (*groups.GroupInput, bool) {
	input := &groups.GroupInput{}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(input); err != nil {
		a.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("invalid request body")
		a.writeJSON(w, http.StatusBadRequest, statusResponse{Error: "Invalid Post Data"})

		return nil, false
	}

	return input, true
}

func (a *GroupsAPI) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Error().Err(err).Msg("failed to encode response")
	}
}
