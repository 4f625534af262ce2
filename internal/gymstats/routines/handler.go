package routines

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitstats/internal/auth"
	"github.com/2beens/fitstats/internal/telemetry/tracing"
	"github.com/2beens/fitstats/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=routines_mocks_test.go -package=routines_test

type routinesRepo interface {
	Add(ctx context.Context, routine Routine) (*Routine, error)
	Get(ctx context.Context, id int) (*Routine, error)
	List(ctx context.Context, userID int) ([]Routine, error)
	Delete(ctx context.Context, id, userID int) error
}

type Handler struct {
	repo routinesRepo
}

func NewHandler(repo routinesRepo) *Handler {
	return &Handler{
		repo: repo,
	}
}

func (handler *Handler) SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/routines", handler.HandleAdd).Methods("POST", "OPTIONS").Name("new-routine")
	r.HandleFunc("/api/routines/detail/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-routine")
	r.HandleFunc("/api/routines/{userId}", handler.HandleList).Methods("GET", "OPTIONS").Name("list-routines")
	r.HandleFunc("/api/routines/{id}", handler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-routine")
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.add")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	sessionUserID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	var routine Routine
	if err := json.NewDecoder(r.Body).Decode(&routine); err != nil {
		log.Tracef("new routine, unmarshal json params: %s", err)
		http.Error(w, "add routine failed", http.StatusBadRequest)
		return
	}

	if routine.UserID == 0 {
		routine.UserID = sessionUserID
	} else if routine.UserID != sessionUserID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	if err := routine.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	added, err := handler.repo.Add(ctx, routine)
	if pkg.IsForeignKeyViolationError(err) {
		http.Error(w, "unknown exercise", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Errorf("failed to add new routine [%s]: %s", routine.Name, err)
		http.Error(w, "error, failed to add new routine", http.StatusInternalServerError)
		return
	}

	addedJson, err := json.Marshal(pkg.DataResponse{Data: added})
	if err != nil {
		log.Errorf("failed to marshal new routine: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	log.Debugf("new routine added: %d", added.ID)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, addedJson, http.StatusCreated)
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.list")
	defer span.End()

	userID, err := strconv.Atoi(mux.Vars(r)["userId"])
	if err != nil {
		http.Error(w, "error, user id NaN", http.StatusBadRequest)
		return
	}
	if !auth.IsSessionUser(ctx, userID) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	routines, err := handler.repo.List(ctx, userID)
	if err != nil {
		log.Errorf("failed to list routines of user %d: %s", userID, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	routinesJson, err := json.Marshal(pkg.DataResponse{Data: routines})
	if err != nil {
		log.Errorf("failed to marshal routines: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routinesJson, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.get")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	routine, err := handler.repo.Get(ctx, id)
	if errors.Is(err, ErrRoutineNotFound) {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to get routine %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !auth.IsSessionUser(ctx, routine.UserID) {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}

	routineJson, err := json.Marshal(pkg.DataResponse{Data: routine})
	if err != nil {
		log.Errorf("failed to marshal routine: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, routineJson, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.routines.delete")
	defer span.End()

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "error, id NaN", http.StatusBadRequest)
		return
	}

	sessionUserID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	err = handler.repo.Delete(ctx, id, sessionUserID)
	if errors.Is(err, ErrRoutineNotFound) {
		http.Error(w, "routine not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Errorf("failed to delete routine %d: %s", id, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	pkg.WriteResponse(w, pkg.ContentType.JSON, `{"data":{"message":"Routine deleted"}}`, http.StatusOK)
}
