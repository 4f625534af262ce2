package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitstats/internal/auth"
	"github.com/2beens/fitstats/internal/gymstats/calendar"
	"github.com/2beens/fitstats/internal/telemetry/tracing"
	"github.com/2beens/fitstats/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=stats_test

type statsService interface {
	WeeklyDuration(ctx context.Context, userID int, r calendar.Range) ([]HoursPoint, error)
	Frequency(ctx context.Context, userID int, r calendar.Range) ([]CountPoint, error)
	MuscleDistribution(ctx context.Context, userID int, r calendar.Range) (Histogram, error)
	WeekdayDistribution(ctx context.Context, userID int, r calendar.Range) (Histogram, error)
	Heatmap(ctx context.Context, userID int, r calendar.Range) ([]HeatmapDay, error)
	Summary(ctx context.Context, userID int, r calendar.Range) (Summary, error)
	Progression(ctx context.Context, userID, exerciseID int, r calendar.Range) (Progression, error)
}

type Handler struct {
	service statsService
}

func NewHandler(service statsService) *Handler {
	return &Handler{
		service: service,
	}
}

type computeFunc func(ctx context.Context, userID int, rng calendar.Range) (any, error)

func (handler *Handler) SetupRoutes(r *mux.Router) {
	statsRouter := r.PathPrefix("/api/stats").Subrouter()

	statsRouter.HandleFunc("/weekly-duration/{userId}", handler.serve("weekly-duration",
		func(ctx context.Context, userID int, rng calendar.Range) (any, error) {
			return handler.service.WeeklyDuration(ctx, userID, rng)
		})).Methods("GET", "OPTIONS").Name("stats-weekly-duration")

	statsRouter.HandleFunc("/frequency/{userId}", handler.serve("frequency",
		func(ctx context.Context, userID int, rng calendar.Range) (any, error) {
			return handler.service.Frequency(ctx, userID, rng)
		})).Methods("GET", "OPTIONS").Name("stats-frequency")

	statsRouter.HandleFunc("/muscle-distribution/{userId}", handler.serve("muscle-distribution",
		func(ctx context.Context, userID int, rng calendar.Range) (any, error) {
			return handler.service.MuscleDistribution(ctx, userID, rng)
		})).Methods("GET", "OPTIONS").Name("stats-muscle-distribution")

	statsRouter.HandleFunc("/weekday-distribution/{userId}", handler.serve("weekday-distribution",
		func(ctx context.Context, userID int, rng calendar.Range) (any, error) {
			return handler.service.WeekdayDistribution(ctx, userID, rng)
		})).Methods("GET", "OPTIONS").Name("stats-weekday-distribution")

	statsRouter.HandleFunc("/heatmap/{userId}", handler.serve("heatmap",
		func(ctx context.Context, userID int, rng calendar.Range) (any, error) {
			return handler.service.Heatmap(ctx, userID, rng)
		})).Methods("GET", "OPTIONS").Name("stats-heatmap")

	statsRouter.HandleFunc("/summary/{userId}", handler.serve("summary",
		func(ctx context.Context, userID int, rng calendar.Range) (any, error) {
			return handler.service.Summary(ctx, userID, rng)
		})).Methods("GET", "OPTIONS").Name("stats-summary")

	statsRouter.HandleFunc("/progression/{userId}/exercise/{exerciseId}", handler.HandleProgression).
		Methods("GET", "OPTIONS").Name("stats-progression")
}

func (handler *Handler) HandleProgression(w http.ResponseWriter, r *http.Request) {
	exerciseID, err := strconv.Atoi(mux.Vars(r)["exerciseId"])
	if err != nil {
		http.Error(w, "error, exercise id NaN", http.StatusBadRequest)
		return
	}

	handler.serve("progression", func(ctx context.Context, userID int, rng calendar.Range) (any, error) {
		return handler.service.Progression(ctx, userID, exerciseID, rng)
	})(w, r)
}

// serve wraps a stats computation with the parts every stats endpoint shares:
// user id parsing, the session ownership check, range parsing and the JSON envelope.
func (handler *Handler) serve(name string, compute computeFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.stats."+name)
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

		rng := calendar.ParseRange(r.URL.Query().Get("range"))
		result, err := compute(ctx, userID, rng)
		if err != nil {
			log.Errorf("stats %s, user %d, range %s: %s", name, userID, rng, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		resultJson, err := json.Marshal(pkg.DataResponse{Data: result})
		if err != nil {
			log.Errorf("stats %s, marshal result: %s", name, err)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, resultJson, http.StatusOK)
	}
}
