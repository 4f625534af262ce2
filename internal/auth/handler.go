package auth

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/fitstats/pkg"
)

type sessionResponse struct {
	UserID int `json:"user_id"`
}

// SetupRoutes registers the session endpoint. The auth middleware has already resolved the user.
func SetupRoutes(r *mux.Router) {
	r.HandleFunc("/api/session", HandleSession).Methods("GET", "OPTIONS").Name("session")
}

func HandleSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no session", http.StatusUnauthorized)
		return
	}

	respJson, err := json.Marshal(pkg.DataResponse{Data: sessionResponse{UserID: userID}})
	if err != nil {
		log.Errorf("failed to marshal session response: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, respJson, http.StatusOK)
}
