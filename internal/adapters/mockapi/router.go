package mockapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// ErrForbidden is returned when a token is used for another user's sessions.
var ErrForbidden = errors.New("token does not belong to this user")

type ctxKey int

const userKey ctxKey = iota

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type createSessionRequest struct {
	Username string `json:"username"`
}

// NewRouter exposes the backend over HTTP. Session and datapoint routes need a
// bearer token from /auth/login.
func NewRouter(b *Backend) *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte("OK")) }).Methods("GET")
	r.HandleFunc("/users", createUserHandler(b)).Methods("POST")
	r.HandleFunc("/auth/login", loginHandler(b)).Methods("POST")

	api := r.NewRoute().Subrouter()
	api.Use(requireToken(b))
	api.HandleFunc("/auth/logout", logoutHandler(b)).Methods("POST")
	api.HandleFunc("/users/{user}/sessions", listSessionsHandler(b)).Methods("GET")
	api.HandleFunc("/sessions", createSessionHandler(b)).Methods("POST")
	api.HandleFunc("/sessions/{id}/datapoints", datapointsHandler(b)).Methods("GET")
	return r
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func requireToken(b *Backend) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearer(r)
			user, ok := b.TokenUser(token)
			if token == "" || !ok {
				jsonError(w, http.StatusUnauthorized, ErrInvalidCredentials)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
		})
	}
}

func bearer(r *http.Request) string {
	return strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
}

// owns reports whether the authenticated user is username. It answers 403 otherwise.
func owns(w http.ResponseWriter, r *http.Request, username string) bool {
	if user, _ := r.Context().Value(userKey).(string); user != username {
		jsonError(w, http.StatusForbidden, ErrForbidden)
		return false
	}
	return true
}

func createUserHandler(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" || req.Password == "" {
			http.Error(w, "username and password are required", http.StatusBadRequest)
			return
		}
		if err := b.Register(req.Username, req.Password); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrUserExists) {
				status = http.StatusConflict
			}
			jsonError(w, status, err)
			return
		}
		jsonResponse(w, http.StatusCreated, map[string]string{"username": req.Username})
	}
}

func loginHandler(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid body", http.StatusBadRequest)
			return
		}
		token, err := b.Authenticate(req.Username, req.Password)
		if err != nil {
			jsonError(w, http.StatusUnauthorized, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]string{"token": token})
	}
}

func logoutHandler(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b.Revoke(bearer(r))
		w.WriteHeader(http.StatusOK)
	}
}

func listSessionsHandler(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := mux.Vars(r)["user"]
		if !owns(w, r, user) {
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{"sessions": b.Sessions(user)})
	}
}

func createSessionHandler(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createSessionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
			http.Error(w, "username is required", http.StatusBadRequest)
			return
		}
		if !owns(w, r, req.Username) {
			return
		}
		s, err := b.CreateSession(req.Username)
		if err != nil {
			jsonError(w, http.StatusNotFound, err)
			return
		}
		jsonResponse(w, http.StatusCreated, s)
	}
}

func datapointsHandler(b *Backend) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
		if err != nil {
			http.Error(w, "invalid session id", http.StatusBadRequest)
			return
		}
		owner, ok := b.SessionOwner(id)
		if !ok {
			jsonError(w, http.StatusNotFound, ErrUnknownSession)
			return
		}
		if !owns(w, r, owner) {
			return
		}
		pts, err := b.Datapoints(id, r.URL.Query().Get("since"))
		if err != nil {
			jsonError(w, http.StatusNotFound, err)
			return
		}
		jsonResponse(w, http.StatusOK, map[string]any{"datapoints": pts})
	}
}

func jsonResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func jsonError(w http.ResponseWriter, status int, err error) {
	jsonResponse(w, status, map[string]string{"error": err.Error()})
}
