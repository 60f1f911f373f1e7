// Package rest exposes the badge lifecycle over HTTP: issuing,
// fetching, revoking and verifying credentials, plus the public status
// list endpoint consumed by third-party verifiers.
package rest

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/badgecraft/badgecraft-core/pkg/credential"
	"github.com/badgecraft/badgecraft-core/pkg/issuer"
	"github.com/badgecraft/badgecraft-core/pkg/statuslist"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Server handles the badge HTTP API.
type Server struct {
	service  *issuer.Service
	registry *statuslist.Registry
}

// NewServer creates a REST server over the issuance service. The
// registry serves the public status list endpoint.
func NewServer(service *issuer.Service, registry *statuslist.Registry) *Server {
	return &Server{service: service, registry: registry}
}

// Handler builds the routed HTTP handler. Status lists are public
// documents, so CORS allows any origin to GET them.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/assertions", s.handleIssue).Methods(http.MethodPost)
	v1.HandleFunc("/assertions", s.handleListAssertions).Methods(http.MethodGet)
	v1.HandleFunc("/assertions/{id}", s.handleGetAssertion).Methods(http.MethodGet)
	v1.HandleFunc("/assertions/{id}/revoke", s.handleRevoke).Methods(http.MethodPost)
	v1.HandleFunc("/assertions/{id}/reinstate", s.handleReinstate).Methods(http.MethodPost)
	v1.HandleFunc("/assertions/{id}/verification", s.handleVerifyStored).Methods(http.MethodGet)
	v1.HandleFunc("/verify", s.handleVerify).Methods(http.MethodPost)
	v1.HandleFunc("/issuers/{issuer}/status/{purpose}", s.handleStatusList).Methods(http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
	})
	return c.Handler(r)
}

// issueRequest is the POST /v1/assertions payload.
type issueRequest struct {
	IssuerID    string `json:"issuerId"`
	IssuerName  string `json:"issuerName,omitempty"`
	RecipientID string `json:"recipientId"`
	Achievement struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description,omitempty"`
		Criteria    string `json:"criteriaNarrative,omitempty"`
	} `json:"achievement"`
	ExpirationDate string `json:"expirationDate,omitempty"`
}

func (s *Server) handleIssue(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid JSON body")
		return
	}
	if req.IssuerID == "" || req.RecipientID == "" || req.Achievement.Name == "" {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST",
			"issuerId, recipientId and achievement.name are required")
		return
	}

	issue := issuer.IssueRequest{
		IssuerID:               req.IssuerID,
		IssuerName:             req.IssuerName,
		RecipientID:            req.RecipientID,
		AchievementID:          req.Achievement.ID,
		AchievementName:        req.Achievement.Name,
		AchievementDescription: req.Achievement.Description,
		CriteriaNarrative:      req.Achievement.Criteria,
	}
	if req.ExpirationDate != "" {
		expires, err := time.Parse(time.RFC3339, req.ExpirationDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "BAD_REQUEST", "expirationDate must be RFC 3339")
			return
		}
		issue.Expires = expires
	}

	cred, err := s.service.Issue(r.Context(), issue)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, cred)
}

func (s *Server) handleListAssertions(w http.ResponseWriter, r *http.Request) {
	creds, err := s.service.Assertions(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	if creds == nil {
		creds = []*credential.Credential{}
	}
	writeJSON(w, http.StatusOK, creds)
}

func (s *Server) handleGetAssertion(w http.ResponseWriter, r *http.Request) {
	cred, err := s.service.Assertion(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cred)
}

func (s *Server) handleRevoke(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Revoke(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleReinstate(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reinstate(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleVerifyStored(w http.ResponseWriter, r *http.Request) {
	verification, err := s.service.VerifyStored(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, verification)
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	var cred credential.Credential
	if err := json.NewDecoder(r.Body).Decode(&cred); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid credential document")
		return
	}

	verification, err := s.service.VerifySubmitted(r.Context(), &cred)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	// Verification failures are results, not errors: always 200.
	writeJSON(w, http.StatusOK, verification)
}

func (s *Server) handleStatusList(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	purpose := statuslist.Purpose(vars["purpose"])
	if !purpose.Valid() {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "unknown status purpose")
		return
	}

	list, err := s.registry.Ensure(r.Context(), vars["issuer"], purpose)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	var credErr *credential.Error
	switch {
	case errors.Is(err, issuer.ErrAssertionNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, issuer.ErrNoSigningKey):
		writeError(w, http.StatusUnprocessableEntity, "NO_SIGNING_KEY", err.Error())
	case errors.As(err, &credErr):
		writeError(w, http.StatusBadRequest, credErr.Code, credErr.Message)
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
