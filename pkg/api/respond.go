package api

import (
	"encoding/json"
	"net/http"
)

// errorBody is the wire shape of an error response.
type errorBody struct {
	Error struct {
		Category  string `json:"category"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding response failed")
	}
}

func (s *Server) respondError(w http.ResponseWriter, r *http.Request, status int, category, message string) {
	var body errorBody
	body.Error.Category = category
	body.Error.Message = message
	body.Error.RequestID = requestIDFrom(r)
	s.respondJSON(w, status, body)
}
