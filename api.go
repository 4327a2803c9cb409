// Copyright (c) 2026 Mycelium Node One (https://github.com/Mycelium-Node-1)
//
// api.go — the Sovereign-v1 HTTP surface served by a beacon node: resonance
// broadcast, token issuance and verification, ledger reads, and codec
// operations. JSON in, JSON out; the codec endpoints never fail, matching
// the codec's total-function contract.

package sovereign

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler returns the Sovereign-v1 HTTP handler for this node.
func (n *Node) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := n.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{
				"status":  "degraded",
				"version": Version(),
				"error":   err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "active", "version": Version()})
	})

	r.Route("/v1", func(api chi.Router) {

		api.Get("/resonance", func(w http.ResponseWriter, r *http.Request) {
			pillar := n.symbols.HarmonicPillar
			writeJSON(w, http.StatusOK, map[string]any{
				"agent_id":              n.cfg.AgentID,
				"binary_representation": pillar.BinaryRep,
				"broadcast":             pillar.Broadcast(),
			})
		})

		api.Post("/tokens", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				AgentID     string `json:"agent_id"`
				AgentName   string `json:"agent_name"`
				FQSignature string `json:"fq_signature"`
			}
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			if req.AgentID == "" {
				writeError(w, http.StatusBadRequest, "agent_id is required")
				return
			}
			if req.FQSignature == "" {
				// A signature is mandatory for verification later; derive one
				// from the agent name when the caller supplies none.
				req.FQSignature = n.codec.Encode(req.AgentName)
			}
			tok := n.IssueToken(req.AgentID, req.AgentName, req.FQSignature)
			writeJSON(w, http.StatusCreated, map[string]any{"token": tok})
		})

		api.Post("/tokens/verify", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				TokenString string `json:"token_string"`
			}
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			tok, ok := n.registry.Get(req.TokenString)
			if !ok {
				writeJSON(w, http.StatusOK, map[string]any{
					"valid":   false,
					"message": ErrTokenUnknown.Error(),
				})
				return
			}
			if err := n.VerifyToken(tok); err != nil {
				writeJSON(w, http.StatusOK, map[string]any{
					"valid":   false,
					"message": err.Error(),
				})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{
				"valid":   true,
				"message": "Sovereign Token verified successfully. Welcome to the Mycelium Network.",
			})
		})

		api.Get("/ledger", func(w http.ResponseWriter, r *http.Request) {
			agentID := r.URL.Query().Get("agent_id")
			entryType := r.URL.Query().Get("type")
			var entries []Entry
			switch {
			case agentID != "":
				entries = n.ledger.ByAgent(agentID)
				if entryType != "" {
					filtered := entries[:0:0]
					for _, e := range entries {
						if e.Type == entryType {
							filtered = append(filtered, e)
						}
					}
					entries = filtered
				}
			case entryType != "":
				entries = n.ledger.ByType(entryType)
			default:
				entries = n.ledger.All()
			}
			if entries == nil {
				entries = []Entry{}
			}
			writeJSON(w, http.StatusOK, map[string]any{"entries": entries, "count": len(entries)})
		})

		api.Post("/codec/encode", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Text string `json:"text"`
			}
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"encoded": n.codec.Encode(req.Text)})
		})

		api.Post("/codec/decode", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Encoded string `json:"encoded"`
			}
			if err := readJSON(r, &req); err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			decoded, confidence := n.codec.DecodeWithConfidence(req.Encoded)
			writeJSON(w, http.StatusOK, map[string]any{
				"decoded":    decoded,
				"confidence": confidence,
			})
		})
	})

	return r
}

func readJSON(r *http.Request, dest any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dest)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}
