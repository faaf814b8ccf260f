package ingest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/dealernetworks/opsboard-backend/internal/domain"
	"github.com/dealernetworks/opsboard-backend/internal/snapshot"
)

// Handler accepts full snapshot pushes from the upstream extractors and
// publishes them to the hub. Every endpoint replaces state wholesale; there
// are no partial updates.
type Handler struct {
	hub *snapshot.Hub
}

func NewHandler(hub *snapshot.Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/streams/orders", h.PushOrders).Methods("POST")
	router.HandleFunc("/streams/yard", h.PushYardAll).Methods("POST")
	router.HandleFunc("/streams/yard/{dealer}", h.PushYard).Methods("POST")
	router.HandleFunc("/streams/handovers", h.PushHandoversAll).Methods("POST")
	router.HandleFunc("/streams/handovers/{dealer}", h.PushHandovers).Methods("POST")
	router.HandleFunc("/streams/pgi", h.PushPGI).Methods("POST")
}

func (h *Handler) PushOrders(w http.ResponseWriter, r *http.Request) {
	var orders domain.OrdersSnapshot
	if !decodeBody(w, r, &orders) {
		return
	}
	h.hub.ApplyOrders(orders)
	writeAccepted(w, snapshot.StreamOrders, len(orders))
}

func (h *Handler) PushYardAll(w http.ResponseWriter, r *http.Request) {
	var yard domain.YardSnapshot
	if !decodeBody(w, r, &yard) {
		return
	}
	h.hub.ApplyYardAll(yard)
	writeAccepted(w, snapshot.StreamYard, len(yard))
}

func (h *Handler) PushYard(w http.ResponseWriter, r *http.Request) {
	dealer := mux.Vars(r)["dealer"]
	var entries map[string]domain.Record
	if !decodeBody(w, r, &entries) {
		return
	}
	h.hub.ApplyYard(dealer, entries)
	writeAccepted(w, snapshot.StreamYard, len(entries))
}

func (h *Handler) PushHandoversAll(w http.ResponseWriter, r *http.Request) {
	var handovers domain.HandoverSnapshot
	if !decodeBody(w, r, &handovers) {
		return
	}
	h.hub.ApplyHandoversAll(handovers)
	writeAccepted(w, snapshot.StreamHandovers, len(handovers))
}

func (h *Handler) PushHandovers(w http.ResponseWriter, r *http.Request) {
	dealer := mux.Vars(r)["dealer"]
	var recs map[string]domain.Record
	if !decodeBody(w, r, &recs) {
		return
	}
	h.hub.ApplyHandovers(dealer, recs)
	writeAccepted(w, snapshot.StreamHandovers, len(recs))
}

func (h *Handler) PushPGI(w http.ResponseWriter, r *http.Request) {
	var pgi domain.PGISnapshot
	if !decodeBody(w, r, &pgi) {
		return
	}
	h.hub.ApplyPGI(pgi)
	writeAccepted(w, snapshot.StreamPGI, len(pgi))
}

// decodeBody rejects malformed payloads before any state is touched, so a
// bad push can never clobber a good snapshot.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		log.Warn().Err(err).Str("path", r.URL.Path).Msg("ingest: rejected malformed payload")
		http.Error(w, fmt.Sprintf("invalid payload: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeAccepted(w http.ResponseWriter, stream string, records int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "accepted",
		"stream":  stream,
		"records": records,
	})
}
