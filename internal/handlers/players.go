package handlers

import (
	"net/http"

	"github.com/abrezinsky/padelpools/internal/services"
)

func (h *Handlers) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.Players.ListPlayers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, players)
}

func (h *Handlers) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req PlayerCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	id, err := h.Players.CreatePlayer(r.Context(), services.Player{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		RankingPoints: req.RankingPoints,
		ExternalID:    req.ExternalID,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, IDResponse{ID: id})
}

func (h *Handlers) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	player, err := h.Players.GetPlayer(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, player)
}

func (h *Handlers) handleListRoster(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	players, err := h.Players.ListRoster(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, players)
}

func (h *Handlers) handleRegisterPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req RosterRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.PlayerID <= 0 {
		respondError(w, BadRequest("player_id is required"))
		return
	}

	created, err := h.Players.RegisterPlayer(r.Context(), id, req.PlayerID)
	if err != nil {
		respondError(w, err)
		return
	}

	resp := RegisterResponse{CategoryID: id, PlayerID: req.PlayerID, Registered: created}
	if created {
		respondCreated(w, resp)
		return
	}
	respondOK(w, resp)
}

func (h *Handlers) handleUnregisterPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	playerID, err := parseIntParam(r, "playerID")
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Players.UnregisterPlayer(r.Context(), id, playerID); err != nil {
		respondError(w, err)
		return
	}
	respondDeleted(w)
}

func (h *Handlers) handleSyncRoster(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	result, err := h.Players.SyncFromRoster(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, result)
}
