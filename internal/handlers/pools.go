package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/abrezinsky/padelpools/internal/models"
)

func (h *Handlers) handleListPools(w http.ResponseWriter, r *http.Request) {
	tid, cid, err := parseScope(r)
	if err != nil {
		respondError(w, err)
		return
	}

	pools, err := h.Pools.ListPools(r.Context(), tid, cid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, pools)
}

// handleGeneratePools generates from the given player ids, or from the
// category roster when the body is empty or has no player_ids
func (h *Handlers) handleGeneratePools(w http.ResponseWriter, r *http.Request) {
	tid, cid, err := parseScope(r)
	if err != nil {
		respondError(w, err)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, BadRequest("Failed to read request body"))
		return
	}

	var req GeneratePoolsRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			respondError(w, BadRequest("Invalid JSON: "+err.Error()))
			return
		}
	}

	ctx := r.Context()
	if req.PlayerIDs == nil {
		err = h.Pools.GeneratePoolsFromRoster(ctx, tid, cid)
	} else {
		players := make([]models.Player, 0, len(req.PlayerIDs))
		for _, id := range req.PlayerIDs {
			p, err := h.Players.GetPlayer(ctx, id)
			if err != nil {
				respondError(w, err)
				return
			}
			players = append(players, *p)
		}
		err = h.Pools.GeneratePools(ctx, tid, cid, players)
	}
	if err != nil {
		respondError(w, err)
		return
	}

	pools, err := h.Pools.ListPools(ctx, tid, cid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, pools)
}

func (h *Handlers) handleGetRanking(w http.ResponseWriter, r *http.Request) {
	tid, cid, err := parseScope(r)
	if err != nil {
		respondError(w, err)
		return
	}

	ranking, err := h.Pools.GetRanking(r.Context(), tid, cid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ranking)
}

func (h *Handlers) handleRecalculateRanking(w http.ResponseWriter, r *http.Request) {
	tid, cid, err := parseScope(r)
	if err != nil {
		respondError(w, err)
		return
	}

	if err := h.Pools.RecalculateRankings(r.Context(), tid, cid); err != nil {
		respondError(w, err)
		return
	}

	ranking, err := h.Pools.GetRanking(r.Context(), tid, cid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, ranking)
}

func (h *Handlers) handleGetOverview(w http.ResponseWriter, r *http.Request) {
	tid, cid, err := parseScope(r)
	if err != nil {
		respondError(w, err)
		return
	}

	overview, err := h.Pools.GetOverview(r.Context(), tid, cid)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, overview)
}

func (h *Handlers) handleGetPoolStandings(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	standings, err := h.Pools.GetPoolStandings(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, standings)
}

func (h *Handlers) handleAssignCourt(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req AssignCourtRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Pools.AssignCourt(r.Context(), id, req.CourtID); err != nil {
		respondError(w, err)
		return
	}
	respondSuccess(w, "Court assigned")
}

func (h *Handlers) handlePoolQRCode(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	size := 0
	if s := r.URL.Query().Get("size"); s != "" {
		if size, err = strconv.Atoi(s); err != nil {
			respondError(w, BadRequest("Invalid size parameter"))
			return
		}
	}

	png, err := h.Pools.PoolQRCode(r.Context(), id, size)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(png)
}

func (h *Handlers) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	match, err := h.Pools.GetPoolMatch(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, match)
}

func (h *Handlers) handleRecordResult(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req RecordResultRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if req.TeamAScore == nil || req.TeamBScore == nil {
		respondError(w, BadRequest("team_a_score and team_b_score are required"))
		return
	}

	if err := h.Pools.RecordResult(r.Context(), id, *req.TeamAScore, *req.TeamBScore, req.Sets); err != nil {
		respondError(w, err)
		return
	}

	match, err := h.Pools.GetPoolMatch(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, match)
}

func (h *Handlers) handleRevertResult(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	outcome, err := h.Pools.RevertResult(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, outcome)
}
