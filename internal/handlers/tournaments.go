package handlers

import (
	"net/http"
)

func (h *Handlers) handleListTournaments(w http.ResponseWriter, r *http.Request) {
	tournaments, err := h.Tournaments.ListTournaments(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, tournaments)
}

func (h *Handlers) handleCreateTournament(w http.ResponseWriter, r *http.Request) {
	var req TournamentCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	id, err := h.Tournaments.CreateTournament(r.Context(), req.Name, req.StartsOn)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, IDResponse{ID: id})
}

func (h *Handlers) handleGetTournament(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	tournament, err := h.Tournaments.GetTournament(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, tournament)
}

func (h *Handlers) handleListCategories(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	categories, err := h.Tournaments.ListCategories(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, categories)
}

func (h *Handlers) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseIntParam(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	var req CategoryCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	catID, err := h.Tournaments.CreateCategory(r.Context(), id, req.Name)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, IDResponse{ID: catID})
}

func (h *Handlers) handleListCourts(w http.ResponseWriter, r *http.Request) {
	courts, err := h.Tournaments.ListCourts(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, courts)
}

func (h *Handlers) handleCreateCourt(w http.ResponseWriter, r *http.Request) {
	var req CourtCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	id, err := h.Tournaments.CreateCourt(r.Context(), req.Name, req.Club)
	if err != nil {
		respondError(w, err)
		return
	}
	respondCreated(w, IDResponse{ID: id})
}
