package seoapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-seo-dashboard/components/datatable"
	"github.com/goliatone/go-seo-dashboard/components/store"
)

// RepositorySource resolves a repository by entity. *store.Catalog
// satisfies it.
type RepositorySource interface {
	Repository(entity string) (store.Repository, error)
}

// NewHandler serves source over the REST contract Client speaks, so a
// dashboard can run against a second process holding the fixtures.
func NewHandler(source RepositorySource) http.Handler {
	s := &server{source: source}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{entity}", s.list)
	mux.HandleFunc("GET /{entity}/{id}", s.get)
	mux.HandleFunc("POST /{entity}", s.create)
	mux.HandleFunc("PUT /{entity}/{id}", s.update)
	mux.HandleFunc("DELETE /{entity}/{id}", s.remove)
	return mux
}

type server struct {
	source RepositorySource
}

func (s *server) list(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repository(w, r)
	if !ok {
		return
	}
	records, err := repo.GetAll(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *server) get(w http.ResponseWriter, r *http.Request) {
	repo, id, ok := s.item(w, r)
	if !ok {
		return
	}
	record, err := repo.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *server) create(w http.ResponseWriter, r *http.Request) {
	repo, ok := s.repository(w, r)
	if !ok {
		return
	}
	data, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	record, err := repo.Create(r.Context(), data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *server) update(w http.ResponseWriter, r *http.Request) {
	repo, id, ok := s.item(w, r)
	if !ok {
		return
	}
	data, ok := decodeRecord(w, r)
	if !ok {
		return
	}
	record, err := repo.Update(r.Context(), id, data)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *server) remove(w http.ResponseWriter, r *http.Request) {
	repo, id, ok := s.item(w, r)
	if !ok {
		return
	}
	deleted, err := repo.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeError(w, store.NotFound(repo.Entity(), id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) repository(w http.ResponseWriter, r *http.Request) (store.Repository, bool) {
	repo, err := s.source.Repository(r.PathValue("entity"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return repo, true
}

func (s *server) item(w http.ResponseWriter, r *http.Request) (store.Repository, int, bool) {
	repo, ok := s.repository(w, r)
	if !ok {
		return nil, 0, false
	}
	id, err := store.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return nil, 0, false
	}
	return repo, id, true
}

func decodeRecord(w http.ResponseWriter, r *http.Request) (datatable.Record, bool) {
	var data datatable.Record
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return nil, false
	}
	return data, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case store.IsNotFound(err):
		status = http.StatusNotFound
	case store.IsValidation(err):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrFailure):
		status = http.StatusBadGateway
	}
	writeJSON(w, status, errorBody{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
