package server

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	gschema "github.com/gorilla/schema"

	"github.com/matthewbaird/admingen/internal/artifact"
	"github.com/matthewbaird/admingen/internal/event"
	"github.com/matthewbaird/admingen/internal/generate"
	"github.com/matthewbaird/admingen/internal/history"
)

const maxConfigBytes = 1 << 20

var queryDecoder = func() *gschema.Decoder {
	d := gschema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

type handlers struct {
	gen     *generate.Service
	history history.Store
}

type generateResponse struct {
	ID     uuid.UUID       `json:"id"`
	Entity string          `json:"entity"`
	Cached bool            `json:"cached"`
	Files  []artifact.File `json:"files"`
}

// configName picks the decoder for the request body: ?format=cue compiles
// it as CUE, anything else is JSON.
func configName(r *http.Request) string {
	if r.URL.Query().Get("format") == "cue" {
		return "config.cue"
	}
	return "config.json"
}

func (h *handlers) generate(w http.ResponseWriter, r *http.Request) {
	kinds, err := artifact.ParseKinds(r.URL.Query().Get("kinds"))
	if err != nil {
		errorToHTTP(w, err)
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxConfigBytes))
	if err != nil {
		errorToHTTP(w, err)
		return
	}

	res, err := h.gen.Generate(r.Context(), generate.Request{
		Config: body,
		Name:   configName(r),
		Kinds:  kinds,
		Source: event.SourceHTTP,
	})
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, generateResponse{
		ID:     res.ID,
		Entity: res.Config.Naming.SingularPascal,
		Cached: res.Cached,
		Files:  res.Files,
	})
}

type listGenerationsResponse struct {
	Items    []history.Generation `json:"items"`
	Total    int                  `json:"total"`
	PageSize int                  `json:"page_size"`
	Offset   int                  `json:"offset"`
}

func (h *handlers) listGenerations(w http.ResponseWriter, r *http.Request) {
	var page history.Page
	if err := queryDecoder.Decode(&page, r.URL.Query()); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_QUERY", err.Error())
		return
	}
	page = page.Normalize()

	items, total, err := h.history.List(r.Context(), page)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	if items == nil {
		items = []history.Generation{}
	}
	writeJSON(w, http.StatusOK, listGenerationsResponse{
		Items:    items,
		Total:    total,
		PageSize: page.Limit,
		Offset:   page.Offset,
	})
}

func (h *handlers) getGeneration(w http.ResponseWriter, r *http.Request) {
	id, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	g, err := h.history.Get(r.Context(), id)
	if err != nil {
		errorToHTTP(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

type kindInfo struct {
	Kind artifact.Kind `json:"kind"`
	// Path is relative to the entity folder.
	Path string `json:"path"`
}

func (h *handlers) listKinds(w http.ResponseWriter, r *http.Request) {
	kinds := artifact.Kinds()
	out := make([]kindInfo, len(kinds))
	for i, k := range kinds {
		out[i] = kindInfo{Kind: k, Path: k.RelPath()}
	}
	writeJSON(w, http.StatusOK, map[string]any{"kinds": out})
}
