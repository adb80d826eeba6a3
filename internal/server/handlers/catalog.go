package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/ThatCatDev/modelgate/internal/catalog"
	"github.com/ThatCatDev/modelgate/pkg/api"
)

// CatalogHandler handles GET /v1/catalog. With a q= query parameter and
// a configured index, results are ranked by semantic similarity;
// otherwise the full scraped listing is returned in document order.
type CatalogHandler struct {
	ListingURL string
	Index      *catalog.Index // nil disables semantic search
}

func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	entries, err := catalog.Fetch(r.Context(), h.ListingURL)
	if err != nil {
		writeError(w, http.StatusBadGateway, "catalog_error", err.Error())
		return
	}

	if query := r.URL.Query().Get("q"); query != "" && h.Index != nil {
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if ranked, err := h.search(r, entries, query, limit); err != nil {
			// Semantic search is best-effort; serve the plain listing.
			log.Printf("catalog search failed query=%q error=%v", query, err)
		} else {
			entries = ranked
		}
	}

	resp := api.CatalogResponse{Models: make([]api.CatalogModel, 0, len(entries))}
	for _, e := range entries {
		resp.Models = append(resp.Models, api.CatalogModel{
			Name:         e.Name,
			Description:  e.Description,
			Capabilities: e.Capabilities,
			Sizes:        e.Sizes,
			Pulls:        e.Pulls,
			TagCount:     e.TagCount,
			UpdatedAt:    e.UpdatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *CatalogHandler) search(r *http.Request, entries []catalog.Entry, query string, limit int) ([]catalog.Entry, error) {
	if err := h.Index.Add(r.Context(), entries); err != nil {
		return nil, err
	}
	return h.Index.Search(r.Context(), query, limit)
}
