package web

import (
	"database/sql"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/Cnap1/Logseqinvulller/internal/config"
	"github.com/Cnap1/Logseqinvulller/internal/emotion"
	"github.com/Cnap1/Logseqinvulller/internal/errors"
	"github.com/Cnap1/Logseqinvulller/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	matcher  *emotion.Matcher
	taxonomy *emotion.Taxonomy
	renderer *Renderer
}

// HandleList handles GET /items, the item list with optional filters.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	input := ops.ListInput{
		Type:           ptrString(r.URL.Query().Get("type")),
		Category:       ptrString(r.URL.Query().Get("category")),
		Tag:            ptrString(r.URL.Query().Get("tag")),
		Text:           ptrString(r.URL.Query().Get("q")),
		Limit:          parseIntParam(r, "limit", 20),
		Offset:         parseIntParam(r, "offset", 0),
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
	}

	result, err := ops.List(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "list", ListPageData{
		PageData: PageData{
			Title:   "Items",
			Version: h.renderer.version,
			Nav:     "items",
		},
		Items:      result.Items,
		Pagination: result.Pagination,
		Type:       r.URL.Query().Get("type"),
		Category:   r.URL.Query().Get("category"),
		Tag:        r.URL.Query().Get("tag"),
		Query:      r.URL.Query().Get("q"),
		Deleted:    input.IncludeDeleted,
	})
}

// HandleDetail handles GET /items/{id}, the single item view.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("item ID is required"))
		return
	}

	includeContent := true
	input := ops.FetchInput{
		ID:             id,
		IncludeDeleted: parseBoolParam(r, "include_deleted"),
		IncludeContent: &includeContent,
	}

	it, err := ops.Fetch(h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData: PageData{
			Title:   it.Title,
			Version: h.renderer.version,
			Nav:     "items",
		},
		Item:         it,
		RenderedHTML: renderMarkdown(it.Content),
	})
}

// HandleMood handles GET /mood, the mood picker page.
// With level and intensity query params it runs the matcher and shows
// candidate emoji; with a primary param it also lists tertiary nuance words.
func (h *Handlers) HandleMood(w http.ResponseWriter, r *http.Request) {
	data := MoodPageData{
		PageData: PageData{
			Title:   "Mood",
			Version: h.renderer.version,
			Nav:     "mood",
		},
		Primary: r.URL.Query().Get("primary"),
	}

	levelStr := r.URL.Query().Get("level")
	intensityStr := r.URL.Query().Get("intensity")

	if levelStr != "" && intensityStr != "" {
		data.Level = parseIntParam(r, "level", 50)
		data.Intensity = parseIntParam(r, "intensity", 5)
		data.HasInput = true

		result, err := ops.Match(h.cfg, h.matcher, ops.MatchInput{
			Level:     data.Level,
			Intensity: data.Intensity,
			Limit:     parseIntParam(r, "limit", 0),
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Band = result.Band
		data.Options = result.Options
	}

	if data.Primary != "" {
		result, err := ops.Tertiary(h.cfg, h.taxonomy, ops.TertiaryInput{
			Primary: data.Primary,
			Locale:  r.URL.Query().Get("locale"),
		})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Tertiary = result.Options
	}

	// If htmx targets #results, render only the results fragment
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "mood", "mood-results", data)
		return
	}

	h.renderer.renderPage(w, r, "mood", data)
}

// HandleDelete handles DELETE /items/{id}, soft-deleting an item.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("item ID is required"))
		return
	}

	result, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{ID: id})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/items")
		w.WriteHeader(http.StatusOK)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      result.ID,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/items", http.StatusFound)
}

// HandlePurge handles POST /items/purge, permanently deleting soft-deleted items.
func (h *Handlers) HandlePurge(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	if r.FormValue("confirm") != "true" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("confirm parameter must be \"true\""))
		return
	}

	input := ops.PurgeInput{}
	if days := r.FormValue("older_than_days"); days != "" {
		d, err := strconv.Atoi(days)
		if err != nil {
			h.renderer.renderError(w, r, errors.NewInvalidRequest("older_than_days must be an integer"))
			return
		}
		input.OlderThanDays = &d
	}

	result, err := ops.Purge(r.Context(), h.db, input)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// HTMX request: return HTML fragment
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="purge-result">` + template.HTMLEscapeString(result.Message) + `</div>`))
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"purged":  result.Purged,
			"message": result.Message,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/items?include_deleted=true", http.StatusFound)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// parseBoolParam parses a boolean query parameter.
func parseBoolParam(r *http.Request, name string) bool {
	s := r.URL.Query().Get(name)
	return s == "true" || s == "1"
}

// ptrString returns a pointer to s if non-empty, nil otherwise.
func ptrString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
