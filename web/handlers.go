package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"receitas/catalog"
	"receitas/models"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type sortOption struct {
	Value    string
	Label    string
	Selected bool
}

type pageData struct {
	Brand             string
	Author            string
	HeroHead          string
	HeroSub           string
	AddRecipeLabel    string
	SearchPlaceholder string
	FavoritesLabel    string

	Criteria    catalog.Criteria
	SortOptions []sortOption
	// FavoritesHref flips the favorites filter while keeping the other inputs.
	FavoritesHref string
	Cards         []catalog.CardView
	Empty         string
	Detail        *catalog.DetailView
	Toasts        []catalog.Notification
	Here          string
}

// applyQuery copies the search inputs present in the request onto the page.
func applyQuery(p *catalog.Page, q url.Values, favKey string) {
	if _, ok := q["q"]; ok {
		p.SetQuery(q.Get("q"))
	}
	if _, ok := q["sort"]; ok {
		p.SetSort(catalog.ParseSortKey(q.Get("sort")))
	}
	if _, ok := q[favKey]; ok {
		p.SetFavoritesOnly(truthy(q.Get(favKey)))
	}
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

func criteriaQuery(c catalog.Criteria, fav bool) string {
	v := url.Values{}
	v.Set("q", c.Query)
	v.Set("sort", string(c.Sort))
	if fav {
		v.Set("fav", "1")
	} else {
		v.Set("fav", "0")
	}
	return "/?" + v.Encode()
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, sess *catalog.Session, status int) {
	p := sess.Page
	crit := p.Criteria()

	data := pageData{
		Brand:             catalog.Brand,
		Author:            catalog.Author,
		HeroHead:          catalog.HeroHead,
		HeroSub:           catalog.HeroSub,
		AddRecipeLabel:    catalog.AddRecipeLabel,
		SearchPlaceholder: catalog.SearchPlaceholder,
		FavoritesLabel:    catalog.FavoritesLabel,
		Criteria:          crit,
		FavoritesHref:     criteriaQuery(crit, !crit.FavoritesOnly),
		Empty:             p.EmptyMessage(),
		Detail:            catalog.Detail(p.Selected()),
		Toasts:            sess.Inbox.Drain(),
		Here:              r.URL.RequestURI(),
	}
	for _, k := range catalog.SortKeys {
		data.SortOptions = append(data.SortOptions, sortOption{
			Value:    string(k),
			Label:    k.Label(),
			Selected: k == crit.Sort,
		})
	}
	for _, rec := range p.Visible() {
		data.Cards = append(data.Cards, catalog.Card(rec))
	}

	var buf bytes.Buffer
	if err := indexTmpl.Execute(&buf, data); err != nil {
		s.log.Error("render page", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.log.Debug("write page", zap.Error(err))
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	applyQuery(sess.Page, r.URL.Query(), "fav")
	s.render(w, r, sess, http.StatusOK)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	if err := sess.Page.Select(mux.Vars(r)["id"]); err != nil {
		s.render(w, r, sess, http.StatusNotFound)
		return
	}
	s.render(w, r, sess, http.StatusOK)
}

func (s *Server) handleClose(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.Page.CloseDetail()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleFavoriteForm(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	// failures are queued on the session inbox and shown after the redirect
	_ = sess.Page.ToggleFavorite(r.Context(), mux.Vars(r)["id"])
	http.Redirect(w, r, safeNext(r.FormValue("next")), http.StatusSeeOther)
}

// safeNext keeps redirects on this host.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

type listResponse struct {
	Recipes       []models.Recipe        `json:"recipes"`
	Criteria      criteriaJSON           `json:"criteria"`
	EmptyMessage  string                 `json:"empty_message,omitempty"`
	Loaded        bool                   `json:"loaded"`
	Notifications []catalog.Notification `json:"notifications"`
}

type criteriaJSON struct {
	Query         string `json:"q"`
	Sort          string `json:"sort"`
	FavoritesOnly bool   `json:"favorites"`
}

type favoriteResponse struct {
	Recipe        *models.Recipe         `json:"recipe,omitempty"`
	Notifications []catalog.Notification `json:"notifications"`
}

type errorResponse struct {
	Error         string                 `json:"error"`
	Notifications []catalog.Notification `json:"notifications,omitempty"`
}

func drain(in *catalog.Inbox) []catalog.Notification {
	n := in.Drain()
	if n == nil {
		return []catalog.Notification{}
	}
	return n
}

func (s *Server) handleAPIList(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	p := sess.Page
	applyQuery(p, r.URL.Query(), "favorites")
	crit := p.Criteria()
	writeJSON(w, listResponse{
		Recipes: p.Visible(),
		Criteria: criteriaJSON{
			Query:         crit.Query,
			Sort:          string(crit.Sort),
			FavoritesOnly: crit.FavoritesOnly,
		},
		EmptyMessage:  p.EmptyMessage(),
		Loaded:        p.Loaded(),
		Notifications: drain(sess.Inbox),
	})
}

func (s *Server) handleAPIFavorite(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	id := mux.Vars(r)["id"]
	err := sess.Page.ToggleFavorite(r.Context(), id)
	switch {
	case errors.Is(err, catalog.ErrUnknownRecipe):
		writeJSONStatus(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case err != nil:
		writeJSONStatus(w, http.StatusBadGateway, errorResponse{
			Error:         err.Error(),
			Notifications: drain(sess.Inbox),
		})
		return
	}
	rec, ok := sess.Page.Recipe(id)
	resp := favoriteResponse{Notifications: drain(sess.Inbox)}
	if ok {
		resp.Recipe = &rec
	}
	writeJSON(w, resp)
}

func writeJSON(w http.ResponseWriter, v any) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
