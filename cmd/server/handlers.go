package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/specquote/internal/build"
	"github.com/Simplici0/specquote/internal/catalog"
	"github.com/Simplici0/specquote/internal/pricing"
	"github.com/Simplici0/specquote/internal/quote"
	"github.com/Simplici0/specquote/internal/store"
)

const maxBodyBytes = 4 << 20

// buildRequest references catalog items by id.
type buildRequest struct {
	Selection map[catalog.Category]string `json:"selection"`
	Addons    []addonRequest              `json:"addons"`
	Policy    *pricing.Policy             `json:"policy,omitempty"`
}

type addonRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type actionRequest struct {
	Type     string           `json:"type"`
	ItemID   string           `json:"itemId"`
	Category catalog.Category `json:"category"`
	Quantity int              `json:"quantity"`
}

type applyRequest struct {
	buildRequest
	Action actionRequest `json:"action"`
}

type applyResponse struct {
	Selection map[catalog.Category]string `json:"selection"`
	Addons    []addonRequest              `json:"addons"`
	Quote     quote.Quote                 `json:"quote"`
}

type quoteCreateRequest struct {
	Title string       `json:"title"`
	Notes string       `json:"notes"`
	Build buildRequest `json:"build"`
}

type quoteCreateResponse struct {
	ID    int64       `json:"id"`
	Quote quote.Quote `json:"quote"`
}

type catalogEntry struct {
	Item       catalog.Item `json:"item"`
	Compatible bool         `json:"compatible"`
}

// badRequestError marks failures caused by the request content.
type badRequestError struct {
	err error
}

func (e badRequestError) Error() string { return e.err.Error() }
func (e badRequestError) Unwrap() error { return e.err }

func badRequest(format string, args ...any) error {
	return badRequestError{err: fmt.Errorf(format, args...)}
}

func (s *server) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := store.Filter{
		Query:      q.Get("q"),
		Brand:      strings.TrimSpace(q.Get("brand")),
		Socket:     strings.TrimSpace(q.Get("socket")),
		FormFactor: strings.TrimSpace(q.Get("formFactor")),
		Sort:       q.Get("sort"),
	}
	if raw := q.Get("category"); raw != "" {
		category, err := catalog.ParseCategory(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Category = category
	}

	items, err := s.store.ListItems(filter)
	if err != nil {
		s.writeInternal(w, "failed to load catalog", err)
		return
	}

	sel, err := s.resolveSelected(splitIDs(q.Get("selected")))
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	entries := make([]catalogEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, catalogEntry{
			Item:       item,
			Compatible: s.validator.Compatible(sel, item),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *server) handleBuildEvaluate(w http.ResponseWriter, r *http.Request) {
	var req buildRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, q, err := s.evaluate(req)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *server) handleBuildApply(w http.ResponseWriter, r *http.Request) {
	var req applyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := s.resolveState(req.buildRequest)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	action, err := s.resolveAction(req.Action)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	next, err := build.Apply(state, action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	policy, err := s.policyFor(req.Policy)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}
	q, err := quote.Evaluate(next, policy, s.validator)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, applyResponse{
		Selection: selectionIDs(next.Selection),
		Addons:    addonIDs(next.Addons),
		Quote:     q,
	})
}

func (s *server) handleQuotesList(w http.ResponseWriter, r *http.Request) {
	quotes, err := s.store.ListQuotes(r.URL.Query().Get("q"))
	if err != nil {
		s.writeInternal(w, "failed to load quotes", err)
		return
	}
	writeJSON(w, http.StatusOK, quotes)
}

func (s *server) handleQuoteCreate(w http.ResponseWriter, r *http.Request) {
	var req quoteCreateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	state, q, err := s.evaluate(req.Build)
	if err != nil {
		s.writeRequestError(w, err)
		return
	}

	id, err := s.store.SaveQuote(req.Title, req.Notes, quote.NewSnapshot(state, q))
	if err != nil {
		s.writeInternal(w, "failed to save quote", err)
		return
	}
	writeJSON(w, http.StatusCreated, quoteCreateResponse{ID: id, Quote: q})
}

func (s *server) handleQuoteDetail(w http.ResponseWriter, r *http.Request) {
	saved, ok := s.loadQuote(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleQuoteText(w http.ResponseWriter, r *http.Request) {
	saved, ok := s.loadQuote(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(saved.Snapshot.Text(saved.Title)))
}

func (s *server) loadQuote(w http.ResponseWriter, r *http.Request) (store.SavedQuote, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid quote id")
		return store.SavedQuote{}, false
	}

	saved, err := s.store.GetQuote(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "quote not found")
		return store.SavedQuote{}, false
	}
	if err != nil {
		s.writeInternal(w, "failed to load quote", err)
		return store.SavedQuote{}, false
	}
	return saved, true
}

func (s *server) handleAdminPolicyGet(w http.ResponseWriter, r *http.Request) {
	policy, err := s.store.GetPolicy()
	if err != nil {
		s.writeInternal(w, "failed to load pricing policy", err)
		return
	}
	writeJSON(w, http.StatusOK, policy)
}

func (s *server) handleAdminPolicyUpdate(w http.ResponseWriter, r *http.Request) {
	var policy pricing.Policy
	if err := decodeJSON(w, r, &policy); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := validatePolicy(policy); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.UpdatePolicy(policy); err != nil {
		s.writeInternal(w, "failed to save pricing policy", err)
		return
	}

	saved, err := s.store.GetPolicy()
	if err != nil {
		s.writeInternal(w, "failed to load pricing policy", err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleAdminCatalogImport(w http.ResponseWriter, r *http.Request) {
	items, err := catalog.ReadCSV(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stats, err := s.store.UpsertItems(items)
	if err != nil {
		s.writeInternal(w, "failed to import catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"inserts": stats.Inserts, "updates": stats.Updates})
}

func (s *server) handleAdminCatalogExport(w http.ResponseWriter, r *http.Request) {
	items, err := s.store.ListItems(store.Filter{})
	if err != nil {
		s.writeInternal(w, "failed to load catalog", err)
		return
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		s.writeInternal(w, "failed to encode catalog", err)
		return
	}

	name := "inventory-" + time.Now().UTC().Format("2006-01-02T15-04-05") + ".json"
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

func (s *server) handleAdminCatalogUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	found, err := s.store.GetItems([]string{id})
	if err != nil {
		s.writeInternal(w, "failed to load catalog item", err)
		return
	}
	if _, ok := found[id]; !ok {
		writeError(w, http.StatusNotFound, "catalog item not found")
		return
	}

	var item catalog.Item
	if err := decodeJSON(w, r, &item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if item.ID != id {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("body id %q does not match %q", item.ID, id))
		return
	}

	if _, err := s.store.UpsertItems([]catalog.Item{item}); err != nil {
		s.writeInternal(w, "failed to save catalog item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// evaluate resolves req against the catalog and the stored policy.
func (s *server) evaluate(req buildRequest) (build.State, quote.Quote, error) {
	state, err := s.resolveState(req)
	if err != nil {
		return build.State{}, quote.Quote{}, err
	}
	policy, err := s.policyFor(req.Policy)
	if err != nil {
		return build.State{}, quote.Quote{}, err
	}
	q, err := quote.Evaluate(state, policy, s.validator)
	if err != nil {
		return build.State{}, quote.Quote{}, badRequestError{err: err}
	}
	return state, q, nil
}

func (s *server) policyFor(override *pricing.Policy) (pricing.Policy, error) {
	if override != nil {
		if err := validatePolicy(*override); err != nil {
			return pricing.Policy{}, badRequestError{err: err}
		}
		return *override, nil
	}
	return s.store.GetPolicy()
}

// resolveSelected loads the components named by ids. Two ids for the same
// slot are rejected.
func (s *server) resolveSelected(ids []string) (build.Selection, error) {
	found, err := s.store.GetItems(ids)
	if err != nil {
		return build.Selection{}, err
	}

	items := make([]catalog.Item, 0, len(ids))
	for _, id := range ids {
		item, ok := found[id]
		if !ok {
			return build.Selection{}, badRequest("unknown item %q", id)
		}
		items = append(items, item)
	}
	sel, err := build.NewSelection(items...)
	if err != nil {
		return build.Selection{}, badRequestError{err: err}
	}
	return sel, nil
}

func (s *server) resolveState(req buildRequest) (build.State, error) {
	ids := make([]string, 0, len(req.Selection)+len(req.Addons))
	for _, id := range req.Selection {
		ids = append(ids, id)
	}
	for _, line := range req.Addons {
		ids = append(ids, line.ID)
	}

	items, err := s.store.GetItems(ids)
	if err != nil {
		return build.State{}, err
	}

	state := build.State{}
	for category, id := range req.Selection {
		item, ok := items[id]
		if !ok {
			return build.State{}, badRequest("unknown item %q", id)
		}
		if item.Category != category {
			return build.State{}, badRequest("item %q is a %s, not a %s", id, item.Category, category)
		}
		if state.Selection, err = state.Selection.With(item); err != nil {
			return build.State{}, badRequestError{err: err}
		}
	}
	for _, line := range req.Addons {
		item, ok := items[line.ID]
		if !ok {
			return build.State{}, badRequest("unknown item %q", line.ID)
		}
		state.Addons = append(state.Addons, build.AddonLine{Item: item, Quantity: line.Quantity})
	}
	return state, nil
}

func (s *server) resolveAction(req actionRequest) (build.Action, error) {
	lookup := func() (catalog.Item, error) {
		items, err := s.store.GetItems([]string{req.ItemID})
		if err != nil {
			return catalog.Item{}, err
		}
		item, ok := items[req.ItemID]
		if !ok {
			return catalog.Item{}, badRequest("unknown item %q", req.ItemID)
		}
		return item, nil
	}

	switch req.Type {
	case "select":
		item, err := lookup()
		if err != nil {
			return nil, err
		}
		return build.SelectPart{Item: item}, nil
	case "remove":
		return build.RemovePart{Category: req.Category}, nil
	case "addAddon":
		item, err := lookup()
		if err != nil {
			return nil, err
		}
		return build.AddAddon{Item: item}, nil
	case "setAddonQuantity":
		return build.SetAddonQuantity{ItemID: req.ItemID, Quantity: req.Quantity}, nil
	case "removeAddon":
		return build.RemoveAddon{ItemID: req.ItemID}, nil
	case "reset":
		return build.Reset{}, nil
	}
	return nil, badRequestError{err: fmt.Errorf("%w: %q", build.ErrUnknownAction, req.Type)}
}

func validatePolicy(p pricing.Policy) error {
	if err := checkPercent(p.TaxRatePercent, "taxRatePercent"); err != nil {
		return err
	}
	if err := checkPercent(p.CostRatePercent, "costRatePercent"); err != nil {
		return err
	}
	if p.DiscountAmount.IsNegative() {
		return fmt.Errorf("discountAmount must be greater than or equal to 0")
	}
	if _, err := pricing.ParseCostMode(string(p.CostMode)); err != nil {
		return err
	}
	return nil
}

func checkPercent(value decimal.Decimal, field string) error {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%s must be between 0 and 100", field)
	}
	return nil
}

func selectionIDs(sel build.Selection) map[catalog.Category]string {
	ids := make(map[catalog.Category]string, sel.Len())
	for _, item := range sel.Items() {
		ids[item.Category] = item.ID
	}
	return ids
}

func addonIDs(lines []build.AddonLine) []addonRequest {
	out := make([]addonRequest, 0, len(lines))
	for _, line := range lines {
		out = append(out, addonRequest{ID: line.Item.ID, Quantity: line.Quantity})
	}
	return out
}

func splitIDs(raw string) []string {
	var ids []string
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *server) writeRequestError(w http.ResponseWriter, err error) {
	var bad badRequestError
	if errors.As(err, &bad) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeInternal(w, "failed to process build", err)
}

func (s *server) writeInternal(w http.ResponseWriter, message string, err error) {
	log.Printf("%s: %v", message, err)
	writeError(w, http.StatusInternalServerError, message)
}
