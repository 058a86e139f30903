package handlers

import (
	"context"
	"net/http"
	"strings"

	"erp-project/backend/auth"
	"erp-project/backend/services"
	"erp-project/backend/store"
	"erp-project/backend/utils"

	"github.com/gorilla/mux"
)

// Resource is the service behind one collection endpoint.
type Resource[T any] interface {
	Label() string
	List(ctx context.Context, filter store.Filter) ([]*T, error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, payload []byte) (*T, error)
	Update(ctx context.Context, id string, payload []byte) (*T, error)
	Delete(ctx context.Context, id string) error
}

type ResourceHandler[T any] struct {
	Service Resource[T]
	filters []string
	visible func(identity *auth.Identity, doc *T) bool
}

// NewResourceHandler serves GET/POST on the collection and GET/PUT/DELETE on
// single documents. Each filter names a query parameter matched for equality
// against the stored field of the same name on list requests.
func NewResourceHandler[T any](service Resource[T], filters ...string) *ResourceHandler[T] {
	return &ResourceHandler[T]{Service: service, filters: filters}
}

// Visible restricts reads to the documents the predicate accepts for the
// caller. Hidden documents are left out of lists and answer 404 when fetched
// by id.
func (h *ResourceHandler[T]) Visible(visible func(identity *auth.Identity, doc *T) bool) *ResourceHandler[T] {
	h.visible = visible
	return h
}

func (h *ResourceHandler[T]) canSee(r *http.Request, doc *T) bool {
	if h.visible == nil {
		return true
	}
	identity, _ := auth.FromContext(r.Context())
	return h.visible(identity, doc)
}

func (h *ResourceHandler[T]) GetAll(w http.ResponseWriter, r *http.Request) {
	filter := store.Filter{}
	query := r.URL.Query()
	for _, name := range h.filters {
		if value := strings.TrimSpace(query.Get(name)); value != "" {
			filter[name] = value
		}
	}

	docs, err := h.Service.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.visible != nil {
		shown := make([]*T, 0, len(docs))
		for _, doc := range docs {
			if h.canSee(r, doc) {
				shown = append(shown, doc)
			}
		}
		docs = shown
	}
	utils.RespondData(w, http.StatusOK, docs)
}

func (h *ResourceHandler[T]) GetOne(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !h.canSee(r, doc) {
		writeError(w, r, &services.NotFoundError{Label: h.Service.Label()})
		return
	}
	utils.RespondData(w, http.StatusOK, doc)
}

func (h *ResourceHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.Service.Create(r.Context(), body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusCreated, doc)
}

func (h *ResourceHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.Service.Update(r.Context(), mux.Vars(r)["id"], body)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondData(w, http.StatusOK, doc)
}

func (h *ResourceHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err)
		return
	}
	utils.RespondMessage(w, http.StatusOK, h.Service.Label()+" deleted successfully")
}

// NextNumber serves the advisory next order number.
func NextNumber(next func(ctx context.Context) (string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		number, err := next(r.Context())
		if err != nil {
			writeError(w, r, err)
			return
		}
		utils.RespondData(w, http.StatusOK, map[string]string{"orderNumber": number})
	}
}
