package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/storefront"
	"github.com/unkn0wn-root/storefront/catalog"
)

const recommendationSize = 4

// Handler serves product routes. Featured reads and every write that can
// change the featured set go through storefront.Featured.
type Handler struct {
	catalog  catalog.Store
	featured storefront.Featured
	log      *zap.Logger
}

func NewHandler(c catalog.Store, f storefront.Featured, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{catalog: c, featured: f, log: log}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	p := r.PathPrefix("/api/products").Subrouter()
	p.HandleFunc("", h.ListProducts).Methods(http.MethodGet)
	p.HandleFunc("", h.CreateProduct).Methods(http.MethodPost)
	p.HandleFunc("/feature", h.FeaturedProducts).Methods(http.MethodGet)
	p.HandleFunc("/featured", h.FeaturedProducts).Methods(http.MethodGet)
	p.HandleFunc("/recommendation", h.Recommendations).Methods(http.MethodGet)
	p.HandleFunc("/category/{category}", h.ByCategory).Methods(http.MethodGet)
	p.HandleFunc("/{id}", h.ToggleFeatured).Methods(http.MethodPatch)
	p.HandleFunc("/{id}", h.DeleteProduct).Methods(http.MethodDelete)
}

type createProductReq struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

// recommendation is the trimmed product shape the recommendation carousel uses.
type recommendation struct {
	ID          string  `json:"_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Price       float64 `json:"price"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"cacheEnabled": h.featured.Enabled(),
	})
}

// ListProducts handles GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.FindAll(r.Context(), catalog.Filter{})
	if err != nil {
		h.serverError(w, r, "list products", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": nonNil(ps)})
}

// FeaturedProducts handles GET /api/products/feature (and /featured)
func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	ps, ok, err := h.featured.Get(r.Context())
	if err != nil {
		h.serverError(w, r, "featured products", err)
		return
	}
	if !ok {
		writeErr(w, http.StatusNotFound, "No featured products found", "")
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// ByCategory handles GET /api/products/category/{category}
func (h *Handler) ByCategory(w http.ResponseWriter, r *http.Request) {
	cat := mux.Vars(r)["category"]
	ps, err := h.catalog.FindAll(r.Context(), catalog.Filter{Category: cat})
	if err != nil {
		h.serverError(w, r, "products by category", err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(ps))
}

// Recommendations handles GET /api/products/recommendation
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.Sample(r.Context(), recommendationSize)
	if err != nil {
		h.serverError(w, r, "recommendations", err)
		return
	}
	out := make([]recommendation, 0, len(ps))
	for _, p := range ps {
		out = append(out, recommendation{ID: p.ID, Name: p.Name, Description: p.Description, Image: p.Image, Price: p.Price})
	}
	writeJSON(w, http.StatusOK, out)
}

// CreateProduct handles POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json", err.Error())
		return
	}
	p, err := h.catalog.Create(r.Context(), catalog.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	})
	var verr *catalog.ValidationError
	if errors.As(err, &verr) {
		writeErr(w, http.StatusBadRequest, "invalid product", verr.Error())
		return
	}
	if err != nil {
		h.serverError(w, r, "create product", err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// ToggleFeatured handles PATCH /api/products/{id}
func (h *Handler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	p, err := h.featured.Toggle(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, catalog.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "Product not found", "")
		return
	}
	if err != nil {
		h.serverError(w, r, "toggle featured", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	_, err := h.featured.Delete(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, catalog.ErrNotFound) {
		writeErr(w, http.StatusNotFound, "Product not found", "")
		return
	}
	if err != nil {
		h.serverError(w, r, "delete product", err)
		return
	}
	writeJSON(w, http.StatusOK, jsonError{Message: "Product deleted successfully"})
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.log.Error("handler failed",
		zap.String("op", op),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Error(err),
	)
	writeErr(w, http.StatusInternalServerError, "Server error", err.Error())
}

func nonNil(ps []catalog.Product) []catalog.Product {
	if ps == nil {
		return []catalog.Product{}
	}
	return ps
}
