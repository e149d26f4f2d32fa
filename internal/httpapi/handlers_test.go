package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/unkn0wn-root/storefront"
	"github.com/unkn0wn-root/storefront/catalog"
	"github.com/unkn0wn-root/storefront/catalog/memory"
	"github.com/unkn0wn-root/storefront/provider/ristretto"
)

func setupApp(t *testing.T) (*memory.Store, http.Handler) {
	t.Helper()
	cat := memory.New()
	p, err := ristretto.New(ristretto.DefaultConfig())
	if err != nil {
		t.Fatalf("ristretto: %v", err)
	}
	f, err := storefront.New(storefront.Options{
		Namespace:       "http-test",
		Catalog:         cat,
		Provider:        p,
		RefreshOnDelete: true,
	})
	if err != nil {
		t.Fatalf("storefront.New: %v", err)
	}
	t.Cleanup(func() { _ = f.Close(context.Background()) })
	return cat, NewRouter(NewHandler(cat, f, zap.NewNop()))
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func seed(t *testing.T, cat *memory.Store, name string, featured bool) catalog.Product {
	t.Helper()
	p, err := cat.Create(context.Background(), catalog.Product{Name: name, Price: 10, Category: "shoes", IsFeatured: featured})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFeaturedEmptyIs404(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodGet, "/api/products/featured", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	var e jsonError
	_ = json.Unmarshal(rr.Body.Bytes(), &e)
	if e.Message != "No featured products found" {
		t.Fatalf("message: %q", e.Message)
	}
}

func TestToggleThenFeatured(t *testing.T) {
	cat, h := setupApp(t)
	a := seed(t, cat, "a", false)
	seed(t, cat, "b", false)

	rr := do(t, h, http.MethodPatch, "/api/products/"+a.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("toggle: %d %s", rr.Code, rr.Body.String())
	}
	var toggled catalog.Product
	_ = json.Unmarshal(rr.Body.Bytes(), &toggled)
	if !toggled.IsFeatured {
		t.Fatalf("toggle response not featured")
	}

	rr = do(t, h, http.MethodGet, "/api/products/featured", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("featured: %d", rr.Code)
	}
	var got []catalog.Product
	_ = json.Unmarshal(rr.Body.Bytes(), &got)
	if len(got) != 1 || got[0].ID != a.ID {
		t.Fatalf("featured body: %+v", got)
	}
}

func TestFeaturePathServesSnapshot(t *testing.T) {
	cat, h := setupApp(t)
	a := seed(t, cat, "a", true)
	for _, path := range []string{"/api/products/feature", "/api/products/featured"} {
		rr := do(t, h, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, rr.Code)
		}
		var got []catalog.Product
		_ = json.Unmarshal(rr.Body.Bytes(), &got)
		if len(got) != 1 || got[0].ID != a.ID {
			t.Fatalf("%s body: %+v", path, got)
		}
	}
}

func TestToggleUnknownIs404(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodPatch, "/api/products/missing", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteFeaturedRefreshesSnapshot(t *testing.T) {
	cat, h := setupApp(t)
	a := seed(t, cat, "a", true)
	if rr := do(t, h, http.MethodGet, "/api/products/featured", nil); rr.Code != http.StatusOK {
		t.Fatalf("warm: %d", rr.Code)
	}

	rr := do(t, h, http.MethodDelete, "/api/products/"+a.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: %d", rr.Code)
	}
	if rr := do(t, h, http.MethodGet, "/api/products/featured", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("deleted product still served, status %d", rr.Code)
	}
	if rr := do(t, h, http.MethodDelete, "/api/products/"+a.ID, nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: %d", rr.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodPost, "/api/products", createProductReq{Name: "lamp", Price: 12.5, Category: "home"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	var p catalog.Product
	_ = json.Unmarshal(rr.Body.Bytes(), &p)
	if p.ID == "" || p.IsFeatured {
		t.Fatalf("created: %+v", p)
	}

	rr = do(t, h, http.MethodPost, "/api/products", createProductReq{Name: "bad", Price: -1})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("negative price: %d", rr.Code)
	}
}

func TestListCategoryRecommendation(t *testing.T) {
	cat, h := setupApp(t)
	for _, n := range []string{"a", "b", "c", "d", "e"} {
		seed(t, cat, n, false)
	}
	if _, err := cat.Create(context.Background(), catalog.Product{Name: "hat", Category: "hats"}); err != nil {
		t.Fatal(err)
	}

	var list struct{ Products []catalog.Product }
	_ = json.Unmarshal(do(t, h, http.MethodGet, "/api/products", nil).Body.Bytes(), &list)
	if len(list.Products) != 6 {
		t.Fatalf("list: %d", len(list.Products))
	}

	var byCat []catalog.Product
	if err := json.Unmarshal(do(t, h, http.MethodGet, "/api/products/category/hats", nil).Body.Bytes(), &byCat); err != nil {
		t.Fatalf("category body is not a bare array: %v", err)
	}
	if len(byCat) != 1 || byCat[0].Name != "hat" {
		t.Fatalf("category: %+v", byCat)
	}

	var recs []recommendation
	_ = json.Unmarshal(do(t, h, http.MethodGet, "/api/products/recommendation", nil).Body.Bytes(), &recs)
	if len(recs) != recommendationSize {
		t.Fatalf("recommendation: %d", len(recs))
	}
}

func TestRequestIDHeader(t *testing.T) {
	_, h := setupApp(t)
	rr := do(t, h, http.MethodGet, "/healthz", nil)
	if rr.Header().Get(headerRequestID) == "" {
		t.Fatalf("missing request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "abc")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get(headerRequestID); got != "abc" {
		t.Fatalf("request id not propagated: %q", got)
	}
}
