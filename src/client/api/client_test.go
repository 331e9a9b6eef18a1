package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/apimgr/catalog/src/model"
)

var sampleProducts = []model.Product{
	{
		ID:          1,
		Title:       "Fjallraven - Foldsack No. 1 Backpack",
		Price:       109.95,
		Description: "Your perfect pack for everyday use",
		Category:    "men's clothing",
		Image:       "https://fakestoreapi.com/img/1.jpg",
		Rating:      &model.Rating{Rate: 3.9, Count: 120},
	},
	{
		ID:       2,
		Title:    "Mens Casual Premium Slim Fit T-Shirts",
		Price:    22.3,
		Category: "men's clothing",
		Rating:   &model.Rating{Rate: 4.1, Count: 259},
	},
	{
		ID:       3,
		Title:    "Unrated Lamp",
		Price:    15,
		Category: "home",
	},
}

// newCatalogServer returns a fake catalog that serves sampleProducts
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(sampleProducts)
	})
	mux.HandleFunc("GET /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, p := range sampleProducts {
			if r.PathValue("id") == strconv.Itoa(p.ID) {
				json.NewEncoder(w).Encode(p)
				return
			}
		}
		http.Error(w, "product not found", http.StatusNotFound)
	})
	mux.HandleFunc("POST /products", func(w http.ResponseWriter, r *http.Request) {
		var p model.Product
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		p.ID = 21
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(p)
	})
	mux.HandleFunc("DELETE /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "404" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(sampleProducts[0])
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// Tests for NewClient

func TestNewClient(t *testing.T) {
	client := NewClient("https://fakestoreapi.com/", 30)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.BaseURL != "https://fakestoreapi.com" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", client.BaseURL)
	}
	if client.HTTPClient == nil {
		t.Fatal("HTTPClient should be initialized")
	}
	if client.HTTPClient.Timeout != 30*time.Second {
		t.Errorf("HTTPClient.Timeout = %v, want %v", client.HTTPClient.Timeout, 30*time.Second)
	}
	if client.Tracer == nil {
		t.Error("Tracer should default to a noop tracer")
	}
}

func TestNewClientZeroTimeout(t *testing.T) {
	client := NewClient(DefaultBaseURL, 0)

	if client.HTTPClient.Timeout != 0 {
		t.Errorf("HTTPClient.Timeout = %v, want 0", client.HTTPClient.Timeout)
	}
}

// Tests for GetAllProducts

func TestGetAllProducts(t *testing.T) {
	server := newCatalogServer(t)
	client := NewClient(server.URL, 5)

	products, err := client.GetAllProducts(context.Background())
	if err != nil {
		t.Fatalf("GetAllProducts() error = %v", err)
	}
	if !reflect.DeepEqual(products, sampleProducts) {
		t.Errorf("GetAllProducts() = %+v, want %+v", products, sampleProducts)
	}
}

func TestGetAllProductsRepeatable(t *testing.T) {
	server := newCatalogServer(t)
	client := NewClient(server.URL, 5)

	first, err := client.GetAllProducts(context.Background())
	if err != nil {
		t.Fatalf("first GetAllProducts() error = %v", err)
	}
	second, err := client.GetAllProducts(context.Background())
	if err != nil {
		t.Fatalf("second GetAllProducts() error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated GetAllProducts() calls returned different results")
	}
	for i := range first {
		if first[i].ID != sampleProducts[i].ID {
			t.Errorf("order not preserved at %d: got id %d, want %d", i, first[i].ID, sampleProducts[i].ID)
		}
	}
}

// Tests for GetProductByID

func TestGetProductByID(t *testing.T) {
	server := newCatalogServer(t)
	client := NewClient(server.URL, 5)

	product, err := client.GetProductByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetProductByID() error = %v", err)
	}
	if product.Title != "Mens Casual Premium Slim Fit T-Shirts" {
		t.Errorf("Title = %q", product.Title)
	}
	if product.Rating == nil || product.Rating.Count != 259 {
		t.Errorf("Rating = %+v", product.Rating)
	}
}

func TestGetProductByIDNotFound(t *testing.T) {
	server := newCatalogServer(t)
	client := NewClient(server.URL, 5)

	_, err := client.GetProductByID(context.Background(), 999)
	if err == nil {
		t.Fatal("GetProductByID() error = nil, want not found")
	}
	if !errors.Is(err, model.ErrNotFound) {
		t.Errorf("GetProductByID() error kind = %v, want NOT_FOUND", model.KindOf(err))
	}
	if errors.Is(err, model.ErrAPI) {
		t.Error("a 404 must not be reported as a generic API error")
	}

	var apiErr *model.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("error = %#v, want status 404", err)
	}
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"bad request", http.StatusBadRequest, model.ErrAPI},
		{"unauthorized", http.StatusUnauthorized, model.ErrAPI},
		{"not found", http.StatusNotFound, model.ErrNotFound},
		{"server error", http.StatusInternalServerError, model.ErrAPI},
		{"unavailable", http.StatusServiceUnavailable, model.ErrAPI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			client := NewClient(server.URL, 5)
			_, err := client.GetProductByID(context.Background(), 1)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v (%v), want %v", err, model.KindOf(err), tt.want)
			}
		})
	}
}

func TestMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5)

	if _, err := client.GetAllProducts(context.Background()); !errors.Is(err, model.ErrAPI) {
		t.Errorf("GetAllProducts() error = %v, want API_ERROR", err)
	}
	if _, err := client.GetProductByID(context.Background(), 1); !errors.Is(err, model.ErrAPI) {
		t.Errorf("GetProductByID() error = %v, want API_ERROR", err)
	}
}

func TestEmptyResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 5)
	if _, err := client.GetProductByID(context.Background(), 1); !errors.Is(err, model.ErrAPI) {
		t.Errorf("GetProductByID() error = %v, want API_ERROR", err)
	}
}

func TestNullResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5)
	ctx := context.Background()

	calls := map[string]func() (any, error){
		"GetAllProducts": func() (any, error) { return client.GetAllProducts(ctx) },
		"GetProductByID": func() (any, error) { return client.GetProductByID(ctx, 1) },
		"CreateProduct": func() (any, error) {
			return client.CreateProduct(ctx, model.ProductInput{Title: "Shirt", Price: 1, Category: "c"})
		},
		"DeleteProduct": func() (any, error) { return client.DeleteProduct(ctx, 1) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			got, err := call()
			if !errors.Is(err, model.ErrAPI) {
				t.Errorf("%s() error = %v, want API_ERROR", name, err)
			}
			if err != nil && !strings.Contains(err.Error(), "empty response") {
				t.Errorf("%s() error = %v, want empty response", name, err)
			}
			if !reflect.ValueOf(got).IsNil() {
				t.Errorf("%s() = %+v, want nil", name, got)
			}
		})
	}
}

func TestEmptyListIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	products, err := NewClient(server.URL, 5).GetAllProducts(context.Background())
	if err != nil {
		t.Fatalf("GetAllProducts() error = %v", err)
	}
	if len(products) != 0 {
		t.Errorf("len(products) = %d, want 0", len(products))
	}
}

func TestTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, 5)
	_, err := client.GetAllProducts(context.Background())
	if !errors.Is(err, model.ErrAPI) {
		t.Errorf("GetAllProducts() error = %v, want API_ERROR", err)
	}
}

// Tests for CreateProduct

func TestCreateProduct(t *testing.T) {
	var gotBody map[string]any
	var gotHeader http.Header

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/products" {
			t.Errorf("request = %s %s, want POST /products", r.Method, r.URL.Path)
		}
		gotHeader = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &gotBody)
		w.Write([]byte(`{"id":21,"title":"Shirt","price":19.99,"description":"No description provided","category":"Clothing","image":"https://via.placeholder.com/300"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5)
	product, err := client.CreateProduct(context.Background(), model.ProductInput{
		Title:       "Shirt",
		Price:       19.99,
		Category:    "Clothing",
		Description: "No description provided",
	})
	if err != nil {
		t.Fatalf("CreateProduct() error = %v", err)
	}

	if product.ID != 21 {
		t.Errorf("ID = %d, want the id assigned by the service", product.ID)
	}
	if gotHeader.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type = %q", gotHeader.Get("Content-Type"))
	}
	if gotBody["title"] != "Shirt" || gotBody["price"] != 19.99 || gotBody["category"] != "Clothing" {
		t.Errorf("body = %v", gotBody)
	}
	if gotBody["image"] != PlaceholderImage {
		t.Errorf("image = %v, want %q", gotBody["image"], PlaceholderImage)
	}
	rating, ok := gotBody["rating"].(map[string]any)
	if !ok || rating["rate"] != float64(0) || rating["count"] != float64(0) {
		t.Errorf("rating = %v, want zero rating", gotBody["rating"])
	}
}

// Tests for DeleteProduct

func TestDeleteProduct(t *testing.T) {
	server := newCatalogServer(t)
	client := NewClient(server.URL, 5)

	product, err := client.DeleteProduct(context.Background(), 1)
	if err != nil {
		t.Fatalf("DeleteProduct() error = %v", err)
	}
	if product.ID != 1 {
		t.Errorf("ID = %d, want 1", product.ID)
	}

	if _, err := client.DeleteProduct(context.Background(), 404); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("DeleteProduct(404) error = %v, want NOT_FOUND", err)
	}
}

// Tests for request headers

func TestRequestHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5)
	if _, err := client.GetAllProducts(context.Background()); err != nil {
		t.Fatalf("GetAllProducts() error = %v", err)
	}

	if got.Get("Accept") != "application/json" {
		t.Errorf("Accept = %q", got.Get("Accept"))
	}
	if got.Get("Content-Type") != "" {
		t.Errorf("Content-Type = %q, want none for a bodiless request", got.Get("Content-Type"))
	}
	if !strings.HasPrefix(got.Get("User-Agent"), "catalog-cli/") {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
	if len(got.Get(RequestIDHeader)) != 36 {
		t.Errorf("%s = %q, want a uuid", RequestIDHeader, got.Get(RequestIDHeader))
	}
}

func TestEachRequestGetsNewID(t *testing.T) {
	var ids []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get(RequestIDHeader))
		w.Write([]byte("[]"))
	}))
	defer server.Close()

	client := NewClient(server.URL, 5)
	client.GetAllProducts(context.Background())
	client.GetAllProducts(context.Background())

	if len(ids) != 2 || ids[0] == ids[1] {
		t.Errorf("request ids = %v, want two distinct ids", ids)
	}
}

func TestNilFieldsFallBack(t *testing.T) {
	server := newCatalogServer(t)
	client := &Client{BaseURL: server.URL}

	if _, err := client.GetAllProducts(context.Background()); err != nil {
		t.Errorf("GetAllProducts() with zero-value client error = %v", err)
	}
}
