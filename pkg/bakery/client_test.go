package bakery

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/config"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(config.BackendConfig{
		BaseURL:      server.URL,
		Timeout:      5 * time.Second,
		ServiceToken: "svc-token",
	}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client, server
}

func TestListProducts(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer svc-token" {
			t.Errorf("missing service token, got %q", got)
		}
		json.NewEncoder(w).Encode([]Product{
			{ID: 1, Name: "Sourdough", Price: 1200, IsActive: true},
			{ID: 2, Name: "Baguette", Price: 800, IsActive: false},
		})
	}))

	products, err := client.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if products[0].Name != "Sourdough" || products[0].Price != 1200 {
		t.Fatalf("unexpected product %+v", products[0])
	}
}

func TestSubmitSale(t *testing.T) {
	t.Parallel()

	var received SaleSubmission
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/sales" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		json.NewEncoder(w).Encode(SaleRecord{ID: 77})
	}))

	record, err := client.SubmitSale(context.Background(), SaleSubmission{
		Items:         []SaleItem{{ProductID: 1, Name: "Sourdough", Price: 1200, Quantity: 2}},
		Subtotal:      2400,
		Total:         2592,
		Tax:           192,
		CashierID:     5,
		PaymentMethod: "cash",
		Status:        "paid",
		AmountPaid:    2592,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.ID != 77 {
		t.Fatalf("expected sale id 77, got %d", record.ID)
	}
	if received.CashierID != 5 || len(received.Items) != 1 {
		t.Fatalf("payload not delivered: %+v", received)
	}
}

func TestSubmitSaleRejection(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "duplicate sale"})
	}))

	_, err := client.SubmitSale(context.Background(), SaleSubmission{})
	if err == nil {
		t.Fatal("expected rejection error")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestServerErrorMapsToDependency(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListCustomers(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("unexpected error code: %v", err)
	}
}

func TestUploadReceipt(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/media/receipts" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("image")
		if err != nil {
			t.Errorf("missing image part: %v", err)
		} else {
			defer file.Close()
			if header.Filename != "receipt.png" {
				t.Errorf("unexpected filename %q", header.Filename)
			}
		}
		json.NewEncoder(w).Encode(map[string]string{"url": "https://media.example/receipt.png"})
	}))

	url, err := client.UploadReceipt(context.Background(), "receipt.png", []byte{0x89, 0x50})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://media.example/receipt.png" {
		t.Fatalf("unexpected url %q", url)
	}
}
