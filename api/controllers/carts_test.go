package controllers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/cart"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/catalog"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/bakery"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

type staticCatalog struct {
	snap *catalog.Snapshot
}

func (s *staticCatalog) Current() *catalog.Snapshot { return s.snap }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newCatalog() *staticCatalog {
	return &staticCatalog{snap: catalog.NewSnapshot(
		[]bakery.Product{
			{ID: 1, Name: "Sourdough Loaf", Price: 500, IsActive: true},
			{ID: 2, Name: "Croissant", Price: 250, IsActive: true},
		},
		[]bakery.StockLevel{
			{ProductID: 1, Quantity: 4},
			{ProductID: 2, Quantity: 0},
		},
		[]bakery.Customer{
			{ID: 10, FullName: "Ada Mensah", CreditLimit: 5000, Balance: 1000},
		},
		[]bakery.PricingService{
			{ID: 20, Name: "Tax", Rate: 7.5},
			{ID: 21, Name: "Staff Discount", Rate: 10},
		},
	)}
}

func newCartRouter(t *testing.T) (*chi.Mux, *cart.Store) {
	t.Helper()
	store, err := cart.NewStore(newCatalog())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	logg := testLogger()
	r := chi.NewRouter()
	r.Route("/api/v1/carts", func(r chi.Router) {
		r.Get("/", CartList(store, logg))
		r.Post("/", CartCreate(store, logg))
		r.Route("/{cartID}", func(r chi.Router) {
			r.Get("/", CartDetail(store, logg))
			r.Patch("/", CartUpdate(store, logg))
			r.Delete("/", CartRemove(store, logg))
			r.Post("/activate", CartActivate(store, logg))
			r.Post("/items", CartAddItem(store, logg))
			r.Put("/items/{productID}", CartSetItemQuantity(store, logg))
			r.Put("/discount", CartSetDiscount(store, logg))
			r.Put("/payment/method", CartSetPaymentMethod(store, logg))
			r.Patch("/payment", CartUpdatePayment(store, logg))
			r.Post("/payment/receipt", CartAttachReceipt(store, logg))
		})
	})
	return r, store
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func decodeData(t *testing.T, resp *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, resp.Body.String())
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v (%s)", err, resp.Body.String())
	}
	return envelope.Error.Code
}

func TestCartListSeedsOneCart(t *testing.T) {
	router, _ := newCartRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/carts", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var body cartListResponse
	decodeData(t, resp, &body)
	if len(body.Carts) != 1 || body.ActiveCartID != 1 {
		t.Fatalf("unexpected list %+v", body)
	}
}

func TestCartCreateReturnsNewCart(t *testing.T) {
	router, store := newCartRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/carts", "")
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}

	var created cart.Cart
	decodeData(t, resp, &created)
	if created.ID != 2 || created.Name != "Group 2" {
		t.Fatalf("unexpected cart %+v", created)
	}
	if store.ActiveCartID() != 2 {
		t.Fatalf("expected new cart active")
	}
}

func TestCartAddItemAndQuantityFlow(t *testing.T) {
	router, _ := newCartRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/carts/1/items", `{"product_id":1}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var updated cart.Cart
	decodeData(t, resp, &updated)
	if len(updated.Items) != 1 || updated.Items[0].Quantity != 1 {
		t.Fatalf("unexpected items %+v", updated.Items)
	}
	if updated.Totals.Subtotal != 500 {
		t.Fatalf("expected subtotal 500, got %v", updated.Totals.Subtotal)
	}

	resp = doJSON(t, router, http.MethodPut, "/api/v1/carts/1/items/1", `{"quantity":3}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	decodeData(t, resp, &updated)
	if updated.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", updated.Items[0].Quantity)
	}

	resp = doJSON(t, router, http.MethodPut, "/api/v1/carts/1/items/1", `{"quantity":9}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeInventoryLimit) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestCartAddItemOutOfStock(t *testing.T) {
	router, _ := newCartRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/carts/1/items", `{"product_id":2}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeOutOfStock) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestCartRemoveLastRejected(t *testing.T) {
	router, _ := newCartRouter(t)

	resp := doJSON(t, router, http.MethodDelete, "/api/v1/carts/1", "")
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", resp.Code)
	}
	if code := errorCode(t, resp); code != string(pkgerrors.CodeLastCartRemoval) {
		t.Fatalf("unexpected code %s", code)
	}
}

func TestCartUpdateNameAndNote(t *testing.T) {
	router, _ := newCartRouter(t)

	resp := doJSON(t, router, http.MethodPatch, "/api/v1/carts/1", `{"name":"Walk-ins","note":"morning rush"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var updated cart.Cart
	decodeData(t, resp, &updated)
	if updated.Name != "Walk-ins" || updated.Note != "morning rush" {
		t.Fatalf("unexpected cart %+v", updated)
	}
}

func TestCartSetDiscountComputesTotals(t *testing.T) {
	router, _ := newCartRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/carts/1/items", `{"product_id":1}`)
	resp := doJSON(t, router, http.MethodPut, "/api/v1/carts/1/discount", `{"service_id":21}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var updated cart.Cart
	decodeData(t, resp, &updated)
	if updated.Totals.DiscountAmount != 50 {
		t.Fatalf("expected discount 50, got %v", updated.Totals.DiscountAmount)
	}
}

func TestCartSetPaymentMethodRejectsUnknown(t *testing.T) {
	router, _ := newCartRouter(t)

	resp := doJSON(t, router, http.MethodPut, "/api/v1/carts/1/payment/method", `{"method":"barter"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartPaymentUpdateFlow(t *testing.T) {
	router, _ := newCartRouter(t)

	resp := doJSON(t, router, http.MethodPut, "/api/v1/carts/1/payment/method", `{"method":"credit"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, router, http.MethodPatch, "/api/v1/carts/1/payment", `{"customer_id":10,"amount_paid":100,"due_date":"2026-09-15"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var updated cart.Cart
	decodeData(t, resp, &updated)
	if updated.Payment.CustomerID != 10 || updated.Payment.AmountPaid != 100 || updated.Payment.DueDate != "2026-09-15" {
		t.Fatalf("unexpected payment %+v", updated.Payment)
	}
}

func TestCartPaymentUpdateRejectsBadDueDate(t *testing.T) {
	router, _ := newCartRouter(t)

	resp := doJSON(t, router, http.MethodPatch, "/api/v1/carts/1/payment", `{"due_date":"15-09-2026"}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartAttachReceipt(t *testing.T) {
	router, store := newCartRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "receipt.jpg")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte("jpegbytes")); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/carts/1/payment/receipt", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	stored, err := store.Get(1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Payment.ReceiptName != "receipt.jpg" || len(stored.Payment.Receipt) == 0 {
		t.Fatalf("expected receipt stored, got %+v", stored.Payment)
	}
}

func TestCartDetailUnknownID(t *testing.T) {
	router, _ := newCartRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/carts/42", "")
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestCartActivateIgnoresUnknownID(t *testing.T) {
	router, store := newCartRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/carts/42/activate", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if store.ActiveCartID() != 1 {
		t.Fatalf("expected active cart unchanged")
	}
}
