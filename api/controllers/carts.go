package controllers

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/responses"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/api/validators"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/internal/cart"
	pkgerrors "github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/errors"
	"github.com/coolabdulsamad/purple-premium-bread-sub002/pkg/logger"
)

// maxReceiptBytes caps receipt image uploads at 8 MiB.
const maxReceiptBytes = 8 << 20

func cartIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "cartID")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cart id")
	}
	return id, nil
}

func productIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return id, nil
}

type cartListResponse struct {
	Carts        []cart.Cart `json:"carts"`
	ActiveCartID int         `json:"active_cart_id"`
}

func CartList(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, cartListResponse{
			Carts:        store.Carts(),
			ActiveCartID: store.ActiveCartID(),
		})
	}
}

func CartCreate(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := store.CreateCart()
		created, err := store.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func CartDetail(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		found, err := store.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, found)
	}
}

func CartRemove(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := store.RemoveCart(id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"active_cart_id": store.ActiveCartID()})
	}
}

func CartActivate(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store.SetActiveCart(id)
		responses.WriteSuccess(w, map[string]int{"active_cart_id": store.ActiveCartID()})
	}
}

type cartUpdateRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Note *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

func CartUpdate(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Name != nil {
			if err := store.SetName(id, *payload.Name); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if payload.Note != nil {
			if err := store.SetNote(id, *payload.Note); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		updated, err := store.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,min=1"`
}

// CartAddItem adds one unit of a product to the cart, or increments the
// existing line by one.
func CartAddItem(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.AddProduct(id, payload.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := store.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartSetItemQuantity replaces a line's quantity; zero removes the line.
func CartSetItemQuantity(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.SetLineItemQuantity(id, productID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := store.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type setDiscountRequest struct {
	ServiceID int64 `json:"service_id" validate:"min=0"`
}

func CartSetDiscount(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setDiscountRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.SetDiscount(id, payload.ServiceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := store.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type setPaymentMethodRequest struct {
	Method string `json:"method" validate:"required,oneof=cash card bank_transfer credit"`
}

// CartSetPaymentMethod switches the settlement method, resetting every other
// payment field.
func CartSetPaymentMethod(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload setPaymentMethodRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := cart.ParsePaymentMethod(payload.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		if err := store.SetPaymentMethod(id, method); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := store.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

type paymentUpdateRequest struct {
	Reference  *string  `json:"reference,omitempty" validate:"omitempty,max=120"`
	CustomerID *int64   `json:"customer_id,omitempty" validate:"omitempty,min=0"`
	AmountPaid *float64 `json:"amount_paid,omitempty"`
	DueDate    *string  `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// CartUpdatePayment applies field-level payment updates. Each present field
// is a plain replace; absent fields are left untouched.
func CartUpdatePayment(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload paymentUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if payload.Reference != nil {
			if err := store.SetPaymentReference(id, *payload.Reference); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if payload.CustomerID != nil {
			if err := store.SetPaymentCustomer(id, *payload.CustomerID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if payload.AmountPaid != nil {
			if err := store.SetAmountPaid(id, *payload.AmountPaid); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if payload.DueDate != nil {
			if err := store.SetDueDate(id, *payload.DueDate); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		updated, err := store.Get(id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

// CartAttachReceipt stores a receipt image on the cart's payment block. The
// image is uploaded to the back office at checkout, not here.
func CartAttachReceipt(store *cart.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := cartIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxReceiptBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "image file required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxReceiptBytes))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image"))
			return
		}

		if err := store.SetReceiptImage(id, header.Filename, data); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"filename": header.Filename,
			"size":     len(data),
		})
	}
}
