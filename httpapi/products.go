package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/zourit/zourit/store"
)

type (
	createProductBody struct {
		Name        string  `json:"name"`
		Description string  `json:"description"`
		Price       float64 `json:"price"`
		Quantity    int64   `json:"quantity"`
	}

	// pointers so an omitted field means "leave as is"
	updateProductBody struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Quantity    *int64   `json:"quantity"`
	}
)

func productID(r *http.Request) (int64, bool) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	return id, err == nil
}

func (h *handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var body createProductBody
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p, err := h.st.CreateProduct(r.Context(), store.Product{
		Name:        body.Name,
		Description: body.Description,
		Price:       body.Price,
		Quantity:    body.Quantity,
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	p, err := h.st.Product(r.Context(), id)
	var notFound store.ProductNotFound
	if errors.As(err, &notFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	} else if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.st.ListProducts(r.Context())
	if err != nil {
		internalError(w, r, err)
		return
	}
	if products == nil {
		products = []store.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var body updateProductBody
	if err := decodeJSON(r, &body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	p, err := h.st.Product(r.Context(), id)
	var notFound store.ProductNotFound
	if errors.As(err, &notFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	} else if err != nil {
		internalError(w, r, err)
		return
	}
	if body.Name != nil {
		p.Name = *body.Name
	}
	if body.Description != nil {
		p.Description = *body.Description
	}
	if body.Price != nil {
		p.Price = *body.Price
	}
	if body.Quantity != nil {
		p.Quantity = *body.Quantity
	}
	p, err = h.st.UpdateProduct(r.Context(), p)
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(r)
	if !ok {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	err := h.st.DeleteProduct(r.Context(), id)
	var notFound store.ProductNotFound
	if errors.As(err, &notFound) {
		http.Error(w, "product not found", http.StatusNotFound)
		return
	} else if err != nil {
		internalError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
