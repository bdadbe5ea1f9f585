package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/comanda/internal/domain/order"
)

// lineItemCreateReq mirrors the ordered-food payload from the cart flow.
type lineItemCreateReq struct {
	OrderID  int64   `json:"order"`
	FoodID   int64   `json:"foodItem"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type lineItemUpdateReq struct {
	Quantity *int     `json:"quantity"`
	Price    *float64 `json:"price"`
}

// AddLineItem serves POST /api/orderFood.
func (h *Handler) AddLineItem(w http.ResponseWriter, r *http.Request) {
	var req lineItemCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondData(w, OutcomeRejected, "Provide the data of the food being ordered!", nil)
		return
	}

	id, err := h.orders.AddLineItem(r.Context(), order.LineItem{
		OrderID:  req.OrderID,
		FoodID:   req.FoodID,
		Quantity: req.Quantity,
		Price:    decimal.NewFromFloat(req.Price),
	})
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, "The food item was successfully added", id)
}

// LineItemsByOrder serves GET /api/orderFood/{id}. The id is the owning
// order's id, which is what the waiter UI sends on this route.
func (h *Handler) LineItemsByOrder(w http.ResponseWriter, r *http.Request) {
	items, err := h.orders.LineItems(r.Context(), pathID(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, OutcomeSuccess, "List found", func(e *jx.Encoder) {
		e.ArrStart()
		for _, it := range items {
			encodeLineItem(e, it)
		}
		e.ArrEnd()
	})
}

// UpdateLineItem serves PUT /api/orderFood/{id} where id is the line item id.
func (h *Handler) UpdateLineItem(w http.ResponseWriter, r *http.Request) {
	var req lineItemUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondData(w, OutcomeRejected, "Provide the updated data!", nil)
		return
	}

	patch := order.LineItemPatch{Quantity: req.Quantity}
	if req.Price != nil {
		price := decimal.NewFromFloat(*req.Price)
		patch.Price = &price
	}

	if err := h.orders.UpdateLineItem(r.Context(), pathID(r, "id"), patch); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, OutcomeSuccess, "Ordered item was successfully updated", nil)
}

// DeleteLineItem serves DELETE /api/orderFood/{id}.
func (h *Handler) DeleteLineItem(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.RemoveLineItem(r.Context(), pathID(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, OutcomeSuccess, "The ordered item was successfully removed", nil)
}
