package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/comanda/internal/domain/order"
)

// orderCreateReq mirrors the order payload sent by the menu/cart front end.
// Inline items are optional; when present the whole order is created in one
// transaction.
type orderCreateReq struct {
	TotalPrice  float64              `json:"totalPrice"`
	ServerID    *int64               `json:"waiter"`
	TableNumber *int                 `json:"tableNumber"`
	Items       []lineItemCreateBody `json:"items"`
}

type lineItemCreateBody struct {
	FoodID   int64   `json:"foodItem"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// orderUpdateReq mirrors the order patch sent by the waiter and cashier UIs.
type orderUpdateReq struct {
	TotalPrice  *float64 `json:"totalPrice"`
	PaymentID   *int64   `json:"payment"`
	ServerID    *int64   `json:"waiter"`
	TableNumber *int     `json:"tableNumber"`
	Status      *string  `json:"orderStatus"`
}

// GetOrder serves GET /api/order/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Get(r.Context(), pathID(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, OutcomeSuccess, "Order was found", func(e *jx.Encoder) {
		encodeOrder(e, *o)
	})
}

// IncompleteOrders serves GET /api/order/unfinished.
func (h *Handler) IncompleteOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.Incomplete(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, OutcomeSuccess, "List found", encodeOrders(list))
}

// OrdersByServer serves GET /api/order/server/{id}.
func (h *Handler) OrdersByServer(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.ByServer(r.Context(), pathID(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, OutcomeSuccess, "Orders found", encodeOrders(list))
}

// OrdersByDate serves POST /api/order/date with a {start, end} body.
func (h *Handler) OrdersByDate(w http.ResponseWriter, r *http.Request) {
	var req dateRangeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondList(w, OutcomeRejected, "Provide a valid date range!", nil)
		return
	}

	list, err := h.orders.ByDateRange(r.Context(), req.Start.Time, req.End.Time)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, OutcomeSuccess, "Orders found", encodeOrders(list))
}

// OrdersByMonth serves GET /api/order/month/{month} (month is 0-11).
func (h *Handler) OrdersByMonth(w http.ResponseWriter, r *http.Request) {
	month, perr := strconv.Atoi(r.PathValue("month"))
	if perr != nil {
		respondList(w, OutcomeRejected, "Provide a valid month number (0-11)!", nil)
		return
	}

	list, err := h.orders.ByMonth(r.Context(), month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, OutcomeSuccess, "Orders found", encodeOrders(list))
}

// OrdersByYear serves GET /api/order/year/{year}.
func (h *Handler) OrdersByYear(w http.ResponseWriter, r *http.Request) {
	list, err := h.orders.ByYear(r.Context(), int(pathID(r, "year")))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, OutcomeSuccess, "Orders found", encodeOrders(list))
}

// PlaceOrder serves POST /api/order. The response carries the new order id so
// the client can attach line items.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "order.place")
	defer span.End()

	var req orderCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondData(w, OutcomeRejected, "Provide valid order data!", nil)
		return
	}

	draft := order.Draft{
		TotalPrice:  decimal.NewFromFloat(req.TotalPrice),
		ServerID:    req.ServerID,
		TableNumber: req.TableNumber,
	}
	for _, it := range req.Items {
		draft.Items = append(draft.Items, order.LineItem{
			FoodID:   it.FoodID,
			Quantity: it.Quantity,
			Price:    decimal.NewFromFloat(it.Price),
		})
	}

	id, err := h.orders.Place(ctx, draft)
	if err != nil {
		respondError(w, r, err)
		return
	}

	h.placed.Add(ctx, 1)
	span.SetAttributes(attribute.Int64("order.id", id))
	respondCreated(w, "Order was successfully made. Kindly wait for a response", id)
}

// UpdateOrder serves PUT /api/order/{id}: status transitions, payment and
// server assignment.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "order.update",
		trace.WithAttributes(attribute.String("order.id", r.PathValue("id"))))
	defer span.End()

	var req orderUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondData(w, OutcomeRejected, "Provide the updated data!", nil)
		return
	}

	patch := order.Patch{
		PaymentID:   req.PaymentID,
		ServerID:    req.ServerID,
		TableNumber: req.TableNumber,
	}
	if req.TotalPrice != nil {
		total := decimal.NewFromFloat(*req.TotalPrice)
		patch.TotalPrice = &total
	}
	if req.Status != nil {
		status := order.Status(*req.Status)
		patch.Status = &status
	}

	if err := h.orders.Update(ctx, pathID(r, "id"), patch); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, OutcomeSuccess, "Order successfully updated", nil)
}

// DeleteOrder serves DELETE /api/order/{id}.
func (h *Handler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "order.remove")
	defer span.End()

	if err := h.orders.Remove(ctx, pathID(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, OutcomeSuccess, "Order successfully deleted", nil)
}

func encodeOrders(list []order.Order) func(e *jx.Encoder) {
	return func(e *jx.Encoder) {
		e.ArrStart()
		for _, o := range list {
			encodeOrder(e, o)
		}
		e.ArrEnd()
	}
}
