package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/comanda/internal/domain/order"
)

type paymentCreateReq struct {
	MethodID       int64    `json:"paymentMethod"`
	AmountPaid     float64  `json:"amountPaid"`
	AmountToReturn float64  `json:"amountToReturn"`
	PaidAt         *apiTime `json:"paidAt"`
}

type paymentUpdateReq struct {
	MethodID       *int64   `json:"paymentMethod"`
	AmountPaid     *float64 `json:"amountPaid"`
	AmountToReturn *float64 `json:"amountToReturn"`
	PaidAt         *apiTime `json:"paidAt"`
}

// RecordPayment serves POST /api/payment. The returned id is then attached to
// the order via PUT /api/order/{id} to complete it.
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "payment.record")
	defer span.End()

	var req paymentCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondData(w, OutcomeRejected, "Provide valid payment details!", nil)
		return
	}

	p := order.Payment{
		MethodID:       req.MethodID,
		AmountPaid:     decimal.NewFromFloat(req.AmountPaid),
		AmountToReturn: decimal.NewFromFloat(req.AmountToReturn),
	}
	if req.PaidAt != nil {
		p.PaidAt = req.PaidAt.Time
	}

	id, err := h.orders.RecordPayment(ctx, p)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondCreated(w, "Payment successful", id)
}

// GetPayment serves GET /api/payment/{id}.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	p, err := h.orders.Payment(r.Context(), pathID(r, "id"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, OutcomeSuccess, "Payment was found", func(e *jx.Encoder) {
		encodePayment(e, *p)
	})
}

// PaymentsByDate serves POST /api/payment/date with a {start, end} body.
func (h *Handler) PaymentsByDate(w http.ResponseWriter, r *http.Request) {
	var req dateRangeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondList(w, OutcomeRejected, "Provide a valid date range!", nil)
		return
	}

	list, err := h.orders.PaymentsByDateRange(r.Context(), req.Start.Time, req.End.Time)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, OutcomeSuccess, "Payments retrieved successfully", func(e *jx.Encoder) {
		e.ArrStart()
		for _, p := range list {
			encodePayment(e, p)
		}
		e.ArrEnd()
	})
}

// UpdatePayment serves PUT /api/payment/{id}. Monetary fields of a payment
// referenced by an order are rejected by the service.
func (h *Handler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req paymentUpdateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondData(w, OutcomeRejected, "Provide the updated data!", nil)
		return
	}

	patch := order.PaymentPatch{MethodID: req.MethodID}
	if req.AmountPaid != nil {
		v := decimal.NewFromFloat(*req.AmountPaid)
		patch.AmountPaid = &v
	}
	if req.AmountToReturn != nil {
		v := decimal.NewFromFloat(*req.AmountToReturn)
		patch.AmountToReturn = &v
	}
	if req.PaidAt != nil {
		patch.PaidAt = &req.PaidAt.Time
	}

	if err := h.orders.UpdatePayment(r.Context(), pathID(r, "id"), patch); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, OutcomeSuccess, "Payment successfully updated", nil)
}

// DeletePayment serves DELETE /api/payment/{id}.
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	if err := h.orders.RemovePayment(r.Context(), pathID(r, "id")); err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, OutcomeSuccess, "Payment successfully deleted", nil)
}
