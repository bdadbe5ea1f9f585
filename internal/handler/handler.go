// Package handler maps the REST surface onto the lifecycle service and the
// reporting aggregator. Handlers stay thin: decode, delegate, wrap the result
// in the response envelope.
package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/comanda/internal/domain/order"
	"github.com/xenking/comanda/internal/domain/report"
)

// Handler serves the /api routes.
type Handler struct {
	orders  *order.Service
	reports *report.Aggregator
	tracer  trace.Tracer
	placed  metric.Int64Counter
}

// New constructs a Handler with its domain dependencies and telemetry
// providers.
func New(
	orders *order.Service,
	reports *report.Aggregator,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) (*Handler, error) {
	meter := mp.Meter("github.com/xenking/comanda/internal/handler")
	placed, err := meter.Int64Counter("comanda.orders.placed")
	if err != nil {
		return nil, errors.Wrap(err, "create orders counter")
	}

	return &Handler{
		orders:  orders,
		reports: reports,
		tracer:  tp.Tracer("github.com/xenking/comanda/internal/handler"),
		placed:  placed,
	}, nil
}

// Routes registers every API route on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/order/unfinished", h.IncompleteOrders)
	mux.HandleFunc("POST /api/order/date", h.OrdersByDate)
	mux.HandleFunc("GET /api/order/month/{month}", h.OrdersByMonth)
	mux.HandleFunc("GET /api/order/year/{year}", h.OrdersByYear)
	mux.HandleFunc("GET /api/order/server/{id}", h.OrdersByServer)
	mux.HandleFunc("GET /api/order/{id}", h.GetOrder)
	mux.HandleFunc("POST /api/order", h.PlaceOrder)
	mux.HandleFunc("PUT /api/order/{id}", h.UpdateOrder)
	mux.HandleFunc("DELETE /api/order/{id}", h.DeleteOrder)

	mux.HandleFunc("POST /api/orderFood", h.AddLineItem)
	mux.HandleFunc("GET /api/orderFood/{id}", h.LineItemsByOrder)
	mux.HandleFunc("PUT /api/orderFood/{id}", h.UpdateLineItem)
	mux.HandleFunc("DELETE /api/orderFood/{id}", h.DeleteLineItem)

	mux.HandleFunc("POST /api/payment", h.RecordPayment)
	mux.HandleFunc("POST /api/payment/date", h.PaymentsByDate)
	mux.HandleFunc("GET /api/payment/{id}", h.GetPayment)
	mux.HandleFunc("PUT /api/payment/{id}", h.UpdatePayment)
	mux.HandleFunc("DELETE /api/payment/{id}", h.DeletePayment)

	mux.HandleFunc("POST /api/report/summary", h.ReportSummary)
	mux.HandleFunc("POST /api/report/waiters", h.WaiterLeaderboard)
}

// pathID parses a numeric path segment. Unparseable values come back as 0 so
// the service rejects them uniformly with the invalid-id message.
func pathID(r *http.Request, name string) int64 {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// dateLayouts are accepted for date-range request bodies: the admin UI sends
// bare dates, API clients send RFC 3339 timestamps.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// apiTime decodes a JSON string in any accepted layout.
type apiTime struct {
	time.Time
}

func (t *apiTime) UnmarshalJSON(data []byte) error {
	raw, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.Wrap(err, "date must be a string")
	}
	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
	}
	return errors.Errorf("unrecognized date %q", raw)
}

// dateRangeReq is the shared body of the /date and report endpoints.
type dateRangeReq struct {
	Start apiTime `json:"start"`
	End   apiTime `json:"end"`
}

// encodeOrder writes one order in the wire shape the front ends expect.
func encodeOrder(e *jx.Encoder, o order.Order) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(o.ID)
	e.FieldStart("totalPrice")
	e.Float64(o.TotalPrice.InexactFloat64())
	e.FieldStart("payment")
	encodeOptInt64(e, o.PaymentID)
	e.FieldStart("waiter")
	encodeOptInt64(e, o.ServerID)
	e.FieldStart("tableNumber")
	if o.TableNumber == nil {
		e.Null()
	} else {
		e.Int(*o.TableNumber)
	}
	e.FieldStart("orderStatus")
	e.Str(string(o.Status))
	e.FieldStart("createdAt")
	e.Str(o.CreatedAt.Format(time.RFC3339))
	e.FieldStart("updatedAt")
	e.Str(o.UpdatedAt.Format(time.RFC3339))
	e.ObjEnd()
}

func encodeLineItem(e *jx.Encoder, it order.LineItem) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(it.ID)
	e.FieldStart("order")
	e.Int64(it.OrderID)
	e.FieldStart("foodItem")
	e.Int64(it.FoodID)
	e.FieldStart("quantity")
	e.Int(it.Quantity)
	e.FieldStart("price")
	e.Float64(it.Price.InexactFloat64())
	e.ObjEnd()
}

func encodePayment(e *jx.Encoder, p order.Payment) {
	e.ObjStart()
	e.FieldStart("id")
	e.Int64(p.ID)
	e.FieldStart("paymentMethod")
	e.Int64(p.MethodID)
	e.FieldStart("amountPaid")
	e.Float64(p.AmountPaid.InexactFloat64())
	e.FieldStart("amountToReturn")
	e.Float64(p.AmountToReturn.InexactFloat64())
	e.FieldStart("paidAt")
	e.Str(p.PaidAt.Format(time.RFC3339))
	e.ObjEnd()
}

func encodeOptInt64(e *jx.Encoder, v *int64) {
	if v == nil {
		e.Null()
		return
	}
	e.Int64(*v)
}
