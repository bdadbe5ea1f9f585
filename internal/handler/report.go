package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/jx"
)

// ReportSummary serves POST /api/report/summary with a {start, end} body.
func (h *Handler) ReportSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "report.summary")
	defer span.End()

	var req dateRangeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondData(w, OutcomeRejected, "Provide a valid date range!", nil)
		return
	}

	sum, err := h.reports.Summary(ctx, req.Start.Time, req.End.Time)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, OutcomeSuccess, "Report generated", func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("totalSales")
		e.Float64(sum.TotalSales.InexactFloat64())
		e.FieldStart("avgValue")
		e.Float64(sum.AverageOrderValue.InexactFloat64())
		e.FieldStart("ordersProcessed")
		e.Int(sum.OrdersProcessed)
		e.FieldStart("totalItems")
		e.Int(sum.TotalItems)
		e.FieldStart("stockValue")
		e.Float64(sum.StockValue.InexactFloat64())
		e.FieldStart("topSellingItem")
		e.Str(sum.TopSellingItem)
		e.FieldStart("mostUsedItem")
		e.Str(sum.MostUsedItem)
		e.FieldStart("lowStockItems")
		e.Int(sum.LowDemandItems)
		e.ObjEnd()
	})
}

// WaiterLeaderboard serves POST /api/report/waiters.
func (h *Handler) WaiterLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "report.waiters")
	defer span.End()

	entries, err := h.reports.WaiterLeaderboard(ctx)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, OutcomeSuccess, "Leaderboard generated", func(e *jx.Encoder) {
		e.ArrStart()
		for _, en := range entries {
			e.ObjStart()
			e.FieldStart("waiter")
			e.Int64(en.ServerID)
			e.FieldStart("fullName")
			e.Str(en.FullName)
			e.FieldStart("completedOrders")
			e.Int(en.CompletedOrders)
			e.ObjEnd()
		}
		e.ArrEnd()
	})
}
