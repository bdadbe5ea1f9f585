package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/comanda/internal/domain/menu"
	"github.com/xenking/comanda/internal/domain/order"
	"github.com/xenking/comanda/internal/domain/staff"
)

// Outcome is the status word of the response envelope. The envelope shape,
// {"status", "message", "data"|"list"}, is the stable contract the browser
// front ends depend on and must be preserved verbatim.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeCreated   Outcome = "created"
	OutcomeRejected  Outcome = "rejected"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeError     Outcome = "error"
)

// httpStatus maps an outcome to its fixed HTTP status code.
func (o Outcome) httpStatus() int {
	switch o {
	case OutcomeSuccess:
		return http.StatusOK
	case OutcomeCreated:
		return http.StatusCreated
	case OutcomeRejected:
		return http.StatusBadRequest
	case OutcomeNotFound:
		return http.StatusNotFound
	case OutcomeDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

const genericErrorMessage = "An unexpected error has occurred. Please try again later!"

// classify maps a service error onto the outcome taxonomy. Validation and
// state-machine failures keep their domain message; anything unrecognized is
// a store-level failure and crosses the boundary as a generic error.
func classify(err error) (Outcome, string) {
	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, menu.ErrNotFound),
		errors.Is(err, staff.ErrNotFound):
		return OutcomeNotFound, err.Error()
	case errors.Is(err, order.ErrDuplicate):
		return OutcomeDuplicate, err.Error()
	case errors.Is(err, order.ErrInvalidID),
		errors.Is(err, order.ErrEmptyPayload),
		errors.Is(err, order.ErrInvalidQuantity),
		errors.Is(err, order.ErrInvalidRange),
		errors.Is(err, order.ErrPaymentRequired),
		errors.Is(err, order.ErrOrderSettled),
		errors.Is(err, order.ErrServerAssign),
		errors.Is(err, order.ErrPaymentFrozen),
		errors.Is(err, order.ErrPaymentInUse):
		return OutcomeRejected, err.Error()
	case errors.Is(err, order.ErrConflict):
		return OutcomeRejected, "the order was modified concurrently, retry the request"
	}

	var (
		trErr  *order.TransitionError
		stErr  *order.UnknownStatusError
		prcErr *order.PriceMismatchError
	)
	if errors.As(err, &trErr) || errors.As(err, &stErr) || errors.As(err, &prcErr) {
		return OutcomeRejected, err.Error()
	}

	return OutcomeError, genericErrorMessage
}

// respondError writes the envelope for a failed operation, logging unexpected
// failures with their full cause chain.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	outcome, msg := classify(err)
	if outcome == OutcomeError {
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
	}
	respondData(w, outcome, msg, nil)
}

// respondData writes an envelope with a "data" payload. A nil encode func
// produces "data": null.
func respondData(w http.ResponseWriter, outcome Outcome, message string, encode func(e *jx.Encoder)) {
	writeEnvelope(w, outcome, message, "data", encode)
}

// respondList writes an envelope with a "list" payload.
func respondList(w http.ResponseWriter, outcome Outcome, message string, encode func(e *jx.Encoder)) {
	writeEnvelope(w, outcome, message, "list", encode)
}

// respondCreated writes the creation envelope carrying the new record id.
func respondCreated(w http.ResponseWriter, message string, id int64) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	e.Str(string(OutcomeCreated))
	e.FieldStart("message")
	e.Str(message)
	e.FieldStart("id")
	e.Int64(id)
	e.ObjEnd()
	writeJSON(w, OutcomeCreated.httpStatus(), e.Bytes())
}

func writeEnvelope(w http.ResponseWriter, outcome Outcome, message, field string, encode func(e *jx.Encoder)) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("status")
	e.Str(string(outcome))
	e.FieldStart("message")
	e.Str(message)
	e.FieldStart(field)
	if encode == nil {
		e.Null()
	} else {
		encode(&e)
	}
	e.ObjEnd()
	writeJSON(w, outcome.httpStatus(), e.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
