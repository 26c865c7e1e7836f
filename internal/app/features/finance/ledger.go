package finance

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	financestore "github.com/dalemusser/strataclub/internal/app/store/finance"
	"github.com/dalemusser/strataclub/internal/app/store/storeutil"
	"github.com/dalemusser/strataclub/internal/app/system/formutil"
	"github.com/dalemusser/strataclub/internal/app/system/jsonutil"
	"github.com/dalemusser/strataclub/internal/app/system/timeouts"
	"github.com/dalemusser/strataclub/internal/app/system/urlparam"
	"github.com/dalemusser/strataclub/internal/domain/models"
	"go.uber.org/zap"
)

// recordInput is the JSON body for creating or editing a ledger record.
// Pointer fields distinguish "absent" from a zero value on update.
type recordInput struct {
	Title          string           `json:"title"`
	Date           string           `json:"date"`
	Category       string           `json:"category"`
	PersonInCharge string           `json:"personInCharge"`
	FeeItems       any              `json:"feeItems"`
	Remarks        string           `json:"remarks"`
	TotalAmount    *formutil.Number `json:"totalAmount"`
	CreateReceipt  *bool            `json:"createReceipt"`
	IssueDate      string           `json:"issueDate"`
	BillTo         string           `json:"billTo"`
}

// merge applies in over rec. Blank strings and absent values keep what rec
// already holds.
func (in recordInput) merge(rec models.FinanceRecord) models.FinanceRecord {
	rec.Title = formutil.Or(in.Title, rec.Title)
	rec.Category = formutil.Or(in.Category, rec.Category)
	rec.PersonInCharge = formutil.Or(in.PersonInCharge, rec.PersonInCharge)
	rec.Remarks = formutil.Or(in.Remarks, rec.Remarks)
	rec.BillTo = formutil.Or(in.BillTo, rec.BillTo)
	if strings.TrimSpace(in.Date) != "" {
		rec.Date = formutil.Date(in.Date)
	}
	if in.FeeItems != nil {
		rec.FeeItems = in.FeeItems
	}
	if in.TotalAmount != nil {
		rec.TotalAmount = in.TotalAmount.Float64()
	}
	if in.CreateReceipt != nil {
		rec.CreateReceipt = *in.CreateReceipt
	}
	switch {
	case !rec.CreateReceipt:
		rec.IssueDate = nil
	case strings.TrimSpace(in.IssueDate) != "":
		d := formutil.Date(in.IssueDate)
		rec.IssueDate = &d
	}
	return rec
}

func label(kind financestore.Kind) string {
	if kind == financestore.Income {
		return "Income"
	}
	return "Expenditure"
}

// Create handles POST /api/{income,expenditure}.
func (h *Handler) Create(kind financestore.Kind) http.HandlerFunc {
	store := h.ledgers[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		var in recordInput
		if err := jsonutil.Decode(r, &in); err != nil {
			jsonutil.BadRequest(w, "Invalid request body.")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		created, err := store.Create(ctx, in.merge(models.FinanceRecord{}))
		if err != nil {
			h.logger.Error("create finance record failed", zap.String("kind", string(kind)), zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}

		h.logger.Info("finance record created",
			zap.String("kind", string(kind)),
			zap.String("record_id", created.ID.Hex()),
			zap.Float64("total_amount", created.TotalAmount))
		jsonutil.Created(w, map[string]any{
			"message": label(kind) + " record created successfully",
			"id":      created.ID,
		})
	}
}

// List handles GET /api/{income,expenditure}.
func (h *Handler) List(kind financestore.Kind) http.HandlerFunc {
	store := h.ledgers[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		recs, err := store.List(ctx)
		if err != nil {
			h.logger.Error("list finance records failed", zap.String("kind", string(kind)), zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}
		jsonutil.OK(w, recs)
	}
}

// Detail handles GET /api/{income,expenditure}/detail/{id}.
func (h *Handler) Detail(kind financestore.Kind) http.HandlerFunc {
	store := h.ledgers[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlparam.ObjectID(r, "id")
		if !ok {
			jsonutil.NotFound(w, "Record not found")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		rec, err := store.GetByID(ctx, id)
		if errors.Is(err, storeutil.ErrNotFound) {
			jsonutil.NotFound(w, "Record not found")
			return
		}
		if err != nil {
			h.logger.Error("get finance record failed", zap.String("kind", string(kind)), zap.String("record_id", id.Hex()), zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}
		jsonutil.OK(w, rec)
	}
}

// Update handles PUT /api/{income,expenditure}/detail/{id}.
func (h *Handler) Update(kind financestore.Kind) http.HandlerFunc {
	store := h.ledgers[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlparam.ObjectID(r, "id")
		if !ok {
			jsonutil.NotFound(w, "Record not found")
			return
		}
		var in recordInput
		if err := jsonutil.Decode(r, &in); err != nil {
			jsonutil.BadRequest(w, "Invalid request body.")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		existing, err := store.GetByID(ctx, id)
		if err == nil {
			err = store.Update(ctx, id, in.merge(*existing))
		}
		if errors.Is(err, storeutil.ErrNotFound) {
			jsonutil.NotFound(w, "Record not found")
			return
		}
		if err != nil {
			h.logger.Error("update finance record failed", zap.String("kind", string(kind)), zap.String("record_id", id.Hex()), zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}

		h.logger.Info("finance record updated", zap.String("kind", string(kind)), zap.String("record_id", id.Hex()))
		jsonutil.Message(w, http.StatusOK, "Record updated successfully")
	}
}

// Delete handles DELETE /api/{income,expenditure}/detail/{id}.
func (h *Handler) Delete(kind financestore.Kind) http.HandlerFunc {
	store := h.ledgers[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlparam.ObjectID(r, "id")
		if !ok {
			jsonutil.NotFound(w, "Record not found")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()

		err := store.Delete(ctx, id)
		if errors.Is(err, storeutil.ErrNotFound) {
			jsonutil.NotFound(w, "Record not found")
			return
		}
		if err != nil {
			h.logger.Error("delete finance record failed", zap.String("kind", string(kind)), zap.String("record_id", id.Hex()), zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}

		h.logger.Info("finance record deleted", zap.String("kind", string(kind)), zap.String("record_id", id.Hex()))
		jsonutil.Message(w, http.StatusOK, "Record deleted successfully")
	}
}

// Total handles GET /api/totalincome and /api/totalexpenditure.
func (h *Handler) Total(kind financestore.Kind) http.HandlerFunc {
	store := h.ledgers[kind]
	key := "total" + label(kind)
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		sum, err := store.Total(ctx)
		if err != nil {
			h.logger.Error("sum finance records failed", zap.String("kind", string(kind)), zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}
		jsonutil.OK(w, map[string]float64{key: sum})
	}
}

// parseMonth reads ?month=1..12&year=YYYY.
func parseMonth(r *http.Request) (int, time.Month, bool) {
	q := r.URL.Query()
	m, err := strconv.Atoi(strings.TrimSpace(q.Get("month")))
	if err != nil || m < 1 || m > 12 {
		return 0, 0, false
	}
	y, err := strconv.Atoi(strings.TrimSpace(q.Get("year")))
	if err != nil {
		return 0, 0, false
	}
	return y, time.Month(m), true
}

// ByMonth handles GET /api/{income,expenditure}_records?month=&year=.
func (h *Handler) ByMonth(kind financestore.Kind) http.HandlerFunc {
	store := h.ledgers[kind]
	return func(w http.ResponseWriter, r *http.Request) {
		year, month, ok := parseMonth(r)
		if !ok {
			jsonutil.BadRequest(w, "Invalid month or year")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()

		recs, err := store.ByMonth(ctx, year, month)
		if err != nil {
			h.logger.Error("monthly finance records failed",
				zap.String("kind", string(kind)), zap.Int("year", year), zap.Int("month", int(month)), zap.Error(err))
			jsonutil.InternalError(w, "Internal server error")
			return
		}
		jsonutil.OK(w, recs)
	}
}
