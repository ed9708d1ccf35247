package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Leereal/microfinex-api-sub002/internal/application/dto"
	"github.com/Leereal/microfinex-api-sub002/internal/application/usecase"
	"github.com/Leereal/microfinex-api-sub002/internal/domain/model"
)

// PricingHandler exposes the calculation engine over HTTP. The engine daemon
// hosts it next to the metrics endpoint so back-office services can price
// schedules, penalties, settlements and restructures without a database row.
type PricingHandler struct {
	calculate   *usecase.CalculateLoanUseCase
	quotes      *usecase.QuoteLoanUseCase
	disburse    *usecase.ApplyDisbursementChargesUseCase
	waiveCharge *usecase.WaiveLoanChargeUseCase
	logger      *slog.Logger
}

// NewPricingHandler wires the pricing use cases.
func NewPricingHandler(
	calculate *usecase.CalculateLoanUseCase,
	quotes *usecase.QuoteLoanUseCase,
	disburse *usecase.ApplyDisbursementChargesUseCase,
	waiveCharge *usecase.WaiveLoanChargeUseCase,
	logger *slog.Logger,
) *PricingHandler {
	return &PricingHandler{
		calculate:   calculate,
		quotes:      quotes,
		disburse:    disburse,
		waiveCharge: waiveCharge,
		logger:      logger,
	}
}

// RegisterRoutes attaches the pricing endpoints to the mux.
func (h *PricingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /v1/calculations", h.handleCalculate)
	mux.HandleFunc("POST /v1/calculations/compare", h.handleCompare)
	mux.HandleFunc("POST /v1/quotes/penalty", h.handlePenalty)
	mux.HandleFunc("POST /v1/quotes/settlement", h.handleSettlement)
	mux.HandleFunc("POST /v1/quotes/restructure", h.handleRestructure)
	mux.HandleFunc("POST /v1/loans/{id}/disbursement-charges", h.handleDisbursementCharges)
	mux.HandleFunc("POST /v1/loan-charges/{id}/waive", h.handleWaive)
}

func (h *PricingHandler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculateLoanRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.calculate.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PricingHandler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		dto.CalculateLoanRequest
		Methods []string `json:"methods"`
	}
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.calculate.Compare(r.Context(), req.CalculateLoanRequest, req.Methods)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PricingHandler) handlePenalty(w http.ResponseWriter, r *http.Request) {
	var req dto.CalculatePenaltyRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.quotes.Penalty(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PricingHandler) handleSettlement(w http.ResponseWriter, r *http.Request) {
	var req dto.EarlySettlementRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.quotes.EarlySettlement(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PricingHandler) handleRestructure(w http.ResponseWriter, r *http.Request) {
	var req dto.RestructureLoanRequest
	if !h.decode(w, r, &req) {
		return
	}
	resp, err := h.quotes.Restructure(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PricingHandler) handleDisbursementCharges(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyDisbursementChargesRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.LoanID = r.PathValue("id")
	resp, err := h.disburse.Execute(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PricingHandler) handleWaive(w http.ResponseWriter, r *http.Request) {
	var req dto.WaiveLoanChargeRequest
	if !h.decode(w, r, &req) {
		return
	}
	req.LoanChargeID = r.PathValue("id")
	if err := h.waiveCharge.Execute(r.Context(), req); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// helpers
// ---------------------------------------------------------------------------

func (h *PricingHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (h *PricingHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrUnsupportedMethod):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrNotFound):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		h.logger.Error("pricing request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
