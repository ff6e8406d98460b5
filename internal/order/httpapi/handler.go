package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vietcart/ordercore/internal/order/app"
	"github.com/vietcart/ordercore/internal/order/domain"
	"github.com/vietcart/ordercore/pkg/metrics"
)

// Handler exposes the order core over JSON. Identity arrives from the
// trusted gateway as headers; the internal payment route is additionally
// guarded by a static bearer token.
type Handler struct {
	svc           *app.Service
	log           *slog.Logger
	metrics       *metrics.ServerMetrics
	internalToken string
}

func NewHandler(svc *app.Service, log *slog.Logger, m *metrics.ServerMetrics, internalToken string) *Handler {
	return &Handler{
		svc:           svc,
		log:           log,
		metrics:       m,
		internalToken: internalToken,
	}
}

func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /orders", h.instrument("create_order", h.createOrder))
	mux.HandleFunc("GET /orders/{id}", h.instrument("get_order", h.getOrder))
	mux.HandleFunc("GET /my/orders", h.instrument("list_my_orders", h.listMyOrders))
	mux.HandleFunc("GET /admin/orders", h.instrument("list_all_orders", h.listAllOrders))
	mux.HandleFunc("POST /admin/orders/{id}/deliver", h.instrument("mark_delivered", h.markDelivered))
	mux.HandleFunc("POST /internal/orders/{id}/pay", h.instrument("mark_paid", h.markPaid))
}

// principalFrom trusts the gateway-injected identity headers. The identity
// provider itself lives outside this service.
func principalFrom(r *http.Request) domain.Principal {
	return domain.Principal{
		UserID: strings.TrimSpace(r.Header.Get("X-User-Id")),
		Admin:  r.Header.Get("X-Admin") == "true",
	}
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid json body")
		return
	}

	order, err := h.svc.CreateOrder(r.Context(), req.toDomain(), principalFrom(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.log.Info("order created",
		slog.String("order_id", order.ID),
		slog.Bool("guest", order.Owner.IsGuest()),
	)
	writeJSON(w, http.StatusCreated, toOrderResponse(order))
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.GetOrder(r.Context(), r.PathValue("id"), principalFrom(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListMyOrders(r.Context(), principalFrom(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) listAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.svc.ListAllOrders(r.Context(), principalFrom(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponses(orders))
}

func (h *Handler) markDelivered(w http.ResponseWriter, r *http.Request) {
	order, err := h.svc.MarkDelivered(r.Context(), r.PathValue("id"), principalFrom(r))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.log.Info("order delivered", slog.String("order_id", order.ID))
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

// markPaid is the operator-facing payment callback. The kafka consumer is
// the usual path; this route exists for gateways that deliver over HTTP.
func (h *Handler) markPaid(w http.ResponseWriter, r *http.Request) {
	if !h.authorizedInternal(r) {
		writeError(w, http.StatusForbidden, "FORBIDDEN", "payment callbacks only")
		return
	}

	var req paymentConfirmationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "invalid json body")
		return
	}

	result := domain.PaymentResult{
		ID:         req.ID,
		Status:     req.Status,
		UpdateTime: req.UpdateTime,
		PayerEmail: req.EmailAddress,
	}

	order, err := h.svc.MarkPaid(r.Context(), r.PathValue("id"), result)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.log.Info("order paid", slog.String("order_id", order.ID))
	writeJSON(w, http.StatusOK, toOrderResponse(order))
}

func (h *Handler) authorizedInternal(r *http.Request) bool {
	if h.internalToken == "" {
		return false
	}
	return r.Header.Get("Authorization") == "Bearer "+h.internalToken
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	status, code := statusFromError(err)
	if status >= http.StatusInternalServerError {
		h.log.Error("request failed", slog.Any("err", err))
		writeError(w, status, code, "internal error")
		return
	}
	writeError(w, status, code, err.Error())
}

// instrument records the nazeru-style per-handler request count and latency.
func (h *Handler) instrument(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		h.metrics.Requests.WithLabelValues(name, strconv.Itoa(rec.status)).Inc()
		h.metrics.LatencyMS.WithLabelValues(name).Observe(float64(time.Since(start).Milliseconds()))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message})
}
