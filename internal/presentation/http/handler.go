package httppresentation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Zhima-Mochi/tshirt-agent/internal/application"
	appDesign "github.com/Zhima-Mochi/tshirt-agent/internal/application/design"
	appOrder "github.com/Zhima-Mochi/tshirt-agent/internal/application/order"
	appPayment "github.com/Zhima-Mochi/tshirt-agent/internal/application/payment"
	domainOrder "github.com/Zhima-Mochi/tshirt-agent/internal/domain/order"
	domainPayment "github.com/Zhima-Mochi/tshirt-agent/internal/domain/payment"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability/logctx"
)

const (
	componentHTTPHandler = "http_server"
	serviceTitle         = "T-Shirt Retail Agent"
	serviceVersion       = "1.0.0"
)

// UseCases groups the application operations the HTTP API exposes.
type UseCases struct {
	CreateDesign   application.UseCase[appDesign.CreateDesignInput, *appDesign.CreateDesignResult]
	ProcessPayment application.UseCase[appPayment.ProcessPaymentInput, *appPayment.ProcessPaymentResult]
	GetOrder       application.UseCase[string, *domainOrder.Order]
	ListOrders     application.UseCase[struct{}, []*domainOrder.Order]
	RefundOrder    application.UseCase[appOrder.RefundOrderInput, *appOrder.RefundOrderResult]
}

// Handler serves the storefront API. No route authenticates its caller.
type Handler struct {
	uc      UseCases
	log     observability.Logger
	metrics observability.Metrics
}

func NewHandler(uc UseCases, tel observability.Observability) *Handler {
	return &Handler{
		uc:      uc,
		log:     observability.LoggerOf(tel).With(observability.F("component", componentHTTPHandler)),
		metrics: observability.MetricsOf(tel),
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	// Trace → request logger → HTTP metrics → access log → handler
	h.muxHandle(mux, http.MethodGet, "/{$}", h.handleRoot)
	h.muxHandle(mux, http.MethodGet, "/health", h.handleHealth)
	h.muxHandle(mux, http.MethodPost, "/api/design", h.handleCreateDesign)
	h.muxHandle(mux, http.MethodPost, "/api/payment", h.handleProcessPayment)
	h.muxHandle(mux, http.MethodGet, "/api/order/{order_id}", h.handleGetOrder)
	h.muxHandle(mux, http.MethodGet, "/api/orders", h.handleListOrders)
	h.muxHandle(mux, http.MethodPost, "/api/refund", h.handleRefund)

	return withCORS(mux)
}

func (h *Handler) muxHandle(mux *http.ServeMux, method, route string, handler http.HandlerFunc) {
	wrapped := h.withTrace(
		ObservabilityMiddleware(h.log)(
			h.withHTTPMetrics(
				h.withAccessLog(handler),
			),
		),
	)
	mux.HandleFunc(method+" "+route, func(w http.ResponseWriter, r *http.Request) {
		// Store stable route template for low-cardinality labels
		wrapped.ServeHTTP(w, r.WithContext(contextWithRoute(r.Context(), route)))
	})
}

func (h *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": serviceTitle,
		"version": serviceVersion,
		"status":  "online",
		"endpoints": map[string]string{
			"design":       "/api/design",
			"payment":      "/api/payment",
			"order_status": "/api/order/{order_id}",
			"orders":       "/api/orders",
			"refund":       "/api/refund",
			"health":       "/health",
		},
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

type createDesignRequest struct {
	DesignPrompt  string `json:"design_prompt"`
	Style         string `json:"style"`
	CustomerEmail string `json:"customer_email"`
}

type createDesignResponse struct {
	OrderID   string  `json:"order_id"`
	DesignURL string  `json:"design_url"`
	Price     float64 `json:"price"`
	Message   string  `json:"message"`
	NextStep  string  `json:"next_step"`
}

func (h *Handler) handleCreateDesign(w http.ResponseWriter, r *http.Request) {
	var req createDesignRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.uc.CreateDesign.Execute(r.Context(), appDesign.CreateDesignInput{
		Prompt:        req.DesignPrompt,
		Style:         req.Style,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	o := result.Order
	writeJSON(w, http.StatusOK, createDesignResponse{
		OrderID:   o.ID,
		DesignURL: o.DesignURL,
		Price:     domainOrder.Dollars(o.Price),
		Message:   "Design generated successfully! Proceed to payment.",
		NextStep:  fmt.Sprintf("POST /api/payment with order_id=%s", o.ID),
	})
}

type processPaymentRequest struct {
	OrderID        string            `json:"order_id"`
	PaymentMethod  string            `json:"payment_method"`
	Amount         float64           `json:"amount"`
	CustomerName   string            `json:"customer_name"`
	BillingAddress map[string]string `json:"billing_address"`
}

type processPaymentResponse struct {
	Success       bool    `json:"success"`
	OrderID       string  `json:"order_id"`
	ChargeID      string  `json:"charge_id"`
	AmountCharged float64 `json:"amount_charged"`
	Status        string  `json:"status"`
	Message       string  `json:"message"`
	TrackingInfo  string  `json:"tracking_info"`
}

func (h *Handler) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	var req processPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.uc.ProcessPayment.Execute(r.Context(), appPayment.ProcessPaymentInput{
		OrderID:        req.OrderID,
		Amount:         req.Amount,
		Method:         req.PaymentMethod,
		CustomerName:   req.CustomerName,
		BillingAddress: req.BillingAddress,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, processPaymentResponse{
		Success:       true,
		OrderID:       result.Order.ID,
		ChargeID:      result.ChargeID,
		AmountCharged: domainOrder.Dollars(result.Amount),
		Status:        string(result.Order.Status),
		Message:       "Payment successful! Your custom t-shirt will be printed and shipped.",
		TrackingInfo:  "Shipping information will be sent to your email.",
	})
}

func (h *Handler) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.uc.GetOrder.Execute(r.Context(), r.PathValue("order_id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newOrderView(o))
}

type listOrdersResponse struct {
	TotalOrders int         `json:"total_orders"`
	Orders      []orderView `json:"orders"`
}

func (h *Handler) handleListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.uc.ListOrders.Execute(r.Context(), struct{}{})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	writeJSON(w, http.StatusOK, listOrdersResponse{TotalOrders: len(views), Orders: views})
}

type refundResponse struct {
	Success      bool    `json:"success"`
	OrderID      string  `json:"order_id"`
	RefundAmount float64 `json:"refund_amount"`
	Message      string  `json:"message"`
}

func (h *Handler) handleRefund(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	result, err := h.uc.RefundOrder.Execute(r.Context(), appOrder.RefundOrderInput{
		OrderID: q.Get("order_id"),
		Reason:  q.Get("reason"),
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refundResponse{
		Success:      true,
		OrderID:      result.Order.ID,
		RefundAmount: domainOrder.Dollars(result.Amount),
		Message:      "Refund processed successfully",
	})
}

// orderView is the wire form of an order; every stored field is exposed.
type orderView struct {
	OrderID        string            `json:"order_id"`
	Status         string            `json:"status"`
	Price          float64           `json:"price"`
	DesignPrompt   string            `json:"design_prompt"`
	Style          string            `json:"style"`
	DesignURL      string            `json:"design_url"`
	ImageData      string            `json:"image_data,omitempty"`
	CustomerEmail  string            `json:"customer_email,omitempty"`
	CustomerName   string            `json:"customer_name,omitempty"`
	BillingAddress map[string]string `json:"billing_address,omitempty"`
	PaymentMethod  string            `json:"payment_method,omitempty"`
	PaymentID      string            `json:"payment_id,omitempty"`
	AmountPaid     *float64          `json:"amount_paid,omitempty"`
	RefundReason   string            `json:"refund_reason,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	PaidAt         *time.Time        `json:"paid_at,omitempty"`
	RefundedAt     *time.Time        `json:"refunded_at,omitempty"`
}

func newOrderView(o *domainOrder.Order) orderView {
	v := orderView{
		OrderID:        o.ID,
		Status:         string(o.Status),
		Price:          domainOrder.Dollars(o.Price),
		DesignPrompt:   o.DesignPrompt,
		Style:          o.Style,
		DesignURL:      o.DesignURL,
		ImageData:      o.ImagePreview,
		CustomerEmail:  o.CustomerEmail,
		CustomerName:   o.CustomerName,
		BillingAddress: o.BillingAddress,
		PaymentMethod:  o.PaymentMethod,
		PaymentID:      o.PaymentID,
		RefundReason:   o.RefundReason,
		CreatedAt:      o.CreatedAt,
	}
	if !o.PaidAt.IsZero() {
		paid := domainOrder.Dollars(o.PaymentAmount)
		paidAt := o.PaidAt
		v.AmountPaid = &paid
		v.PaidAt = &paidAt
	}
	if !o.RefundedAt.IsZero() {
		refundedAt := o.RefundedAt
		v.RefundedAt = &refundedAt
	}
	return v
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domainOrder.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainPayment.ErrLimitExceeded),
		errors.Is(err, domainPayment.ErrInvalidMethod):
		status = http.StatusBadRequest
	case errors.Is(err, domainPayment.ErrDeclined):
		status = http.StatusPaymentRequired
	}
	if status == http.StatusInternalServerError {
		logctx.FromOr(r.Context(), h.log).Error("request_failed", observability.F("error", err))
	}
	writeError(w, status, err)
}
