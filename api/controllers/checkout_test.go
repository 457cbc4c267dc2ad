package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	checkoutsvc "github.com/angelmondragon/menuorders-backend/internal/checkout"
	"github.com/angelmondragon/menuorders-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/menuorders-backend/pkg/errors"
	"github.com/angelmondragon/menuorders-backend/pkg/logger"
)

type stubCheckoutService struct {
	view    *checkoutsvc.View
	err     error
	invoice string

	openInput   checkoutsvc.OpenInput
	extras      []any
	customer    checkoutsvc.CustomerUpdate
	fulfillment checkoutsvc.FulfillmentUpdate
	orderNumber int64
}

func (s *stubCheckoutService) Open(ctx context.Context, input checkoutsvc.OpenInput) (*checkoutsvc.View, error) {
	s.openInput = input
	return s.view, s.err
}

func (s *stubCheckoutService) Get(ctx context.Context, id uuid.UUID) (*checkoutsvc.View, error) {
	return s.view, s.err
}

func (s *stubCheckoutService) SetAddonQuantity(ctx context.Context, id uuid.UUID, lineID string, addonID uuid.UUID, delta int) (*checkoutsvc.View, error) {
	s.extras = []any{lineID, addonID, delta}
	return s.view, s.err
}

func (s *stubCheckoutService) UpdateCustomer(ctx context.Context, id uuid.UUID, update checkoutsvc.CustomerUpdate) (*checkoutsvc.View, error) {
	s.customer = update
	return s.view, s.err
}

func (s *stubCheckoutService) UpdateFulfillment(ctx context.Context, id uuid.UUID, update checkoutsvc.FulfillmentUpdate) (*checkoutsvc.View, error) {
	s.fulfillment = update
	return s.view, s.err
}

func (s *stubCheckoutService) Advance(ctx context.Context, id uuid.UUID) (*checkoutsvc.View, error) {
	return s.view, s.err
}

func (s *stubCheckoutService) Back(ctx context.Context, id uuid.UUID) (*checkoutsvc.View, error) {
	return s.view, s.err
}

func (s *stubCheckoutService) Submit(ctx context.Context, id uuid.UUID) (*checkoutsvc.View, error) {
	return s.view, s.err
}

func (s *stubCheckoutService) Message(ctx context.Context, id uuid.UUID) (*checkoutsvc.MessageResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &checkoutsvc.MessageResult{Text: "*Burger Hub*", WhatsAppURL: "https://wa.me/966500000001?text=x"}, nil
}

func (s *stubCheckoutService) Invoice(ctx context.Context, id uuid.UUID) (string, error) {
	return s.invoice, s.err
}

func (s *stubCheckoutService) OrderInvoice(ctx context.Context, restaurantID uuid.UUID, orderNumber int64) (string, error) {
	s.orderNumber = orderNumber
	return s.invoice, s.err
}

func (s *stubCheckoutService) Close(ctx context.Context, id uuid.UUID) (*checkoutsvc.CloseResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &checkoutsvc.CloseResult{ClearCart: true}, nil
}

var testSessionID = uuid.MustParse("5b0c1f9e-6a6f-4b55-9d7c-0c6c0ad1a001")

func withRouteParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func sessionRequest(method, body string) *http.Request {
	req := httptest.NewRequest(method, "/api/v1/checkout/sessions/"+testSessionID.String(), strings.NewReader(body))
	return withRouteParams(req, map[string]string{"sessionId": testSessionID.String()})
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return env
}

func TestOpenCheckoutSessionCreated(t *testing.T) {
	t.Parallel()

	restaurantID := uuid.New()
	svc := &stubCheckoutService{view: &checkoutsvc.View{SessionID: testSessionID, Step: enums.CheckoutStepExtras}}
	body := `{"restaurant_id":"` + restaurantID.String() + `","locale":"ar","lines":[{"item_id":"burger","title":{"en":"Burger"},"price":"50","size":" Large ","quantity":2}]}`

	resp := httptest.NewRecorder()
	OpenCheckoutSession(svc, logger.Nop()).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout/sessions", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, resp.Code)
	require.Equal(t, restaurantID, svc.openInput.RestaurantID)
	require.Equal(t, "ar", svc.openInput.Locale)
	require.Len(t, svc.openInput.Lines, 1)
	require.Equal(t, "Large", svc.openInput.Lines[0].Size)
	require.Equal(t, "50", svc.openInput.Lines[0].Price.String())

	var view checkoutsvc.View
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, resp).Data, &view))
	require.Equal(t, testSessionID, view.SessionID)
}

func TestOpenCheckoutSessionValidatesLines(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	body := `{"restaurant_id":"` + uuid.NewString() + `","lines":[{"item_id":"burger","title":{"en":"Burger"},"price":"50","quantity":0}]}`

	resp := httptest.NewRecorder()
	OpenCheckoutSession(svc, logger.Nop()).ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/api/v1/checkout/sessions", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	env := decodeEnvelope(t, resp)
	require.Equal(t, string(pkgerrors.CodeValidation), env.Error.Code)
	require.Contains(t, string(env.Error.Details), "lines[0].quantity")
}

func TestUpdateCheckoutExtrasPassesDelta(t *testing.T) {
	t.Parallel()

	addonID := uuid.New()
	svc := &stubCheckoutService{view: &checkoutsvc.View{SessionID: testSessionID}}
	body := `{"line_id":"burger|Large|","addon_id":"` + addonID.String() + `","delta":-1}`

	resp := httptest.NewRecorder()
	UpdateCheckoutExtras(svc, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodPut, body))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, []any{"burger|Large|", addonID, -1}, svc.extras)
}

func TestUpdateCheckoutCustomerSanitizes(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{view: &checkoutsvc.View{SessionID: testSessionID}}
	resp := httptest.NewRecorder()
	UpdateCheckoutCustomer(svc, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodPut, `{"name":"  Sara  ","phone":"0501234567"}`))

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.customer.Name)
	require.Equal(t, "Sara", *svc.customer.Name)
	require.Equal(t, "0501234567", *svc.customer.Phone)
	require.Nil(t, svc.customer.Notes)
}

func TestUpdateCheckoutCustomerNullNotesClears(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{view: &checkoutsvc.View{SessionID: testSessionID}}
	resp := httptest.NewRecorder()
	UpdateCheckoutCustomer(svc, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodPut, `{"notes":null}`))

	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, svc.customer.Notes)
	require.Empty(t, *svc.customer.Notes)
	require.Nil(t, svc.customer.Name)
}

func TestUpdateCheckoutFulfillmentZoneHandling(t *testing.T) {
	t.Parallel()

	zoneID := uuid.New()
	tests := []struct {
		name      string
		body      string
		wantZone  *uuid.UUID
		wantClear bool
	}{
		{name: "select zone", body: `{"order_type":"delivery","zone_id":"` + zoneID.String() + `"}`, wantZone: &zoneID},
		{name: "clear zone", body: `{"zone_id":null}`, wantClear: true},
		{name: "leave zone", body: `{"order_type":"pickup"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &stubCheckoutService{view: &checkoutsvc.View{SessionID: testSessionID}}
			resp := httptest.NewRecorder()
			UpdateCheckoutFulfillment(svc, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodPut, tt.body))

			require.Equal(t, http.StatusOK, resp.Code)
			require.Equal(t, tt.wantZone, svc.fulfillment.ZoneID)
			require.Equal(t, tt.wantClear, svc.fulfillment.ClearZone)
		})
	}
}

func TestUpdateCheckoutFulfillmentRejectsUnknownOrderType(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	resp := httptest.NewRecorder()
	UpdateCheckoutFulfillment(svc, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodPut, `{"order_type":"dine_in"}`))

	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Contains(t, string(decodeEnvelope(t, resp).Error.Details), "order_type")
}

func TestSessionHandlerRejectsBadID(t *testing.T) {
	t.Parallel()

	req := withRouteParams(httptest.NewRequest(http.MethodGet, "/api/v1/checkout/sessions/nope", nil), map[string]string{"sessionId": "nope"})
	resp := httptest.NewRecorder()
	GetCheckoutSession(&stubCheckoutService{}, logger.Nop()).ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestAdvanceCheckoutMapsServiceErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
		code   pkgerrors.Code
	}{
		{pkgerrors.New(pkgerrors.CodeValidation, "phone is required"), http.StatusBadRequest, pkgerrors.CodeValidation},
		{pkgerrors.New(pkgerrors.CodeStateConflict, "checkout already finished"), http.StatusUnprocessableEntity, pkgerrors.CodeStateConflict},
		{pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found"), http.StatusNotFound, pkgerrors.CodeNotFound},
	}

	for _, tt := range tests {
		resp := httptest.NewRecorder()
		AdvanceCheckout(&stubCheckoutService{err: tt.err}, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodPost, ""))
		require.Equal(t, tt.status, resp.Code)
		require.Equal(t, string(tt.code), decodeEnvelope(t, resp).Error.Code)
	}
}

func TestSubmitCheckoutReportsSubmissionFailure(t *testing.T) {
	t.Parallel()

	err := pkgerrors.Wrap(pkgerrors.CodeOrderSubmission, context.DeadlineExceeded, "could not save order")
	resp := httptest.NewRecorder()
	SubmitCheckout(&stubCheckoutService{err: err}, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodPost, ""))

	require.Equal(t, http.StatusBadGateway, resp.Code)
	env := decodeEnvelope(t, resp)
	require.Equal(t, string(pkgerrors.CodeOrderSubmission), env.Error.Code)
	require.Equal(t, "could not save order", env.Error.Message)
}

func TestCheckoutMessageAndClose(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{}
	resp := httptest.NewRecorder()
	CheckoutMessage(svc, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodGet, ""))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "whatsapp_url")

	resp = httptest.NewRecorder()
	CloseCheckoutSession(svc, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodDelete, ""))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), `"clear_cart":true`)
}

func TestCheckoutInvoiceWritesHTML(t *testing.T) {
	t.Parallel()

	svc := &stubCheckoutService{invoice: "<html><body>Order #42</body></html>"}
	resp := httptest.NewRecorder()
	CheckoutInvoice(svc, logger.Nop()).ServeHTTP(resp, sessionRequest(http.MethodGet, ""))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "text/html; charset=utf-8", resp.Header().Get("Content-Type"))
	require.Contains(t, resp.Body.String(), "Order #42")
}
