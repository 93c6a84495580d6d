package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/rudrakh/tiffin/internal/handler/http/mocks"
	"github.com/rudrakh/tiffin/internal/middleware"
	"github.com/rudrakh/tiffin/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_CreateOrder(t *testing.T) {
	validBody := `{"timeslotId":"ts-1","locationId":"loc-1","items":[{"itemId":"item-1","quantity":2}]}`

	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
	}{
		{
			// 201 — order created;
			name:  "valid_request_return_201",
			token: &models.TokenPayload{UserID: "user-1"},
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&models.Order{
					ID:            "order-1",
					InvoiceNumber: "0001",
					Status:        models.OrderStatusPending,
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			// 400 — malformed request body;
			name:  "bad_request_return_400",
			token: &models.TokenPayload{UserID: "user-1"},
			body:  "{not json",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 401 — user is not authenticated;
			name: "unauthorized_request_return_401",
			body: validBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			// 409 — sequencing retries exhausted;
			name:  "sequencing_conflict_return_409",
			token: &models.TokenPayload{UserID: "user-1"},
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, models.ErrSequencingConflict).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			// 409 — daily invoice range exhausted;
			name:  "invoice_overflow_return_409",
			token: &models.TokenPayload{UserID: "user-1"},
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, models.ErrInvoiceOverflow).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			// 422 — ordering window is closed;
			name:  "window_closed_return_422",
			token: &models.TokenPayload{UserID: "user-1"},
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, &models.WindowClosedError{
					Label: "Lunch",
					Start: "07:00",
					End:   "11:00",
				}).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			// 422 — empty order;
			name:  "empty_order_return_422",
			token: &models.TokenPayload{UserID: "user-1"},
			body:  `{"timeslotId":"ts-1","locationId":"loc-1","items":[]}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, models.ErrEmptyOrder).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			// 422 — unknown timeslot;
			name:  "invalid_timeslot_return_422",
			token: &models.TokenPayload{UserID: "user-1"},
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, models.ErrInvalidTimeslot).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusUnprocessableEntity,
		},
		{
			// 500 — internal server error.
			name:  "internal_error_return_500",
			token: &models.TokenPayload{UserID: "user-1"},
			body:  validBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)

			ctx := req.Context()
			if tt.token != nil {
				ctx = middleware.WithPayload(ctx, tt.token)
			}

			handler := NewOrderHandler(st)
			h := handler.CreateOrder()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestOrderHandler_CreateOrder_WindowClosedBody(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockOrderService(ctrl)
	svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, &models.WindowClosedError{
		Label: "Lunch",
		Start: "07:00",
		End:   "11:00",
	})

	req, err := http.NewRequest(http.MethodPost, "/api/orders",
		strings.NewReader(`{"timeslotId":"ts-1","locationId":"loc-1","items":[{"itemId":"item-1","quantity":1}]}`))
	require.NoError(t, err)

	w := httptest.NewRecorder()
	ctx := middleware.WithPayload(req.Context(), &models.TokenPayload{UserID: "user-1"})

	h := NewOrderHandler(svcMock).CreateOrder()
	h(w, req.WithContext(ctx))

	res := w.Result()
	defer res.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)

	var got windowClosedResponse
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))

	assert.Equal(t, "07:00", got.WindowStart)
	assert.Equal(t, "11:00", got.WindowEnd)
	assert.NotEmpty(t, got.Error)
}

func TestOrderHandler_ListMyOrders(t *testing.T) {
	createdAt := time.Now().UTC().Truncate(time.Second)

	tests := []struct {
		name           string
		token          *models.TokenPayload
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantBody       []orderResponse
	}{
		{
			// 200 — request processed successfully.
			name:  "valid_request_return_200",
			token: &models.TokenPayload{UserID: "user-1"},
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ListUserOrders(gomock.Any(), "user-1").Return([]models.Order{
					{
						ID:            "order-1",
						InvoiceNumber: "0001",
						Status:        models.OrderStatusPending,
						TotalAmount:   160,
						CreatedAt:     createdAt,
					},
				}, nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: []orderResponse{{
				ID:            "order-1",
				InvoiceNumber: "0001",
				Status:        models.OrderStatusPending,
				TotalAmount:   160,
				CreatedAt:     createdAt,
			}},
		},
		{
			// 401 — user is not authenticated.
			name: "unauthorized_request_return_401",
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ListUserOrders(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			// 500 — internal server error.
			name:  "internal_error_return_500",
			token: &models.TokenPayload{UserID: "user-1"},
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().ListUserOrders(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, "/api/user/orders", nil)
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)

			ctx := req.Context()
			if tt.token != nil {
				ctx = middleware.WithPayload(ctx, tt.token)
			}

			handler := NewOrderHandler(st)
			h := handler.ListMyOrders()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)

			if tt.wantBody != nil {
				resBody, err := io.ReadAll(res.Body)
				require.NoError(t, err)

				var got []orderResponse
				require.NoError(t, json.Unmarshal(resBody, &got))

				if diff := cmp.Diff(tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestOrderHandler_SetStatus(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
	}{
		{
			// 200 — status changed;
			name: "valid_request_return_200",
			body: `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().SetStatus(gomock.Any(), gomock.Any(), "confirmed").Return("confirmed", nil).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusOK,
		},
		{
			// 400 — unknown status;
			name: "invalid_status_return_400",
			body: `{"status":"misplaced"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return("", models.ErrInvalidStatus).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			// 404 — order not found;
			name: "missing_order_return_404",
			body: `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return("", models.ErrNotFound).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusNotFound,
		},
		{
			// 409 — transition not permitted;
			name: "illegal_transition_return_409",
			body: `{"status":"pending"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return("", models.ErrIllegalTransition).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusConflict,
		},
		{
			// 500 — internal server error.
			name: "internal_error_return_500",
			body: `{"status":"confirmed"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				ctrl := gomock.NewController(t)
				defer ctrl.Finish()

				svcMock := mocks.NewMockOrderService(ctrl)
				svcMock.EXPECT().SetStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return("", models.ErrInternalError).AnyTimes()
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, "/api/orders/order-1/status", strings.NewReader(tt.body))
			require.NoError(t, err)

			w := httptest.NewRecorder()
			st := tt.setup(t)

			handler := NewOrderHandler(st)
			h := handler.SetStatus()
			h(w, req)

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
		})
	}
}

func TestOrderHandler_MarkPaid_ForbiddenForOtherUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockOrderService(ctrl)
	svcMock.EXPECT().GetDetails(gomock.Any(), gomock.Any()).Return(&models.OrderDetails{
		Order: models.Order{ID: "order-1", UserID: "someone-else"},
	}, nil)
	svcMock.EXPECT().MarkPaid(gomock.Any(), gomock.Any()).Times(0)

	req, err := http.NewRequest(http.MethodPost, "/api/orders/order-1/pay", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	ctx := middleware.WithPayload(req.Context(), &models.TokenPayload{UserID: "user-1", Role: models.RoleCustomer})

	h := NewOrderHandler(svcMock).MarkPaid()
	h(w, req.WithContext(ctx))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestOrderHandler_MarkPaid_AdminSkipsOwnershipCheck(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svcMock := mocks.NewMockOrderService(ctrl)
	svcMock.EXPECT().MarkPaid(gomock.Any(), gomock.Any()).Return(nil)

	req, err := http.NewRequest(http.MethodPost, "/api/orders/order-1/pay", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	ctx := middleware.WithPayload(req.Context(), &models.TokenPayload{UserID: "admin-1", Role: models.RoleAdmin})

	h := NewOrderHandler(svcMock).MarkPaid()
	h(w, req.WithContext(ctx))

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)
}
