package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/dealerbook/dealerbook/docs/swagger"
	v1 "github.com/dealerbook/dealerbook/internal/api/v1"
	ierr "github.com/dealerbook/dealerbook/internal/errors"
	"github.com/dealerbook/dealerbook/internal/service"
	"github.com/dealerbook/dealerbook/internal/testutil"
	"github.com/dealerbook/dealerbook/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

type RouterSuite struct {
	testutil.BaseServiceTestSuite
	router *gin.Engine
}

func TestRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	params := service.NewServiceParams(
		s.GetLogger(),
		s.GetConfig(),
		s.GetDB(),
		stores.SequenceRepo,
		stores.CapitalRepo,
		stores.TransactionRepo,
		stores.InventoryRepo,
		stores.PurchaseRepo,
		stores.SaleRepo,
		stores.PersonRepo,
		s.GetCache(),
		s.GetPubSub(),
		s.GetSentry(),
	)

	coordinator := service.NewCoordinator(params)
	capital := service.NewCapitalService(params)
	ledger := service.NewLedgerService(params)
	persons := service.NewPersonService(params)
	log := s.GetLogger()

	s.router = NewRouter(Handlers{
		Health:      v1.NewHealthHandler(s.GetDB(), log),
		Order:       v1.NewOrderHandler(coordinator, log),
		Purchase:    v1.NewPurchaseHandler(coordinator, log),
		Sale:        v1.NewSaleHandler(coordinator, log),
		Transfer:    v1.NewTransferHandler(coordinator, log),
		Account:     v1.NewAccountHandler(capital, coordinator, log),
		Transaction: v1.NewTransactionHandler(ledger, coordinator, log),
		Inventory:   v1.NewInventoryHandler(coordinator, log),
		Person:      v1.NewPersonHandler(persons, log),
	}, s.GetConfig(), log)
}

func (s *RouterSuite) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *RouterSuite) decode(w *httptest.ResponseRecorder, dest any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), dest))
}

func (s *RouterSuite) purchaseBody(chassis, total string) map[string]any {
	return map[string]any{
		"seller_name":   "Anil Motors",
		"total_amount":  total,
		"payment":       map[string]any{"cash": "500", "bank": "1500"},
		"purchase_date": "2024-03-10T10:00:00Z",
		"vehicle": map[string]any{
			"summary_id":     "inv_hero_bike",
			"brand":          "Hero",
			"category":       "BIKE",
			"item_id":        "splendor",
			"chassis_number": chassis,
		},
	}
}

func (s *RouterSuite) TestHealth() {
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/v1/health", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterSuite) TestSwaggerDoc() {
	w := s.do(http.MethodGet, "/swagger/doc.json", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var doc struct {
		BasePath string                    `json:"basePath"`
		Paths    map[string]map[string]any `json:"paths"`
	}
	s.decode(w, &doc)
	s.Equal("/v1", doc.BasePath)
	s.Contains(doc.Paths, "/purchases")
	s.Contains(doc.Paths["/sales/{id}/emi-payments"], "post")
	s.Contains(doc.Paths["/accounts/{name}/balance"], "put")
}

func (s *RouterSuite) TestRecordPurchase() {
	w := s.do(http.MethodPost, "/v1/purchases", s.purchaseBody("CH-001", "2000"), types.HeaderRequestID, "req-123")
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("req-123", w.Header().Get(types.HeaderRequestID))

	var created struct {
		ID             string   `json:"id"`
		OrderNumber    int64    `json:"order_number"`
		TransactionIDs []string `json:"transaction_ids"`
		Vehicle        struct {
			Status string `json:"status"`
		} `json:"vehicle"`
	}
	s.decode(w, &created)
	s.NotEmpty(created.ID)
	s.Equal(int64(1), created.OrderNumber)
	s.Len(created.TransactionIDs, 1)
	s.Equal(string(types.VehicleStatusInStock), created.Vehicle.Status)

	w = s.do(http.MethodGet, "/v1/orders/next-number", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var next struct {
		OrderNumber int64 `json:"order_number"`
	}
	s.decode(w, &next)
	s.Equal(int64(1), next.OrderNumber)

	w = s.do(http.MethodGet, "/v1/accounts", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var accounts struct {
		Items []struct {
			Name    string `json:"name"`
			Balance string `json:"balance"`
		} `json:"items"`
	}
	s.decode(w, &accounts)
	s.Require().Len(accounts.Items, 3)
	s.Equal(string(types.AccountCash), accounts.Items[0].Name)
	s.Equal("-500", accounts.Items[0].Balance)

	w = s.do(http.MethodGet, "/v1/transactions?type=PURCHASE", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var txns struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	s.decode(w, &txns)
	s.Require().Len(txns.Items, 1)
	s.Equal(created.TransactionIDs[0], txns.Items[0].ID)

	w = s.do(http.MethodGet, "/v1/inventory/summaries/inv_hero_bike", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var summary struct {
		TotalQuantity int `json:"total_quantity"`
	}
	s.decode(w, &summary)
	s.Equal(1, summary.TotalQuantity)
}

func (s *RouterSuite) TestErrorResponses() {
	testCases := []struct {
		name   string
		method string
		path   string
		body   any
		status int
		code   string
	}{
		{
			name:   "split_does_not_match_total",
			method: http.MethodPost,
			path:   "/v1/purchases",
			body:   s.purchaseBody("CH-002", "1999"),
			status: http.StatusBadRequest,
			code:   ierr.ErrCodeInvalidAmount,
		},
		{
			name:   "malformed_body",
			method: http.MethodPost,
			path:   "/v1/purchases",
			body:   "not an object",
			status: http.StatusBadRequest,
			code:   ierr.ErrCodeValidation,
		},
		{
			name:   "unknown_sale",
			method: http.MethodGet,
			path:   "/v1/sales/sale_missing",
			status: http.StatusNotFound,
			code:   ierr.ErrCodeNotFound,
		},
		{
			name:   "unknown_account",
			method: http.MethodPut,
			path:   "/v1/accounts/Wallet/balance",
			body:   map[string]any{"balance": "10", "description": "fix"},
			status: http.StatusBadRequest,
			code:   ierr.ErrCodeInvalidAccount,
		},
		{
			name:   "half_open_date_range",
			method: http.MethodGet,
			path:   "/v1/transactions?start_date=2024-03-10",
			status: http.StatusBadRequest,
			code:   ierr.ErrCodeValidation,
		},
		{
			name:   "negative_entry_limit",
			method: http.MethodGet,
			path:   "/v1/accounts/Cash/entries?limit=-1",
			status: http.StatusBadRequest,
			code:   ierr.ErrCodeValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			w := s.do(tc.method, tc.path, tc.body)
			s.Equal(tc.status, w.Code, w.Body.String())

			var resp ierr.ErrorResponse
			s.decode(w, &resp)
			s.False(resp.Success)
			s.Equal(tc.code, resp.Error.Code)
			s.NotEmpty(resp.Error.Display)
		})
	}
}
