package httptransport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"authchain/internal/custody"
	"authchain/internal/eventlog"
	"authchain/internal/inventory"
	jwttoken "authchain/internal/jwt_token"
	"authchain/internal/ledger"
	"authchain/internal/manufacturer"
	"authchain/internal/platform/metrics"
	"authchain/internal/registry"
	"authchain/internal/sale"
	id "authchain/pkg/domain"
)

const ownerAccount = "0xOWNER"

type HandlersSuite struct {
	suite.Suite
	server *httptest.Server
	tokens *jwttoken.JWTService
	events *eventlog.InMemoryStore
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

var testMetrics = metrics.New()

func (s *HandlersSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	s.events = eventlog.NewInMemoryStore()
	publisher := eventlog.NewPublisher(s.events, eventlog.WithLogger(logger))
	l := ledger.New(publisher, ledger.WithLogger(logger))

	roles := registry.NewInMemoryRoleStore()
	reg := registry.New(l, roles, registry.NewInMemoryAdminStore(), ownerAccount, registry.WithLogger(logger))
	dir := manufacturer.New(l, manufacturer.NewInMemoryProfileStore(), roles, manufacturer.WithLogger(logger))
	products := inventory.NewInMemoryProductStore()
	stock := inventory.New(l, products, roles, dir, inventory.WithLogger(logger))
	holdings := custody.NewInMemoryHoldingStore()
	cust := custody.New(l,
		custody.NewInMemoryRetailerStore(),
		custody.NewInMemoryPersonnelStore(),
		holdings,
		custody.NewInMemoryTransferStore(),
		products,
		roles,
		dir,
		custody.WithLogger(logger),
	)
	sales := sale.New(l, sale.NewInMemoryConsumerStore(), sale.NewInMemorySaleStore(), holdings, roles, sale.WithLogger(logger))

	s.tokens = jwttoken.NewJWTService("test-signing-key", "authchain", "authchain")
	handler := NewHandler(logger, testMetrics, reg, dir, stock, cust, sales, publisher)
	s.server = httptest.NewServer(NewRouter(handler, s.tokens))
	s.T().Cleanup(s.server.Close)
}

func (s *HandlersSuite) do(method, path string, caller id.Account, body any) *http.Response {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	if caller != "" {
		token, err := s.tokens.GenerateAccessToken(caller, time.Hour)
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.server.Client().Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *HandlersSuite) decode(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	var out map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seedChain walks the happy path up to a retailer holding stock.
func (s *HandlersSuite) seedChain() {
	resp := s.do(http.MethodPost, "/admins", ownerAccount, registerAdminRequest{Account: "0xADMIN"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/manufacturers", "0xM", registerManufacturerRequest{BrandName: "Acme"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/manufacturers/0xM/verification", "0xADMIN", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/roles", "0xADMIN", assignRoleRequest{Account: "0xM", Role: "manufacturer"})
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/products", "0xM", addProductRequest{Code: "12345", Name: "Widget", Quantity: 100})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/retailers", "0xR", registerRetailerRequest{BrandName: "Corner Shop"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/products/12345/transfers", "0xM", transferRequest{Retailer: "0xR", Quantity: 10, Handler: "0xHANDLER"})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()
}

func (s *HandlersSuite) TestHealthz() {
	resp := s.do(http.MethodGet, "/healthz", "", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *HandlersSuite) TestAuthentication() {
	s.Run("mutation without token is unauthorized", func() {
		resp := s.do(http.MethodPost, "/admins", "", registerAdminRequest{Account: "0xADMIN"})
		defer resp.Body.Close()
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("garbage token is unauthorized", func() {
		req, err := http.NewRequest(http.MethodPost, s.server.URL+"/admins", bytes.NewReader([]byte(`{}`)))
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer not-a-token")
		resp, err := s.server.Client().Do(req)
		s.Require().NoError(err)
		defer resp.Body.Close()
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("reads need no token", func() {
		resp := s.do(http.MethodGet, "/events", "", nil)
		defer resp.Body.Close()
		s.Equal(http.StatusOK, resp.StatusCode)
	})
}

func (s *HandlersSuite) TestFullChain() {
	s.seedChain()

	resp := s.do(http.MethodPost, "/consumers", "0xC", nil)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodPost, "/products/12345/sales", "0xR", sellRequest{Consumer: "0xC", Quantity: 4})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	record := s.decode(resp)
	s.Equal(float64(4), record["purchased"])

	resp = s.do(http.MethodGet, "/products/12345", "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	product := s.decode(resp)
	s.Equal(float64(90), product["on_hand"])
	s.Equal(float64(100), product["total_added"])

	resp = s.do(http.MethodGet, "/products/12345/sales/0xC", "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	purchase := s.decode(resp)
	s.Equal(float64(4), purchase["purchased"])

	resp = s.do(http.MethodGet, "/products/12345/sales/0xNEVER", "", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = s.do(http.MethodGet, "/products/12345/transfers", "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	transfers := s.decode(resp)["transfers"].([]any)
	s.Len(transfers, 1)

	resp = s.do(http.MethodGet, "/events/12345", "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	events := s.decode(resp)["events"].([]any)
	names := make([]string, 0, len(events))
	for _, ev := range events {
		names = append(names, ev.(map[string]any)["name"].(string))
	}
	s.Equal([]string{
		eventlog.ProductAdded,
		eventlog.TransferredToRetailer,
		eventlog.ProductSoldToConsumer,
	}, names)
}

func (s *HandlersSuite) TestErrorMapping() {
	s.Run("forbidden refusal maps to 403", func() {
		resp := s.do(http.MethodPost, "/admins", "0xSTRANGER", registerAdminRequest{Account: "0xTARGET"})
		defer resp.Body.Close()
		s.Equal(http.StatusForbidden, resp.StatusCode)
	})

	s.Run("invariant violation maps to 422", func() {
		s.seedChain()
		resp := s.do(http.MethodPost, "/products/12345/sales", "0xR", sellRequest{Consumer: "0xC", Quantity: 11})
		defer resp.Body.Close()
		s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
		body := s.decode(resp)
		s.Equal("invariant_violation", body["error"])
	})

	s.Run("unknown product maps to 404", func() {
		resp := s.do(http.MethodGet, "/products/99999", "", nil)
		defer resp.Body.Close()
		s.Equal(http.StatusNotFound, resp.StatusCode)
	})

	s.Run("malformed body maps to 400", func() {
		token, err := s.tokens.GenerateAccessToken("0xANYONE", time.Hour)
		s.Require().NoError(err)
		req, err := http.NewRequest(http.MethodPost, s.server.URL+"/retailers", bytes.NewReader([]byte(`{"brand_name":`)))
		s.Require().NoError(err)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := s.server.Client().Do(req)
		s.Require().NoError(err)
		defer resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})

	s.Run("invalid role name maps to 400", func() {
		s.seedChain()
		resp := s.do(http.MethodPost, "/roles", "0xADMIN", assignRoleRequest{Account: "0xX", Role: "superuser"})
		defer resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *HandlersSuite) TestTransferHandlerField() {
	s.seedChain()

	s.Run("handler may be omitted", func() {
		resp := s.do(http.MethodPost, "/products/12345/transfers", "0xM", transferRequest{Retailer: "0xR", Quantity: 5})
		defer resp.Body.Close()
		s.Equal(http.StatusCreated, resp.StatusCode)
	})

	s.Run("malformed handler maps to 400", func() {
		resp := s.do(http.MethodPost, "/products/12345/transfers", "0xM", transferRequest{Retailer: "0xR", Quantity: 5, Handler: "0x BAD"})
		defer resp.Body.Close()
		s.Equal(http.StatusBadRequest, resp.StatusCode)
	})
}

func (s *HandlersSuite) TestEventsLimit() {
	s.seedChain()

	resp := s.do(http.MethodGet, "/events?limit=2", "", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	events := s.decode(resp)["events"].([]any)
	s.Len(events, 2)

	resp = s.do(http.MethodGet, "/events?limit=nope", "", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlersSuite) TestOversizedAccountParam() {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	resp := s.do(http.MethodGet, fmt.Sprintf("/roles/%s", long), "", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}
