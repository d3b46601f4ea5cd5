package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	"github.com/SscSPs/ledgerbook/internal/core/domain"
	portssvc "github.com/SscSPs/ledgerbook/internal/core/ports/services"
	"github.com/SscSPs/ledgerbook/internal/handlers"
	"github.com/SscSPs/ledgerbook/internal/middleware"
	"github.com/SscSPs/ledgerbook/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// handlerSuite routes requests through the real router onto mocked services.
type handlerSuite struct {
	suite.Suite
	cfg    *config.Config
	router *gin.Engine

	accounts     *MockAccountService
	transactions *MockTransactionService
	auth         *MockAuthService
	backup       *MockBackupService
	reporting    *MockReportingService
	currency     *MockCurrencyService
}

var testScope = domain.Scope{BankID: 1, Year: 2024}

const scopePath = "/api/v1/banks/1/years/2024"

func (s *handlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.cfg = &config.Config{
		JWTSecret:          "test-secret-key-that-is-long-enough",
		JWTIssuer:          "ledgerbook-test",
		AppVersion:         "test",
		BackupMaxBytes:     1 << 20,
		RateLimit:          "1000-M",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		IsProduction:       true,
	}

	s.accounts = new(MockAccountService)
	s.transactions = new(MockTransactionService)
	s.auth = new(MockAuthService)
	s.backup = new(MockBackupService)
	s.reporting = new(MockReportingService)
	s.currency = new(MockCurrencyService)

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(testLogger()))
	handlers.RegisterRoutes(s.router, s.cfg, &portssvc.ServiceContainer{
		Account:     s.accounts,
		Transaction: s.transactions,
		Auth:        s.auth,
		Backup:      s.backup,
		Reporting:   s.reporting,
		Currency:    s.currency,
	})
}

// unlocked makes the auth guard report that no PIN is set.
func (s *handlerSuite) unlocked() {
	s.auth.On("PINRequired", mock.Anything).Return(false, nil)
}

// generateTestToken creates a session token signed with the suite's secret.
func (s *handlerSuite) generateTestToken(expiresIn time.Duration) string {
	claims := jwt.RegisteredClaims{
		Issuer:    s.cfg.JWTIssuer,
		Subject:   "local-user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		s.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (s *handlerSuite) do(method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *handlerSuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *handlerSuite) errorMessage(w *httptest.ResponseRecorder) string {
	var body map[string]string
	s.decode(w, &body)
	return body["error"]
}

func (s *handlerSuite) assertMocks() {
	s.accounts.AssertExpectations(s.T())
	s.transactions.AssertExpectations(s.T())
	s.backup.AssertExpectations(s.T())
	s.reporting.AssertExpectations(s.T())
}

func (s *handlerSuite) TearDownTest() {
	s.assertMocks()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
