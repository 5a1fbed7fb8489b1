package router

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appsc "github.com/supplynet/backend/internal/application/supplychain"
	"github.com/supplynet/backend/internal/infrastructure/auth"
	"github.com/supplynet/backend/internal/infrastructure/config"
	"github.com/supplynet/backend/internal/infrastructure/persistence"
	"github.com/supplynet/backend/internal/interfaces/http/dto"
	"github.com/supplynet/backend/internal/interfaces/http/handler"
	"github.com/supplynet/backend/internal/interfaces/http/middleware"
	"github.com/supplynet/backend/internal/testutil"
)

var routesJWT = config.JWTConfig{Secret: "routes-test-secret-0123456789abcdef", Issuer: "supplynet"}

func newApp(t *testing.T, staffOnly bool) *gin.Engine {
	t.Helper()
	middleware.SetupValidator()

	db := testutil.NewSupplyChainDB(t)
	contactRepo := persistence.NewGormContactRepository(db)
	networkRepo := persistence.NewGormNetworkRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	txScope := persistence.NewGormTransactionScope(db)
	networks := appsc.NewNetworkService(txScope, networkRepo, nil, zap.NewNop())

	h := Handlers{
		Networks: handler.NewNetworkHandler(networks),
		Admin: handler.NewAdminHandler(handler.AdminServices{
			Networks: networks,
			Contacts: appsc.NewContactService(txScope, contactRepo, zap.NewNop()),
			Products: appsc.NewProductService(txScope, productRepo, networkRepo, zap.NewNop()),
			Queries:  appsc.NewAdminQueryService(networkRepo, contactRepo),
			Actions:  appsc.NewActionRegistry(networks),
		}),
		System: handler.NewSystemHandler("supplynet", "test", nil),
	}

	authenticator := auth.NewAuthenticator(auth.NewTokenVerifier(routesJWT), auth.NewInMemoryRevocationList())
	engine := gin.New()
	engine.Use(middleware.RequestID())
	SetupRoutes(engine, h, AccessConfig{
		Authenticate: middleware.Authenticate(middleware.AuthConfig{Authenticator: authenticator}),
		StaffOnly:    staffOnly,
	})
	return engine
}

func tokenFor(t *testing.T, in auth.IssueInput) map[string]string {
	t.Helper()
	in.TTL = time.Hour
	token, _, err := auth.NewTokenVerifier(routesJWT).Issue(in)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + token}
}

func TestSetupRoutes_AccessGate(t *testing.T) {
	engine := newApp(t, true)

	active := tokenFor(t, auth.IssueInput{UserID: "u1", Active: true})
	inactive := tokenFor(t, auth.IssueInput{UserID: "u2", Active: false})
	staff := tokenFor(t, auth.IssueInput{UserID: "u3", Active: true, Staff: true})

	tests := []struct {
		name     string
		method   string
		path     string
		headers  map[string]string
		body     any
		wantCode int
	}{
		{"anonymous list", http.MethodGet, "/api/v1/networks", nil, nil, http.StatusForbidden},
		{"anonymous create", http.MethodPost, "/api/v1/networks", nil, map[string]any{"name": "x", "level": 0}, http.StatusForbidden},
		{"inactive list", http.MethodGet, "/api/v1/networks", inactive, nil, http.StatusForbidden},
		{"inactive create", http.MethodPost, "/api/v1/networks", inactive, map[string]any{"name": "x", "level": 0}, http.StatusForbidden},
		{"active list", http.MethodGet, "/api/v1/networks", active, nil, http.StatusOK},
		{"active create", http.MethodPost, "/api/v1/networks", active, map[string]any{"name": "x", "level": 0}, http.StatusCreated},
		{"bad token", http.MethodGet, "/api/v1/networks", map[string]string{"Authorization": "Bearer junk"}, nil, http.StatusUnauthorized},
		{"console needs staff", http.MethodGet, "/admin/networks", active, nil, http.StatusForbidden},
		{"console anonymous", http.MethodGet, "/admin/contacts", nil, nil, http.StatusForbidden},
		{"console staff", http.MethodGet, "/admin/networks", staff, nil, http.StatusOK},
		{"system info is open", http.MethodGet, "/api/v1/system/info", nil, nil, http.StatusOK},
		{"health is open", http.MethodGet, "/health", nil, nil, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.PerformRequest(t, engine, testutil.Request{
				Method:  tt.method,
				Path:    tt.path,
				Headers: tt.headers,
				Body:    tt.body,
			})
			assert.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode == http.StatusForbidden {
				testutil.AssertErrorResponse(t, w, dto.ErrCodeForbidden)
			}
		})
	}
}

func TestSetupRoutes_DeniedWriteStoresNothing(t *testing.T) {
	engine := newApp(t, true)
	inactive := tokenFor(t, auth.IssueInput{UserID: "u2", Active: false})
	active := tokenFor(t, auth.IssueInput{UserID: "u1", Active: true})

	w := testutil.PerformRequest(t, engine, testutil.Request{
		Method:  http.MethodPost,
		Path:    "/api/v1/networks",
		Headers: inactive,
		Body:    map[string]any{"name": "sneaky", "level": 0},
	})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.PerformRequest(t, engine, testutil.Request{Path: "/api/v1/networks", Headers: active})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, testutil.JSONResponse(t, w)["data"])
}

func TestSetupRoutes_ConsoleWithoutStaffFlag(t *testing.T) {
	engine := newApp(t, false)
	active := tokenFor(t, auth.IssueInput{UserID: "u1", Active: true})

	w := testutil.PerformRequest(t, engine, testutil.Request{Path: "/admin/actions", Headers: active})
	assert.Equal(t, http.StatusOK, w.Code)
}
