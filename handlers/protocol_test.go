package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"supapass/middlewares"
	"supapass/models"
	"supapass/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testPassType = "pass.com.supabase.supapass"
	testToken    = "token-alice"
	testSerial   = "serial-alice"
	testDevice   = "device-1"
)

type fakeStats struct {
	stats    models.UserStats
	degraded bool
	member   bool
}

func (f *fakeStats) UserStats(context.Context, string) (models.UserStats, bool) {
	return f.stats, f.degraded
}

func (f *fakeStats) IsOrgMember(context.Context, string) bool {
	return f.member
}

type fakeGenerator struct {
	archive  []byte
	err      error
	lastPass models.Pass
	lastName string
}

func (f *fakeGenerator) Generate(pass models.Pass, userName string) ([]byte, error) {
	f.lastPass = pass
	f.lastName = userName
	if f.err != nil {
		return nil, f.err
	}
	return f.archive, nil
}

type fakeNotifier struct {
	updated []models.Pass
}

func (f *fakeNotifier) NotifyPassUpdated(pass models.Pass) {
	f.updated = append(f.updated, pass)
}

// newTestRouter wires the PassKit surface exactly as main does.
func newTestRouter(s store.Store, generator PassGenerator) *gin.Engine {
	logger := zap.NewNop()
	router := gin.New()

	router.POST("/v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier/:serialNumber", func(c *gin.Context) {
		RegisterDevice(c, s, logger)
	})
	router.DELETE("/v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier/:serialNumber", func(c *gin.Context) {
		UnregisterDevice(c, s, logger)
	})
	router.GET("/v1/devices/:deviceLibraryIdentifier/registrations/:passTypeIdentifier", func(c *gin.Context) {
		ListUpdatedSerials(c, s, logger)
	})
	router.GET("/v1/passes/:passTypeIdentifier/:serialNumber", func(c *gin.Context) {
		GetPass(c, s, generator, logger)
	})
	return router
}

func seedAlice(s *fakeStore) models.Pass {
	pass := models.Pass{
		ID:                      "aaaaaaaa-1111-4111-8111-aaaaaaaaaaaa",
		UserID:                  "bbbbbbbb-2222-4222-8222-bbbbbbbbbbbb",
		SerialNumber:            testSerial,
		PassTypeIdentifier:      testPassType,
		AuthenticationToken:     testToken,
		PullRequestsCount:       2,
		MergedPullRequestsCount: 4,
		IssuesOpenedCount:       1,
		TotalContributionsCount: 7,
	}
	s.addPass(pass)
	s.addUser(models.User{ID: pass.UserID, UserName: "alice"})
	return pass
}

func registerURL(device, serial string) string {
	return "/v1/devices/" + device + "/registrations/" + testPassType + "/" + serial
}

func doRegister(t *testing.T, router *gin.Engine, device, serial, token string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(gin.H{"pushToken": "push-" + device})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, registerURL(device, serial), bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "ApplePass "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doUnregister(t *testing.T, router *gin.Engine, device, serial, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, registerURL(device, serial), nil)
	if token != "" {
		req.Header.Set("Authorization", "ApplePass "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doList(t *testing.T, router *gin.Engine, device string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/v1/devices/"+device+"/registrations/"+testPassType, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func sessionContext(userID, userName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middlewares.ContextUserID, userID)
		c.Set(middlewares.ContextUserName, userName)
	}
}
