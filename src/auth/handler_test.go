package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xPetra/zuzagorauth/src/session"
	"github.com/0xPetra/zuzagorauth/src/zkp"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type handlerFixture struct {
	*fixture
	sessions *session.Store
	router   *gin.Engine
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	f := newFixture(t)
	sessions := session.NewStore("sid", false)
	h := NewHandler(f.svc, sessions)

	router := gin.New()
	router.POST("/v1/auth/authenticate", h.Authenticate)
	router.GET("/v1/auth/nonce", h.Nonce)
	router.GET("/v1/auth/sso", h.SSOLogin)
	router.GET("/v1/health", h.Health)

	return &handlerFixture{fixture: f, sessions: sessions, router: router}
}

// seedSession creates a session holding the test nonce and returns the cookie
// a browser would replay.
func (hf *handlerFixture) seedSession(t *testing.T) *http.Cookie {
	t.Helper()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	sid, sess := hf.sessions.Ensure(w, r)

	sess.Nonce = testNonce
	hf.sessions.Put(sid, sess)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	r.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		r.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	return w
}

func TestAuthenticateEndpointWithoutSession(t *testing.T) {
	hf := newHandlerFixture(t)
	sub := hf.addProof("pcd-1", memberClaim("N1"))

	w := postJSON(t, hf.router, "/v1/auth/authenticate", []zkp.Submission{sub})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "No nonce in session")
}

func TestAuthenticateEndpointRejectsBadJSON(t *testing.T) {
	hf := newHandlerFixture(t)

	r := httptest.NewRequest(http.MethodPost, "/v1/auth/authenticate", bytes.NewReader([]byte("{not json")))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	hf.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthenticateEndpointHappyPath(t *testing.T) {
	hf := newHandlerFixture(t)
	cookie := hf.seedSession(t)
	sub := hf.addProof("pcd-1", memberClaim("N1"))

	w := postJSON(t, hf.router, "/v1/auth/authenticate", []zkp.Submission{sub}, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	var resp AuthenticateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "attendee@example.com", resp.AttendeeEmail)
	assert.Len(t, resp.Sig, 64)
	assert.NotEmpty(t, resp.EncodedPayload)
	assert.Equal(t, http.StatusOK, resp.Status)
}

func TestAuthenticateEndpointRejectedBatch(t *testing.T) {
	hf := newHandlerFixture(t)
	cookie := hf.seedSession(t)
	sub := zkp.Submission{Type: "semaphore-signature-pcd", PCD: "x"}

	w := postJSON(t, hf.router, "/v1/auth/authenticate", []zkp.Submission{sub}, cookie)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Message string      `json:"message"`
		Errors  []Rejection `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No valid PCDs found", resp.Message)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, 0, resp.Errors[0].Index)
}

func TestNonceEndpointIssuesSessionNonce(t *testing.T) {
	hf := newHandlerFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/v1/auth/nonce", nil)
	w := httptest.NewRecorder()
	hf.router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	var resp struct {
		Nonce string `json:"nonce"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Nonce, 32)
	_, err := hex.DecodeString(resp.Nonce)
	assert.NoError(t, err)
}

func TestNonceEndpointReplacesPreviousNonce(t *testing.T) {
	hf := newHandlerFixture(t)
	cookie := hf.seedSession(t)

	r := httptest.NewRequest(http.MethodGet, "/v1/auth/nonce", nil)
	r.AddCookie(cookie)
	w := httptest.NewRecorder()
	hf.router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Nonce string `json:"nonce"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, testNonce, resp.Nonce)
}

func TestSSOLoginSeedsSessionFromSignedRequest(t *testing.T) {
	hf := newHandlerFixture(t)

	inbound := url.Values{}
	inbound.Set("nonce", "cafe01")
	inbound.Set("return_sso_url", "https://forum.example.com/session/sso_login")
	encoded := base64.StdEncoding.EncodeToString([]byte(inbound.Encode()))

	mac := hmac.New(sha256.New, []byte("test-secret"))
	mac.Write([]byte(encoded))
	sig := hex.EncodeToString(mac.Sum(nil))

	target := "/v1/auth/sso?sso=" + url.QueryEscape(encoded) + "&sig=" + sig
	r := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	hf.router.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		IsValid      bool   `json:"isValid"`
		Nonce        string `json:"nonce"`
		ReturnSSOURL string `json:"return_sso_url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsValid)
	assert.Equal(t, "cafe01", resp.Nonce)
	assert.Equal(t, "https://forum.example.com/session/sso_login", resp.ReturnSSOURL)

	// The seeded nonce is immediately usable for a proof submission.
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	claim := memberClaim("N1")
	claim.Watermark, _ = new(big.Int).SetString("cafe01", 16)
	sub := hf.addProof("pcd-1", claim)

	w2 := postJSON(t, hf.router, "/v1/auth/authenticate", []zkp.Submission{sub}, cookies[0])
	assert.Equal(t, http.StatusOK, w2.Code)
}

func TestSSOLoginRejectsTamperedSignature(t *testing.T) {
	hf := newHandlerFixture(t)

	encoded := base64.StdEncoding.EncodeToString([]byte("nonce=cafe01"))
	target := "/v1/auth/sso?sso=" + url.QueryEscape(encoded) + "&sig=" + "00aa"
	r := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	hf.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "\"isValid\":false")
}

func TestSSOLoginRequiresParameters(t *testing.T) {
	hf := newHandlerFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/v1/auth/sso", nil)
	w := httptest.NewRecorder()
	hf.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoint(t *testing.T) {
	hf := newHandlerFixture(t)

	r := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	w := httptest.NewRecorder()
	hf.router.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}
