package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/0xPetra/zuzagorauth/pkg/logger"
	"github.com/0xPetra/zuzagorauth/src/session"
	"github.com/0xPetra/zuzagorauth/src/zkp"
)

type Handler struct {
	svc      *Service
	sessions *session.Store
	log      *logger.Logger
}

func NewHandler(svc *Service, sessions *session.Store) *Handler {
	return &Handler{
		svc:      svc,
		sessions: sessions,
		log:      logger.Default(),
	}
}

// POST /v1/auth/authenticate
//
// Body: the ordered proof batch from the popup flow. The session must
// already carry a nonce (seeded by /v1/auth/sso or /v1/auth/nonce).
func (h *Handler) Authenticate(c *gin.Context) {
	requestID := uuid.NewString()
	start := time.Now()

	var subs []zkp.Submission
	if err := c.ShouldBindJSON(&subs); err != nil {
		h.log.Warnf("authenticate.bad_json request_id=%s error=%s", requestID, err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"message": "No PCDs specified or invalid input format."})
		return
	}

	sid, sess, err := h.sessions.Current(c.Request)
	if err != nil {
		h.log.Warnf("authenticate.no_session request_id=%s ip=%s", requestID, c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"message": "No nonce in session"})
		return
	}

	updatedSess, outcome, err := h.svc.Authenticate(c.Request.Context(), requestID, sess, subs)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			h.log.Warnf("authenticate.request_rejected request_id=%s code=%s", requestID, reqErr.Code)
			c.JSON(reqErr.Status, gin.H{"message": reqErr.Message})
			return
		}
		h.log.Errorf(err, "authenticate.internal request_id=%s", requestID)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unknown error"})
		return
	}

	if outcome.Response == nil {
		h.log.Infof("authenticate.rejected request_id=%s proofs=%d latency_ms=%d",
			requestID, len(subs), time.Since(start).Milliseconds())
		c.JSON(outcome.Status(), gin.H{
			"message": "No valid PCDs found",
			"errors":  outcome.Rejections,
		})
		return
	}

	// Session mutation is the last step of the accept decision.
	h.sessions.Put(sid, updatedSess)

	h.log.Infof("authenticate.ok request_id=%s groups=%d latency_ms=%d",
		requestID, len(outcome.TicketTypes), time.Since(start).Milliseconds())
	c.JSON(http.StatusOK, outcome.Response)
}

// GET /v1/auth/nonce
//
// Issues a fresh session nonce for clients driving the popup flow directly.
// Reissuing replaces any previous nonce; exactly one is live per session.
func (h *Handler) Nonce(c *gin.Context) {
	sid, sess := h.sessions.Ensure(c.Writer, c.Request)

	sess.Nonce = session.NewNonce(16)
	h.sessions.Put(sid, sess)

	c.JSON(http.StatusOK, gin.H{"nonce": sess.Nonce})
}

// GET /v1/auth/sso?sso=...&sig=...
//
// Entry point of the DiscourseConnect flow: validates the platform's signed
// request and seeds the session with its nonce and return URL.
func (h *Handler) SSOLogin(c *gin.Context) {
	ssoB64 := c.Query("sso")
	sig := c.Query("sig")
	if ssoB64 == "" || sig == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing sso or sig parameter"})
		return
	}

	values, err := h.svc.ValidateInbound(ssoB64, sig)
	if err != nil {
		h.log.Warnf("sso.invalid ip=%s error=%s", c.ClientIP(), err.Error())
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error(), "isValid": false})
		return
	}

	sid, sess := h.sessions.Ensure(c.Writer, c.Request)
	sess.Nonce = values.Get("nonce")
	sess.ReturnURL = values.Get("return_sso_url")
	h.sessions.Put(sid, sess)

	c.JSON(http.StatusOK, gin.H{
		"isValid":        true,
		"nonce":          sess.Nonce,
		"return_sso_url": sess.ReturnURL,
	})
}

// GET /v1/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
