package api

import (
	"crypto/subtle"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

const (
	gateCookie   = "access_ok"
	gateValidity = 60 * 24 * time.Hour
)

// gateLimiters throttles invite-code attempts per client IP so the code
// cannot be brute-forced. The table is flushed when it hits the cap,
// which resets in-flight throttles but keeps memory bounded.
const gateLimiterCap = 1024

var (
	gateLimiters   = make(map[string]*rate.Limiter)
	gateLimitersMu sync.Mutex
)

func gateLimiter(ip string) *rate.Limiter {
	gateLimitersMu.Lock()
	defer gateLimitersMu.Unlock()
	l, ok := gateLimiters[ip]
	if !ok {
		if len(gateLimiters) >= gateLimiterCap {
			gateLimiters = make(map[string]*rate.Limiter)
		}
		l = rate.NewLimiter(rate.Every(2*time.Second), 5)
		gateLimiters[ip] = l
	}
	return l
}

type GateRequest struct {
	Code string `json:"code"`
}

type GateResponse struct {
	Status string `json:"status"`
}

// POST /gate
//
// @Summary  Exchange the invite code for a signed access cookie
// @Accept   json
// @Produce  json
// @Param    request body GateRequest true "invite code"
// @Success  200 {object} GateResponse
// @Router   /gate [post]
func (h *Handler) submitGateCode(w http.ResponseWriter, r *http.Request) {
	if h.accessCode == "" {
		respondJSON(w, http.StatusOK, GateResponse{Status: "open"})
		return
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if !gateLimiter(ip).Allow() {
		respondError(w, http.StatusTooManyRequests, "too many attempts")
		return
	}

	var req GateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Code), []byte(h.accessCode)) != 1 {
		respondError(w, http.StatusForbidden, "incorrect code")
		return
	}

	token, err := h.issueGateToken()
	if err != nil {
		h.logger.Error("failed to sign gate token", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     gateCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(gateValidity.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, GateResponse{Status: "ok"})
}

func (h *Handler) issueGateToken() (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "access-gate",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(gateValidity)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.gateKey))
}

func (h *Handler) verifyGateToken(tokenString string) bool {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.gateKey), nil
	})
	return err == nil && token.Valid
}
