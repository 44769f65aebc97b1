package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/model"
	"github.com/neon-social/backend/internal/service"
)

const currentUserKey = "current_user"

// RequireAuth verifies the bearer token, loads the account and applies the
// ban policy. Banned accounts get 403 with the reason and lift time; expired
// bans are lifted on the spot and the request proceeds.
func RequireAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
			c.Abort()
			return
		}

		authUser, err := authService.ParseAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
			c.Abort()
			return
		}

		user, err := authService.ResolveUser(c.Request.Context(), authUser.ID)
		if err != nil {
			writeAuthError(c, err)
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present and otherwise
// treats the request as anonymous. A banned account is anonymous here, not an
// error.
func OptionalAuth(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		authUser, err := authService.ParseAccessToken(token)
		if err != nil {
			c.Next()
			return
		}

		user, err := authService.ResolveUserOptional(c.Request.Context(), authUser.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
			c.Abort()
			return
		}
		if user != nil {
			c.Set(currentUserKey, user)
		}
		c.Next()
	}
}

// RequireAdmin sits behind RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetCurrentUser(c)
		if user == nil || !user.IsAdmin {
			c.JSON(http.StatusForbidden, model.ErrorResponse{Error: "admin only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetCurrentUser(c *gin.Context) *model.User {
	if value, ok := c.Get(currentUserKey); ok {
		if user, ok := value.(*model.User); ok {
			return user
		}
	}
	return nil
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func CORSMiddleware(allowedOrigins []string, allowCredentials bool) gin.HandlerFunc {
	originMap := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		originMap[trimmed] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			if _, ok := originMap[origin]; ok {
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Vary", "Origin")
				if allowCredentials {
					c.Header("Access-Control-Allow-Credentials", "true")
				}
				c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
				c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type rateWindow struct {
	count       int
	windowStart time.Time
}

// RateLimiter is a fixed-window per-IP limiter kept in process memory. Good
// enough for a single instance; a multi-instance deployment would move this
// to a shared store.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateWindow
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*rateWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, resetAt, allowed := rl.allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

		if !allowed {
			c.JSON(http.StatusTooManyRequests, model.ErrorResponse{Error: "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(clientIP string) (remaining int, resetAt time.Time, allowed bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	window, ok := rl.clients[clientIP]
	if !ok || now.Sub(window.windowStart) >= rl.window {
		window = &rateWindow{windowStart: now}
		rl.clients[clientIP] = window
	}

	resetAt = window.windowStart.Add(rl.window)
	if window.count >= rl.limit {
		return 0, resetAt, false
	}

	window.count++
	return rl.limit - window.count, resetAt, true
}

func writeAuthError(c *gin.Context, err error) {
	var banned *service.BannedError
	if errors.As(err, &banned) {
		resp := model.ErrorResponse{Error: "account banned", Reason: banned.Reason}
		if banned.Until != nil {
			resp.Until = banned.Until.UTC().Format(time.RFC3339)
		}
		c.JSON(http.StatusForbidden, resp)
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrInvalidChatRequest):
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "invalid input"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, model.ErrorResponse{Error: "forbidden"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, model.ErrorResponse{Error: "not found"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, model.ErrorResponse{Error: "already exists"})
	case errors.Is(err, service.ErrChatUnavailable), errors.Is(err, service.ErrMisconfigured):
		c.JSON(http.StatusServiceUnavailable, model.ErrorResponse{Error: "service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "server error"})
	}
}
