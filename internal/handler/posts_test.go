package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/neon-social/backend/internal/service"
)

func TestListByUserRejectsBadID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var svc *service.PostService
	r := gin.New()
	r.GET("/users/:id/posts", NewPostHandler(svc).ListByUser)

	for _, id := range []string{"abc", "0", "-1"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/"+id+"/posts", nil))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for id %q, got %d", id, w.Code)
		}
	}
}
