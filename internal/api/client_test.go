package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/escrowdesk/escrowdesk/internal/log"
	"github.com/escrowdesk/escrowdesk/internal/session"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	s, err := session.Open(filepath.Join(t.TempDir(), "token"))
	if err != nil {
		t.Fatalf("open session: %v", err)
	}
	return s
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Session) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	sess := newTestSession(t)
	return New(ts.URL, 5*time.Second, sess, log.Nop()), sess
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestLoginStoresToken(t *testing.T) {
	r := testRouter()
	r.POST("/api/admin/login", func(c *gin.Context) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Email != "ops@example.com" || req.Password != "hunter2" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"accessToken": "tok-abc"})
	})

	client, sess := newTestClient(t, r)

	if err := client.Login(context.Background(), "ops@example.com", "hunter2"); err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := sess.Token()
	if err != nil {
		t.Fatalf("token after login: %v", err)
	}
	if token != "tok-abc" {
		t.Fatalf("expected tok-abc, got %q", token)
	}
}

func TestBearerAndRequestIDHeaders(t *testing.T) {
	var gotAuth, gotReqID string
	r := testRouter()
	r.GET("/api/admin/users", func(c *gin.Context) {
		gotAuth = c.GetHeader("Authorization")
		gotReqID = c.GetHeader("X-Request-ID")
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"users": []gin.H{}}})
	})

	client, sess := newTestClient(t, r)
	if err := sess.Save("tok-xyz"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	if _, err := client.ListUsers(context.Background()); err != nil {
		t.Fatalf("list users: %v", err)
	}
	if gotAuth != "Bearer tok-xyz" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotReqID == "" {
		t.Fatal("expected an X-Request-ID header")
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	r := testRouter()
	r.GET("/api/admin/users", func(c *gin.Context) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token", "tokenExpired": true})
	})

	client, sess := newTestClient(t, r)
	if err := sess.Save("stale-token"); err != nil {
		t.Fatalf("save token: %v", err)
	}

	_, err := client.ListUsers(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := sess.Token(); !errors.Is(err, session.ErrNotLoggedIn) {
		t.Fatal("rejected credential must be cleared")
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	r := testRouter()
	r.GET("/api/admin/dashboard-stats", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "aggregation failed"})
	})

	client, _ := newTestClient(t, r)

	_, err := client.Stats(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Message != "aggregation failed" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
}

func TestDisputeMessagesDecodeAndMap(t *testing.T) {
	r := testRouter()
	r.GET("/api/disputes/:id", func(c *gin.Context) {
		if c.Param("id") != "d42" {
			c.JSON(http.StatusNotFound, gin.H{"error": "dispute not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"messages": []gin.H{
			{
				"_id":       "m1",
				"disputeId": "d42",
				"userId":    gin.H{"_id": "u9", "firstName": "Ada", "lastName": "Obi"},
				"userRole":  "Buyer",
				"message":   "item never arrived",
				"timestamp": "2026-08-01T10:00:00Z",
			},
			{
				"_id":       "m2",
				"disputeId": "d42",
				"userRole":  "Admin",
				"message":   "looking into it",
				"timestamp": "2026-08-01T10:05:00Z",
			},
		}}})
	})

	client, _ := newTestClient(t, r)

	history := ChatHistory{Client: client}
	messages, err := history.Messages(context.Background(), "d42")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].ID != "m1" || messages[0].AuthorID != "u9" || messages[0].RoomID != "d42" {
		t.Fatalf("unexpected first message: %+v", messages[0])
	}
	// Admin messages carry no author document.
	if messages[1].AuthorID != "" || string(messages[1].AuthorRole) != "Admin" {
		t.Fatalf("unexpected admin message: %+v", messages[1])
	}
}

func TestPostDisputeMessage(t *testing.T) {
	r := testRouter()
	r.POST("/api/disputes/:id/messages", func(c *gin.Context) {
		var req struct {
			Message string `json:"message"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"data": gin.H{
			"_id":       "m3",
			"disputeId": c.Param("id"),
			"userRole":  "Admin",
			"message":   req.Message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}})
	})

	client, _ := newTestClient(t, r)

	poster := ChatPoster{Client: client}
	msg, err := poster.Post(context.Background(), "d42", "hello")
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if msg.ID != "m3" || msg.RoomID != "d42" || msg.Body != "hello" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestMarkWithdrawalPaid(t *testing.T) {
	paid := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	r := testRouter()
	r.POST("/api/admin/withdrawals/:ref/paid", func(c *gin.Context) {
		if c.Param("ref") != "WD-881" {
			c.JSON(http.StatusNotFound, gin.H{"error": "withdrawal not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"paidDate": paid.Format(time.RFC3339)}})
	})

	client, _ := newTestClient(t, r)

	got, err := client.MarkWithdrawalPaid(context.Background(), "WD-881")
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if !got.Equal(paid) {
		t.Fatalf("expected %v, got %v", paid, got)
	}
}

func TestListDisputes(t *testing.T) {
	r := testRouter()
	r.GET("/api/disputes/admin/all", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": gin.H{"disputes": []gin.H{
			{
				"_id":    "d1",
				"status": "Open",
				"reason": "not as described",
				"transactionId": gin.H{
					"_id":       "t1",
					"reference": "TX-100",
					"status":    "disputed",
				},
			},
		}}})
	})

	client, _ := newTestClient(t, r)

	disputes, err := client.ListDisputes(context.Background())
	if err != nil {
		t.Fatalf("list disputes: %v", err)
	}
	if len(disputes) != 1 {
		t.Fatalf("expected 1 dispute, got %d", len(disputes))
	}
	d := disputes[0]
	if d.ID != "d1" || d.Status != "Open" || d.Transaction == nil || d.Transaction.Reference != "TX-100" {
		t.Fatalf("unexpected dispute: %+v", d)
	}
}
