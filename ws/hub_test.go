package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vnkhanh/interview-prep-backend/utils"
)

func TestPodcastJobStatusDelivery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", "test-secret")

	token, err := utils.GenerateToken("user-1", "user")
	if err != nil {
		t.Fatalf("tạo token thất bại: %v", err)
	}

	r := gin.New()
	r.GET("/ws/podcasts/:id", HandlePodcastJobWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/podcasts/job-1?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("kết nối WebSocket thất bại: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	// Message đầu tiên phải là thông báo connected, gửi sau khi Register xong
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("đọc message connected thất bại: %v", err)
	}
	var hello struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(msg, &hello); err != nil {
		t.Fatalf("parse message connected thất bại: %v", err)
	}
	if hello.Type != "connected" {
		t.Fatalf("message đầu tiên phải là connected, nhận %q", hello.Type)
	}

	SendPodcastStatusUpdate("job-1", "processing", 40, "")

	_, msg, err = conn.ReadMessage()
	if err != nil {
		t.Fatalf("đọc status update thất bại: %v", err)
	}
	var update PodcastStatusUpdate
	if err := json.Unmarshal(msg, &update); err != nil {
		t.Fatalf("parse status update thất bại: %v", err)
	}
	if update.JobID != "job-1" || update.Status != "processing" || update.Progress != 40 {
		t.Fatalf("status update sai: %+v", update)
	}
}
