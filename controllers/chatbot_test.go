package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Hyun010/sparta-games/controllers"
	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/models"
)

func TestSanitizeCategory(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"category: Arcade", "Arcade"},
		{"category: Arcade!", "Arcade"},
		{"好的，category: Puzzle。", "Puzzle"},
		{"Puzzle.", "Puzzle"},
		{"category: &*#@", "none"},
		{"category: none", "none"},
		{"NONE", "none"},
		{"", "none"},
	}
	for _, tc := range cases {
		if got := controllers.SanitizeCategory(tc.raw); got != tc.want {
			t.Errorf("SanitizeCategory(%q)=%q want %q", tc.raw, got, tc.want)
		}
	}
}

// 本地起一个OpenAI格式的补全桩服务-固定回传 category: Arcade
func newCompletionStub(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req controllers.AIRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Messages) != 2 {
			http.Error(w, "unexpected message count", http.StatusBadRequest)
			return
		}
		resp := controllers.AIResponse{
			Model: req.Model,
			Choices: []controllers.Choice{{
				Message: controllers.Message{Role: "assistant", Content: "category: Arcade"},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestChatbotCategorizeAndDailyQuota(t *testing.T) {
	stub := newCompletionStub(t)
	r := newTestEnv(t, stub.URL)
	_, token := seedUser(t, "alice", models.RoleUser)
	if err := global.DB.Create(&models.GameCategory{Name: "Arcade"}).Error; err != nil {
		t.Fatal(err)
	}

	body := `{"input_data":"一个街机风格的跳跃闯关游戏"}`
	for i := 0; i < 10; i++ {
		w := perform(t, r, "POST", "/api/chatbot", token, body)
		mustStatus(t, w, http.StatusOK)
		var out map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatal(err)
		}
		if out["category"] != "Arcade" {
			t.Fatalf("call %d: category=%q want Arcade", i+1, out["category"])
		}
	}

	// 第11次触顶
	w := perform(t, r, "POST", "/api/chatbot", token, body)
	mustStatus(t, w, http.StatusBadRequest)

	// 配额按用户隔离-别的用户不受影响
	_, tokenBob := seedUser(t, "bob", models.RoleUser)
	w = perform(t, r, "POST", "/api/chatbot", tokenBob, body)
	mustStatus(t, w, http.StatusOK)
}

func TestChatbotRejectsEmptyInput(t *testing.T) {
	stub := newCompletionStub(t)
	r := newTestEnv(t, stub.URL)
	_, token := seedUser(t, "alice", models.RoleUser)

	w := perform(t, r, "POST", "/api/chatbot", token, `{"input_data":""}`)
	mustStatus(t, w, http.StatusBadRequest)

	// 校验失败不占配额
	var usage models.BotCnt
	err := global.DB.Where("count > 0").First(&usage).Error
	if err == nil {
		t.Fatalf("quota consumed on invalid input: %+v", usage)
	}
}

// 外部服务挂掉时配额照扣-和失败也计次的行为保持一致
func TestChatbotUpstreamFailureStillConsumesQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()
	r := newTestEnv(t, srv.URL)
	id, token := seedUser(t, "alice", models.RoleUser)

	w := perform(t, r, "POST", "/api/chatbot", token, `{"input_data":"一个解谜游戏"}`)
	mustStatus(t, w, http.StatusInternalServerError)

	var usage models.BotCnt
	if err := global.DB.Where("user_id = ?", id).First(&usage).Error; err != nil {
		t.Fatal(err)
	}
	if usage.Count != 1 {
		t.Fatalf("count=%d want 1", usage.Count)
	}
}
