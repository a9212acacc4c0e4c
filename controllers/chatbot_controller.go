package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Hyun010/sparta-games/config"
	"github.com/Hyun010/sparta-games/global"
	"github.com/Hyun010/sparta-games/log"
	"github.com/Hyun010/sparta-games/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ===========api结构体============= 这里采用OpenAPI格式
// 定义AI API请求结构体
type AIRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Stream   bool      `json:"stream"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// 定义AI API响应结构体
type AIResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type ChatbotReq struct {
	InputData string `json:"input_data" binding:"required,max=2000"`
}

const categoryMarker = "category:"
const uncategorized = "none"

// 返回结果里除字母数字和空白外全部清掉-对齐不了分类名时宁可给none
var sanitizePattern = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

var ErrDailyQuotaExceeded = errors.New("daily usage limit reached")

// SanitizeCategory 清洗补全服务回的分类文本
func SanitizeCategory(raw string) string {
	if idx := strings.Index(raw, categoryMarker); idx > -1 {
		raw = raw[idx+len(categoryMarker):]
	}
	raw = sanitizePattern.ReplaceAllString(raw, "")
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, uncategorized) {
		return uncategorized
	}
	return raw
}

// ConsumeBotQuota 配额占用：每用户每天一行，行内计数到上限即拒绝
// 占用要在发请求之前落库-失败的外部调用也计入次数（与原有行为一致）
func ConsumeBotQuota(db *gorm.DB, userID uint, today string, limit int) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var usage models.BotCnt
		if err := lockForUpdate(tx).
			Where(models.BotCnt{UserID: userID, Date: today}).
			FirstOrCreate(&usage).Error; err != nil {
			return err
		}
		if usage.Count >= limit {
			return ErrDailyQuotaExceeded
		}
		return tx.Model(&models.BotCnt{}).Where("id = ?", usage.ID).
			UpdateColumn("count", gorm.Expr("count + ?", 1)).Error
	})
}

// NewChatbotHandler 依据显式传入的配置组装分类代理处理器
// 给一段自由文本，从现有分类列表里挑一个最贴的返回；挑不出来回 none
func NewChatbotHandler(cfg config.ChatbotConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		if userID == 0 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ChatbotReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// 每日配额-到午夜自然换行
		today := time.Now().Format("2006-01-02")
		if err := ConsumeBotQuota(global.DB, userID, today, cfg.DailyLimit); err != nil {
			if errors.Is(err, ErrDailyQuotaExceeded) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Daily usage limit reached"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "database error"})
			}
			return
		}

		// 分类列表是共享数据-singleflight去重并发读
		names, err, _ := global.FetchGroup.Do("chatbot:categorylist", func() (interface{}, error) {
			var list []string
			err := global.DB.Model(&models.GameCategory{}).Pluck("name", &list).Error
			return list, err
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "load categories failed"})
			return
		}
		categorylist := names.([]string)

		category, err := categorize(c.Request.Context(), cfg, req.InputData, categorylist)
		if err != nil {
			log.L().Error("chatbot categorize failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "chatbot service error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"category": category})
	}
}

// categorize 请求OpenAI格式的补全接口并清洗回包
func categorize(ctx context.Context, cfg config.ChatbotConfig, input string, categorylist []string) (string, error) {
	instructions := fmt.Sprintf(`限定的分类列表：%v，只能从这里挑选，不要说别的
把收到的内容概括一下，从限定列表里选出最相关的一个
结果只按 '%s<分类名>' 的格式回答，不要加任何修饰
结果里不要带特殊符号和表情`, categorylist, categoryMarker)

	reqBody, err := json.Marshal(AIRequest{
		Model: cfg.Model,
		Messages: []Message{
			{Role: "system", Content: instructions},
			{Role: "user", Content: "收到的内容: " + input},
		},
	})
	if err != nil {
		return "", err
	}

	reqURL := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions" //先清除右'/'再+路径
	ctx, cancel := context.WithTimeout(ctx, global.FetchTimeout)
	defer cancel()
	httpReq, err := http.NewRequestWithContext(ctx, "POST", reqURL, bytes.NewBuffer(reqBody)) //创建POST请求
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if cfg.ApiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+cfg.ApiKey)
	}

	client := &http.Client{Timeout: global.FetchTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close() //记得关闭响应体

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion service returned %d: %s", resp.StatusCode, string(body))
	}

	var aiResp AIResponse
	if err := json.Unmarshal(body, &aiResp); err != nil {
		return "", err
	}
	if len(aiResp.Choices) == 0 {
		return "", errors.New("no completion result returned")
	}
	return SanitizeCategory(aiResp.Choices[0].Message.Content), nil
}
