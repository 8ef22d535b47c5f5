package extract

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pfc-analyzer/internal/core/nutrition"
	"pfc-analyzer/internal/infrastructure/config"
	"pfc-analyzer/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// PromptVersion 萃取指令的版本。調整提示詞時務必遞增，
// 以便從日誌回溯是哪個版本的指令產生的結果。
const PromptVersion = "v2"

// extractionPrompt 固定的萃取指令，要求嚴格的 JSON 形狀。
const extractionPrompt = `你是餐點記錄的解析器。請從使用者輸入的餐點描述中抽出所有食物與份量，並以 JSON 格式返回。要求：
1. 只抽出實際提到的食物，不要補充未提到的食物
2. quantity 必須是數字，無法判斷份量時填 1
3. unit 只能使用: g, kg, ml, l, 個, 枚, 本, 切れ, パック, 杯, 人前, 膳, 玉
4. amount 填原文中的份量表記，沒有就填空字串
5. 所有欄位都必須存在，所有鍵與字串都要加雙引號
6. 不需要考慮可讀性，請省略所有空格和換行，返回最緊湊的 JSON 格式
7. 如果輸入中沒有任何食物，items 請返回空陣列
請以以下 JSON 格式返回：
{"items":[{"name":"食物名稱","amount":"原文份量","unit":"單位","quantity":數字}]}
餐點描述：%s`

// Client 萃取服務客戶端，包裝對外部文字生成服務的單次呼叫
type Client struct {
	config *config.Config
	client *resty.Client
}

// NewClient 創建萃取服務客戶端
func NewClient(cfg *config.Config) *Client {
	client := resty.New().
		SetBaseURL(cfg.OpenRouter.BaseURL).
		SetTimeout(cfg.OpenRouter.Timeout).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.OpenRouter.APIKey)).
		SetHeader("HTTP-Referer", "https://pfc-analyzer.app").
		SetHeader("X-Title", "PFC Analyzer")

	return &Client{
		config: cfg,
		client: client,
	}
}

// itemsPayload 萃取回應所預期的 JSON 形狀
type itemsPayload struct {
	Items []nutrition.ParsedItem `json:"items"`
}

// Extract 將餐點描述送往萃取服務，解析出食物項目列表。
// 回應不是合法 JSON 或缺少 items 欄位時視為「無可萃取內容」返回空列表，不報錯；
// 傳輸層失敗（網路、認證、限流）才返回錯誤。同一輸入的萃取結果不保證每次相同，
// 因此計算完成的結果一律進緩存。此層不做重試。
func (c *Client) Extract(ctx context.Context, mealText string) ([]nutrition.ParsedItem, error) {
	start := time.Now()

	// 構建請求
	req := map[string]interface{}{
		"model": c.config.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": fmt.Sprintf(extractionPrompt, mealText),
			},
		},
		"max_tokens": c.config.OpenRouter.MaxTokens,
	}

	// 發送請求
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(req).
		Post("/chat/completions")

	if err != nil {
		common.LogExtractionCall(time.Since(start), 0, err)
		return nil, fmt.Errorf("%w: %v", common.ErrExtractionUnavailable, err)
	}

	if resp.StatusCode() != http.StatusOK {
		err := fmt.Errorf("%w: extraction API returned status %d", common.ErrExtractionUnavailable, resp.StatusCode())
		common.LogExtractionCall(time.Since(start), 0, err)
		return nil, err
	}

	// 解析回應外層
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		err := fmt.Errorf("%w: failed to parse extraction response: %v", common.ErrExtractionUnavailable, err)
		common.LogExtractionCall(time.Since(start), 0, err)
		return nil, err
	}

	if len(result.Choices) == 0 {
		common.LogWarn("萃取回應沒有 choices",
			zap.String("prompt_version", PromptVersion),
		)
		return []nutrition.ParsedItem{}, nil
	}

	// 模型輸出可能夾帶說明文字，先切出 JSON 主體再解析
	content := common.ExtractJSONObject(result.Choices[0].Message.Content)

	var payload itemsPayload
	if err := common.ParseJSON(content, &payload); err != nil {
		// 解析失敗視為無可萃取內容，不向上拋錯
		common.LogWarn("萃取結果解析失敗，視為零項目",
			zap.Error(err),
			zap.String("prompt_version", PromptVersion),
		)
		return []nutrition.ParsedItem{}, nil
	}

	if payload.Items == nil {
		return []nutrition.ParsedItem{}, nil
	}

	common.LogExtractionCall(time.Since(start), len(payload.Items), nil)
	return payload.Items, nil
}
