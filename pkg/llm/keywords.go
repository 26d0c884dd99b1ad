package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"stash/config"
	"stash/pkg/log"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
)

const (
	defaultModel = "qwen-plus"
	maxKeywords  = 5
)

var tagRe = regexp.MustCompile(`#[^\s#,]+`)

// KeywordSuggester 根据笔记标题和描述推荐检索关键词
type KeywordSuggester interface {
	SuggestKeywords(ctx context.Context, title, description string) []string
}

type Client struct {
	client  openai.Client
	model   string
	enabled bool
}

var _ KeywordSuggester = (*Client)(nil)

func NewClient(cfg *config.LLMConfig) *Client {
	if !cfg.Enabled() {
		return &Client{}
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &Client{
		client:  openai.NewClient(opts...),
		model:   model,
		enabled: true,
	}
}

// SuggestKeywords 失败时返回空, 不影响上传
func (c *Client) SuggestKeywords(ctx context.Context, title, description string) []string {
	if !c.enabled {
		return nil
	}

	prompt := fmt.Sprintf(
		"You tag student lecture notes for search. Output exactly %d short topic keywords, "+
			"each starting with #, separated by spaces, and nothing else.\n\nTitle: %s\nDescription: %s",
		maxKeywords, title, description,
	)
	startTime := time.Now()
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		log.L.Warn("failed to suggest keywords", zap.Error(err))
		return nil
	}
	if len(completion.Choices) == 0 {
		return nil
	}
	content := completion.Choices[0].Message.Content
	log.L.Info("suggest keywords", zap.String("content", content), zap.Duration("cost", time.Since(startTime)))
	return ParseTags(content)
}

// ParseTags 提取 #tag, 去重并限制数量
func ParseTags(input string) []string {
	matches := tagRe.FindAllString(input, -1)

	tags := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, tag := range matches {
		clean := strings.ToLower(strings.TrimPrefix(tag, "#"))
		if clean == "" {
			continue
		}
		if _, ok := seen[clean]; ok {
			continue
		}
		seen[clean] = struct{}{}
		tags = append(tags, clean)
		if len(tags) == maxKeywords {
			break
		}
	}
	return tags
}
