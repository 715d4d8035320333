package providers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider supports LLM generation via Google's Generative Language API.
type GeminiProvider struct {
	keyName string
	model   string
	client  *genai.Client
}

// NewGeminiProvider resolves the API key for the given alias and builds the
// client. A missing key is an error so misconfiguration surfaces at startup
// rather than on the first request.
func NewGeminiProvider(keyName string) (*GeminiProvider, error) {
	model := os.Getenv("STUDYFLOW_GEMINI_MODEL")
	if strings.TrimSpace(model) == "" {
		model = "gemini-1.5-flash-latest"
	}
	apiKey := resolveGeminiKey(keyName)
	if apiKey == "" {
		return nil, fmt.Errorf("gemini key missing for alias %q", keyName)
	}
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiProvider{keyName: keyName, model: model, client: client}, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (GenerateResponse, ProviderInfo, error) {
	info := ProviderInfo{Name: "gemini", Key: g.keyName, Model: g.model}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return GenerateResponse{}, info, fmt.Errorf("gemini generate %s: %w", req.Operation, err)
	}
	return GenerateResponse{Text: resp.Text()}, info, nil
}

func resolveGeminiKey(alias string) string {
	if alias != "" {
		if v := os.Getenv("STUDYFLOW_GEMINI_KEY_" + strings.ToUpper(alias)); v != "" {
			return v
		}
	}
	return os.Getenv("GEMINI_API_KEY")
}
