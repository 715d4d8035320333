package providers

import (
	"fmt"
	"strings"

	"studyflow/internal/config"
)

// ProviderRef is one entry from the STUDYFLOW_LLM_PROVIDERS list, e.g.
// "gemini:primary" parses to name "gemini" with key alias "primary".
type ProviderRef struct {
	Raw      string
	Name     string
	KeyAlias string
}

func ParseProviderList(raw string) []ProviderRef {
	parts := strings.Split(raw, "|")
	out := make([]ProviderRef, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		ref := ProviderRef{Raw: p}
		if strings.Contains(p, ":") {
			x := strings.SplitN(p, ":", 2)
			ref.Name = strings.TrimSpace(x[0])
			ref.KeyAlias = strings.TrimSpace(x[1])
		} else {
			ref.Name = p
		}
		out = append(out, ref)
	}
	if len(out) == 0 {
		out = append(out, ProviderRef{Raw: "mock", Name: "mock"})
	}
	return out
}

type NamedLLMProvider struct {
	Ref      ProviderRef
	Provider LLMProvider
}

type Manager struct {
	llmProviders []NamedLLMProvider
}

func NewManager(cfg config.Config) (*Manager, error) {
	refs := ParseProviderList(cfg.LLMProviders)
	m := &Manager{}
	for _, ref := range refs {
		p, err := buildProvider(ref)
		if err != nil {
			return nil, err
		}
		m.llmProviders = append(m.llmProviders, NamedLLMProvider{Ref: ref, Provider: p})
	}
	return m, nil
}

func (m *Manager) FirstLLMProvider() LLMProvider {
	return m.llmProviders[0].Provider
}

func (m *Manager) FirstLLMRef() ProviderRef {
	return m.llmProviders[0].Ref
}

func (m *Manager) LLMCount() int {
	return len(m.llmProviders)
}

func buildProvider(ref ProviderRef) (LLMProvider, error) {
	switch strings.ToLower(ref.Name) {
	case "mock":
		return NewMockProvider(), nil
	case "gemini":
		return NewGeminiProvider(ref.KeyAlias)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", ref.Name)
	}
}
