package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"traveltodo/internal/config"
)

const huggingFaceBaseURL = "https://api-inference.huggingface.co/models"

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// huggingFaceGenerator calls the hosted inference API directly; there is no
// eino component for it.
type huggingFaceGenerator struct {
	apiKey     string
	url        string
	httpClient *http.Client
}

func newHuggingFaceGenerator(pc config.ProviderConfig, timeout time.Duration) *huggingFaceGenerator {
	modelName := pc.Model
	if modelName == "" {
		modelName = defaultModels[config.ProviderHuggingFace]
	}
	base := strings.TrimRight(pc.BaseURL, "/")
	if base == "" {
		base = huggingFaceBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &huggingFaceGenerator{
		apiKey:     pc.APIKey,
		url:        base + "/" + modelName,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *huggingFaceGenerator) Name() string { return config.ProviderHuggingFace }

func (g *huggingFaceGenerator) Generate(ctx context.Context, p Prompt) (Reply, error) {
	provider := g.Name()
	jsonBody, err := json.Marshal(hfRequest{
		Inputs: "[INST] " + buildRequest(p).flatten() + " [/INST]",
		Parameters: hfParameters{
			MaxNewTokens:   maxTokens,
			Temperature:    temperature,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return Reply{}, failure(provider, ReasonDecode, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(jsonBody))
	if err != nil {
		return Reply{}, failure(provider, ReasonTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return Reply{}, transportFailure(ctx, provider, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Reply{}, transportFailure(ctx, provider, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f := failure(provider, ReasonStatus, fmt.Errorf("%s", truncateRunes(string(body), rawReplyCap)))
		if resp.StatusCode == http.StatusServiceUnavailable {
			f.Err = fmt.Errorf("model is loading")
		}
		f.Status = resp.StatusCode
		return Reply{}, f
	}

	var hfResp hfResponse
	if err := json.Unmarshal(body, &hfResp); err != nil {
		return Reply{}, failure(provider, ReasonDecode, err)
	}
	if len(hfResp) == 0 {
		return Reply{}, failure(provider, ReasonEmpty, nil)
	}
	return finish(provider, p.Mode, hfResp[0].GeneratedText)
}
