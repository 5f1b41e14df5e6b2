package docs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Qualiasolutions/chainwise-advisor/pkg/logging"
)

// topic maps message keywords to a documentation library id.
type topic struct {
	keywords []string
	library  string
}

// Ordered; the first topic with a keyword hit wins.
var topics = []topic{
	{keywords: []string{"solidity", "smart contract", "erc-20", "erc20"}, library: "/ethereum/solidity"},
	{keywords: []string{"uniswap", "liquidity pool", "amm", "defi"}, library: "/uniswap/docs"},
	{keywords: []string{"staking", "validator", "proof of stake"}, library: "/ethereum/staking"},
	{keywords: []string{"metamask", "wallet connect", "hardware wallet"}, library: "/metamask/docs"},
	{keywords: []string{"lightning network", "bitcoin script"}, library: "/bitcoin/developer"},
}

// Config for the documentation context provider.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Logger  logging.Logger
}

// Provider performs best-effort lookups of external library documentation
// snippets keyed by detected topic. Every failure path degrades to "".
type Provider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     logging.Logger
}

func NewProvider(cfg Config) *Provider {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &Provider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     cfg.Logger,
	}
}

// FetchContext returns a documentation snippet relevant to the message, or
// "" when no topic is detected or the lookup fails. It never returns an
// error; documentation context is strictly optional prompt enrichment.
func (p *Provider) FetchContext(ctx context.Context, message string) string {
	library := detectTopic(message)
	if library == "" || p.baseURL == "" {
		return ""
	}

	lookupURL := fmt.Sprintf("%s/v1/docs?library=%s&tokens=600", p.baseURL, url.QueryEscape(library))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return ""
	}
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if p.logger != nil {
			p.logger.WithError(err).WithField("library", library).Debug("Documentation lookup failed")
		}
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var decoded struct {
		Snippet string `json:"snippet"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ""
	}
	return strings.TrimSpace(decoded.Snippet)
}

// detectTopic returns the library id for the first topic whose keyword
// appears in the message, or "".
func detectTopic(message string) string {
	lowered := strings.ToLower(message)
	for _, t := range topics {
		for _, kw := range t.keywords {
			if strings.Contains(lowered, kw) {
				return t.library
			}
		}
	}
	return ""
}
