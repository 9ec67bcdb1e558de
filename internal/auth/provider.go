package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fifa-tracker/internal/config"

	"github.com/valyala/fasthttp"
)

// Verifier checks a signed login payload against the wallet-auth
// provider. The signature protocol itself lives on the provider side;
// this codebase only consumes the verdict.
type Verifier interface {
	VerifyPayload(ctx context.Context, payload LoginPayload, signature string) (*VerifyResult, error)
}

type VerifyResult struct {
	Valid   bool   `json:"valid"`
	Address string `json:"address"`
}

type ProviderClient struct {
	baseURL string
	apiKey  string
	client  *fasthttp.Client
}

func NewProviderClient(cfg *config.Config) *ProviderClient {
	return &ProviderClient{
		baseURL: cfg.AuthProviderURL,
		apiKey:  cfg.AuthProviderKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

type verifyRequest struct {
	Payload   LoginPayload `json:"payload"`
	Signature string       `json:"signature"`
}

func (c *ProviderClient) VerifyPayload(ctx context.Context, payload LoginPayload, signature string) (*VerifyResult, error) {
	url := fmt.Sprintf("%s/v1/auth/verify", c.baseURL)
	return doRequest[VerifyResult](ctx, c, url, verifyRequest{Payload: payload, Signature: signature})
}

func doRequest[T any](ctx context.Context, client *ProviderClient, url string, body any) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	encoded, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", client.apiKey)
	req.SetBody(encoded)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("auth provider error: %d", resp.StatusCode())
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, err
	}
	return &result, nil
}
