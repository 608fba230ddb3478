package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"golang.org/x/oauth2"
)

// MetaSender talks to the WhatsApp Cloud API; the bearer token is injected by an oauth2 transport.
type MetaSender struct {
	phoneNumberID      string
	baseURL            string
	defaultCountryCode string
	httpClient         *http.Client
}

func NewMetaSender(cfg config.WhatsAppConfig, defaultCountryCode string) *MetaSender {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.MetaAccessToken, TokenType: "Bearer"})
	client := oauth2.NewClient(context.Background(), src)
	client.Timeout = cfg.RequestTimeout

	return &MetaSender{
		phoneNumberID:      cfg.MetaPhoneNumberID,
		baseURL:            strings.TrimRight(cfg.MetaBaseURL, "/"),
		defaultCountryCode: defaultCountryCode,
		httpClient:         client,
	}
}

func (m *MetaSender) Provider() string { return "meta" }

type metaTextMessage struct {
	MessagingProduct string `json:"messaging_product"`
	RecipientType    string `json:"recipient_type"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		PreviewURL bool   `json:"preview_url"`
		Body       string `json:"body"`
	} `json:"text"`
}

type metaResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (m *MetaSender) Send(ctx context.Context, to string, body string) (Result, error) {
	phone, err := prepare(to, body, m.defaultCountryCode)
	if err != nil {
		return Result{}, err
	}

	payload := metaTextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               strings.TrimPrefix(phone, "+"),
		Type:             "text",
	}
	payload.Text.Body = body

	buf, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("encode meta message: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s/messages", m.baseURL, m.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return Result{}, fmt.Errorf("build meta request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("meta request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read meta response: %w", err)
	}

	var out metaResponse
	_ = json.Unmarshal(raw, &out)

	if resp.StatusCode >= 300 || out.Error != nil {
		perr := &ProviderError{Provider: "meta", StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		if out.Error != nil {
			perr.Message = out.Error.Message
			perr.Code = strconv.Itoa(out.Error.Code)
		}
		return Result{}, perr
	}
	if len(out.Messages) == 0 || out.Messages[0].ID == "" {
		return Result{}, &ProviderError{Provider: "meta", StatusCode: resp.StatusCode, Message: "response without message id"}
	}
	return Result{MessageID: out.Messages[0].ID}, nil
}
