package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
)

// TwilioSender posts to the Twilio Messages API with whatsapp: prefixed numbers.
type TwilioSender struct {
	accountSID         string
	authToken          string
	from               string
	baseURL            string
	defaultCountryCode string
	httpClient         *http.Client
}

func NewTwilioSender(cfg config.WhatsAppConfig, defaultCountryCode string) *TwilioSender {
	return &TwilioSender{
		accountSID:         cfg.TwilioAccountSID,
		authToken:          cfg.TwilioAuthToken,
		from:               cfg.TwilioFrom,
		baseURL:            strings.TrimRight(cfg.TwilioBaseURL, "/"),
		defaultCountryCode: defaultCountryCode,
		httpClient:         &http.Client{Timeout: cfg.RequestTimeout},
	}
}

func (t *TwilioSender) Provider() string { return "twilio" }

type twilioMessage struct {
	SID     string `json:"sid"`
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *TwilioSender) Send(ctx context.Context, to string, body string) (Result, error) {
	phone, err := prepare(to, body, t.defaultCountryCode)
	if err != nil {
		return Result{}, err
	}
	from, err := NormalizePhone(t.from, t.defaultCountryCode)
	if err != nil {
		return Result{}, fmt.Errorf("twilio sender number: %w", err)
	}

	form := url.Values{}
	form.Set("From", "whatsapp:"+from)
	form.Set("To", "whatsapp:"+phone)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, url.PathEscape(t.accountSID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{}, fmt.Errorf("build twilio request: %w", err)
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, fmt.Errorf("read twilio response: %w", err)
	}

	var msg twilioMessage
	_ = json.Unmarshal(raw, &msg)

	if resp.StatusCode >= 300 {
		perr := &ProviderError{Provider: "twilio", StatusCode: resp.StatusCode, Message: msg.Message}
		if msg.Code != 0 {
			perr.Code = strconv.Itoa(msg.Code)
		}
		if perr.Message == "" {
			perr.Message = http.StatusText(resp.StatusCode)
		}
		return Result{}, perr
	}
	if msg.SID == "" {
		return Result{}, &ProviderError{Provider: "twilio", StatusCode: resp.StatusCode, Message: "response without message sid"}
	}
	return Result{MessageID: msg.SID}, nil
}
