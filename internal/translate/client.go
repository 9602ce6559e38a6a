package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultAPIURL is the MyMemory endpoint
const DefaultAPIURL = "https://api.mymemory.translated.net/get"

// DefaultTimeout bounds a single translation request
const DefaultTimeout = 10 * time.Second

// ErrEmptyText is returned when there is nothing to translate
var ErrEmptyText = errors.New("empty text")

// Translation is a successful translation result
type Translation struct {
	Text     string
	Phonetic string
}

// Client is a client for the MyMemory translation API
type Client struct {
	apiURL     string
	httpClient *http.Client
}

// New creates a new client. An empty apiURL selects the public endpoint
// and a zero timeout selects DefaultTimeout.
func New(apiURL string, timeout time.Duration) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// status is the responseStatus field, which the API sends either as a
// number or as a quoted number
type status int

func (s *status) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("invalid response status %s", data)
	}
	*s = status(n)
	return nil
}

// Response represents a response from the MyMemory API
type Response struct {
	ResponseData struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	ResponseStatus  status `json:"responseStatus"`
	ResponseDetails string `json:"responseDetails"`
}

// Translate translates text from sourceLang to targetLang and attaches a
// phonetic hint for the result
func (c *Client) Translate(ctx context.Context, text, sourceLang, targetLang string) (Translation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Translation{}, ErrEmptyText
	}

	query := url.Values{}
	query.Set("q", text)
	query.Set("langpair", sourceLang+"|"+targetLang)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiURL+"?"+query.Encode(), nil)
	if err != nil {
		return Translation{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Translation{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Translation{}, fmt.Errorf("translation failed: %s", resp.Status)
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Translation{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if response.ResponseStatus != http.StatusOK {
		details := response.ResponseDetails
		if details == "" {
			details = "translation failed"
		}
		return Translation{}, fmt.Errorf("API error %d: %s", response.ResponseStatus, details)
	}

	translated := strings.TrimSpace(response.ResponseData.TranslatedText)
	if translated == "" {
		return Translation{}, errors.New("no translation returned")
	}

	return Translation{
		Text:     translated,
		Phonetic: Phonetic(translated, targetLang),
	}, nil
}
