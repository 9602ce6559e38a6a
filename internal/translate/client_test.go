package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "good morning", r.URL.Query().Get("q"))
		assert.Equal(t, "en|es", r.URL.Query().Get("langpair"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"responseData":{"translatedText":"Buenos días"},"responseStatus":200,"responseDetails":""}`))
	}))
	defer server.Close()

	c := New(server.URL, time.Second)
	result, err := c.Translate(context.Background(), "  good morning ", "en", "es")
	require.NoError(t, err)
	assert.Equal(t, "Buenos días", result.Text)
	assert.Equal(t, "BWEH-nohs DEE-ahs", result.Phonetic)
}

func TestTranslateErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "http failure", status: http.StatusInternalServerError, body: "oops", wantErr: "translation failed"},
		{name: "api error", status: http.StatusOK, body: `{"responseStatus":"403","responseDetails":"INVALID LANGUAGE PAIR"}`, wantErr: "INVALID LANGUAGE PAIR"},
		{name: "bad json", status: http.StatusOK, body: `{`, wantErr: "failed to decode response"},
		{name: "empty result", status: http.StatusOK, body: `{"responseData":{"translatedText":" "},"responseStatus":200}`, wantErr: "no translation returned"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := New(server.URL, time.Second).Translate(context.Background(), "hello", "en", "fr")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTranslateEmptyText(t *testing.T) {
	_, err := New("http://127.0.0.1:0", time.Second).Translate(context.Background(), "   ", "en", "es")
	assert.ErrorIs(t, err, ErrEmptyText)
}

func TestTranslateHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := New(server.URL, time.Minute).Translate(ctx, "hello", "en", "es")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPhonetic(t *testing.T) {
	tests := []struct {
		text, lang, want string
	}{
		{"¡Hola amigo!", "es", "OH-lah"},
		{"Merci beaucoup", "fr", "mehr-SEE"},
		{"Guten Tag", "de", "GOO-ten TAHK"},
		{"こんにちは世界", "ja", "kon-ni-chi-wa"},
		{"你好", "zh", "nǐ hǎo"},
		{"Good night", "en", "GOOD NIGHT"},
		{"hola", "it", "HOLA"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Phonetic(tt.text, tt.lang), tt.text)
	}
}
