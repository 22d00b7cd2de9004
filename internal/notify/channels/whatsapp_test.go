package channels

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"match-portal/match-portal-backend/internal/config"
	"match-portal/match-portal-backend/internal/notify"
)

func TestNormalizeNumber(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		countryCode string
		want        string
	}{
		{"already normalized", "+972521234567", "", "+972521234567"},
		{"spaces and dashes", "+972 52-123-4567", "", "+972521234567"},
		{"parentheses and dots", "+1 (212) 555.0143", "", "+12125550143"},
		{"double zero prefix", "00972521234567", "", "+972521234567"},
		{"missing plus", "972521234567", "", "+972521234567"},
		{"bare national with country code", "052-123-4567", "972", "+972521234567"},
		{"bare national without country code", "0521234567", "", ""},
		{"double zero ignores country code", "00972521234567", "972", "+972521234567"},
		{"leading zero after plus", "+0521234567", "", ""},
		{"too short", "+1234", "", ""},
		{"letters", "+97252abc4567", "", ""},
		{"empty", "", "972", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeNumber(tt.raw, tt.countryCode))
		})
	}
}

func whatsAppConfig(baseURL string) config.WhatsAppConfig {
	return config.WhatsAppConfig{
		AccountSID:         "AC0000",
		AuthToken:          "secret",
		FromNumber:         "+972500000000",
		APIBaseURL:         baseURL,
		DefaultCountryCode: "972",
	}
}

func TestWhatsAppAdapter_CanSendTo(t *testing.T) {
	reachable := &notify.Recipient{UserID: uuid.New(), Phone: "+972 52-123-4567"}

	configured := NewWhatsAppAdapter(whatsAppConfig("https://api.example.com"), zap.NewNop())
	assert.True(t, configured.CanSendTo(reachable))
	assert.True(t, configured.CanSendTo(&notify.Recipient{UserID: uuid.New(), Phone: "052-123-4567"}))
	assert.False(t, configured.CanSendTo(&notify.Recipient{UserID: uuid.New()}))
	assert.False(t, configured.CanSendTo(&notify.Recipient{UserID: uuid.New(), Phone: "not a number"}))

	// missing credentials disable the channel entirely
	unconfigured := NewWhatsAppAdapter(config.WhatsAppConfig{}, zap.NewNop())
	assert.False(t, unconfigured.CanSendTo(reachable))
}

func TestWhatsAppAdapter_SendFreeform(t *testing.T) {
	var gotForm url.Values
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "AC0000", user)
		assert.Equal(t, "secret", pass)
		body, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	adapter := NewWhatsAppAdapter(whatsAppConfig(server.URL), zap.NewNop())

	// bare national number is rewritten with the configured country code
	r := &notify.Recipient{UserID: uuid.New(), Phone: "052-123-4567"}
	ok := adapter.Send(context.Background(), r, &notify.Content{Body: "Your suggestion was updated"})
	require.True(t, ok)

	assert.Equal(t, "/2010-04-01/Accounts/AC0000/Messages.json", gotPath)
	assert.Equal(t, "whatsapp:+972500000000", gotForm.Get("From"))
	assert.Equal(t, "whatsapp:+972521234567", gotForm.Get("To"))
	assert.Equal(t, "Your suggestion was updated", gotForm.Get("Body"))
	assert.Empty(t, gotForm.Get("ContentSid"))
}

func TestWhatsAppAdapter_SendTemplate(t *testing.T) {
	var gotForm url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotForm, _ = url.ParseQuery(string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	adapter := NewWhatsAppAdapter(whatsAppConfig(server.URL), zap.NewNop())
	r := &notify.Recipient{UserID: uuid.New(), Phone: "+972521234567"}
	content := &notify.Content{
		TemplateSID:       "HX1234",
		TemplateVariables: map[string]string{"1": "Sarah"},
	}

	require.True(t, adapter.Send(context.Background(), r, content))
	assert.Equal(t, "HX1234", gotForm.Get("ContentSid"))
	assert.JSONEq(t, `{"1":"Sarah"}`, gotForm.Get("ContentVariables"))
	assert.Empty(t, gotForm.Get("Body"))
}

func TestWhatsAppAdapter_SendProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":63016,"message":"outside the allowed window"}`))
	}))
	defer server.Close()

	adapter := NewWhatsAppAdapter(whatsAppConfig(server.URL), zap.NewNop())
	r := &notify.Recipient{UserID: uuid.New(), Phone: "+972521234567"}

	assert.False(t, adapter.Send(context.Background(), r, &notify.Content{Body: "hi"}))
}

func TestParseProviderError(t *testing.T) {
	code, msg := parseProviderError([]byte(`{"code":63016,"message":"outside the allowed window"}`))
	assert.Equal(t, 63016, code)
	assert.Equal(t, "outside the allowed window", msg)

	code, msg = parseProviderError([]byte("not json"))
	assert.Equal(t, 0, code)
	assert.Equal(t, "not json", msg)
}
