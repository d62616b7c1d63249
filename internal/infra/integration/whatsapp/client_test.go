package whatsapp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSendMessage_Success(t *testing.T) {
	var got sendMessageRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PHONE/messages", r.URL.Path)
		assert.Equal(t, "Bearer TOKEN", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"messages":[{"id":"wamid.1"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "TOKEN", "PHONE", zap.NewNop())
	err := c.SendMessage(context.Background(), SendMessageInput{
		PhoneNumber:  "5511987654321",
		TemplateName: "consulta_cancelada",
		Parameters:   []string{"Ana", "Dr. João Dias"},
	})

	require.NoError(t, err)
	assert.Equal(t, "5511987654321", got.To)
	assert.Equal(t, "consulta_cancelada", got.Template.Name)
	assert.Equal(t, "pt_BR", got.Template.Language.Code)
	require.Len(t, got.Template.Components, 1)
	assert.Equal(t, []templateParameter{{"text", "Ana"}, {"text", "Dr. João Dias"}}, got.Template.Components[0].Parameters)
}

func TestSendMessage_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"template inexistente","code":132001}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "TOKEN", "PHONE", zap.NewNop())
	err := c.SendMessage(context.Background(), SendMessageInput{PhoneNumber: "55119"})

	assert.ErrorContains(t, err, "template inexistente")
}

func TestSendMessage_HTTPErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "TOKEN", "PHONE", zap.NewNop())
	err := c.SendMessage(context.Background(), SendMessageInput{PhoneNumber: "55119"})

	assert.ErrorContains(t, err, "500")
}

func TestSendMessage_NotConfigured(t *testing.T) {
	c := NewClient("http://unused", "", "", zap.NewNop())
	err := c.SendMessage(context.Background(), SendMessageInput{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}
