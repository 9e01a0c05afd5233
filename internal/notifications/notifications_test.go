package notifications

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shakibpasha-cpu/pixel-perfect-capture-sub001/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLead() models.Lead {
	return models.Lead{
		ID:           "65f0c0ffee",
		Name:         "Acme <Labs>",
		Status:       models.StatusEnriching,
		Phone:        "555-0100",
		FollowUpDate: "2024-03-18",
		Notes:        "ask about renewals",
	}
}

func TestNewBrevoClientDisabledWithoutConfig(t *testing.T) {
	assert.Nil(t, NewBrevoClient("", "from@x.test", "", "to@x.test", false, nil))
	assert.Nil(t, NewBrevoClient("key", "", "", "to@x.test", false, nil))
	assert.Nil(t, NewBrevoClient("key", "from@x.test", "", " ", false, nil))
	assert.NotNil(t, NewBrevoClient("key", "from@x.test", "", "to@x.test", false, nil))
}

func TestBuildReminderNoticeHTML(t *testing.T) {
	body, err := buildReminderNoticeHTML(testLead(), time.UTC)
	require.NoError(t, err)
	assert.Contains(t, body, "Monday, March 18, 2024")
	assert.Contains(t, body, "Discovered")
	assert.Contains(t, body, "Acme &lt;Labs&gt;")
	assert.Contains(t, body, "555-0100")
	assert.NotContains(t, body, "Website:")
}

func TestSendReminderNotice(t *testing.T) {
	var got brevoSendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"<msg-1@brevo>"}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("key", "from@x.test", "Pipeline", "sales@x.test", true, time.UTC)
	c.endpoint = srv.URL

	id, err := c.SendReminderNotice(context.Background(), testLead())
	require.NoError(t, err)
	assert.Equal(t, "<msg-1@brevo>", id)
	require.Len(t, got.To, 1)
	assert.Equal(t, "sales@x.test", got.To[0].Email)
	assert.Equal(t, "Follow-up scheduled: Acme <Labs>", got.Subject)
	assert.Equal(t, "drop", got.Headers["X-Sib-Sandbox"])
}

func TestSendReminderNoticeUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized"}`))
	}))
	defer srv.Close()

	c := NewBrevoClient("key", "from@x.test", "", "sales@x.test", false, time.UTC)
	c.endpoint = srv.URL

	_, err := c.SendReminderNotice(context.Background(), testLead())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
}

func TestNilClient(t *testing.T) {
	var c *BrevoClient
	_, err := c.SendReminderNotice(context.Background(), testLead())
	assert.Error(t, err)
}
