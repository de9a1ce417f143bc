package subscribers

import (
	"context"
	"net/http"
	"testing"

	"cmcount/internal/testutil"

	"github.com/stretchr/testify/require"
)

func testSettings(baseURL string) Settings {
	return Settings{
		APIKey:         "api-key-1",
		ListID:         "list-123",
		BaseURL:        baseURL,
		TTLSeconds:     30,
		CountOption:    DefaultCountOption,
		LastPollOption: DefaultLastPollOption,
	}
}

func TestClient_FetchStats_Success(t *testing.T) {
	upstream := testutil.NewStatsUpstream(`{"TotalActiveSubscribers": 4821, "NewActiveSubscribersToday": 3}`)
	defer upstream.Close()

	out := NewClient(testSettings(upstream.URL)).FetchStats(context.Background())

	require.Equal(t, OutcomeSuccess, out.Kind)
	require.Equal(t, int64(4821), out.Count)
	require.Equal(t, http.StatusOK, out.StatusCode)
	require.NotEmpty(t, out.AttemptID)

	require.Equal(t, "/api/v3.1/lists/list-123/stats.json", upstream.LastPath())
	user, pass := upstream.LastAuth()
	require.Equal(t, "api-key-1", user)
	require.Equal(t, "x", pass)
}

func TestClient_FetchStats_MissingField(t *testing.T) {
	upstream := testutil.NewStatsUpstream(`{"SomeOtherField": 1}`)
	defer upstream.Close()

	out := NewClient(testSettings(upstream.URL)).FetchStats(context.Background())

	require.Equal(t, OutcomePayloadInvalid, out.Kind)
	require.Zero(t, out.Count)
}

func TestClient_FetchStats_ErrorPayload(t *testing.T) {
	upstream := testutil.NewStatsUpstream("")
	defer upstream.Close()
	upstream.Respond(http.StatusUnauthorized, `{"Code": 50, "Message": "Must supply a valid HTTP Basic Authorization header"}`)

	out := NewClient(testSettings(upstream.URL)).FetchStats(context.Background())

	require.Equal(t, OutcomePayloadInvalid, out.Kind)
	require.Equal(t, http.StatusUnauthorized, out.StatusCode)
	require.Contains(t, out.Message, "TotalActiveSubscribers")
}

func TestClient_FetchStats_NotJSON(t *testing.T) {
	for _, body := range []string{"<html>bad gateway</html>", "[1,2,3]", ""} {
		upstream := testutil.NewStatsUpstream(body)

		out := NewClient(testSettings(upstream.URL)).FetchStats(context.Background())
		require.Equal(t, OutcomePayloadInvalid, out.Kind, "body %q", body)

		upstream.Close()
	}
}

func TestClient_FetchStats_TransportFailure(t *testing.T) {
	upstream := testutil.NewStatsUpstream(`{"TotalActiveSubscribers": 1}`)
	url := upstream.URL
	upstream.Close()

	out := NewClient(testSettings(url)).FetchStats(context.Background())

	require.Equal(t, OutcomeTransportFailure, out.Kind)
	require.Error(t, out.Err)
	require.NotEmpty(t, out.Message)
}

func TestClient_FetchStats_VerifiesTLSByDefault(t *testing.T) {
	upstream := testutil.NewTLSStatsUpstream(`{"TotalActiveSubscribers": 77}`)
	defer upstream.Close()

	out := NewClient(testSettings(upstream.URL)).FetchStats(context.Background())
	require.Equal(t, OutcomeTransportFailure, out.Kind)
	require.Zero(t, upstream.Hits())

	insecure := testSettings(upstream.URL)
	insecure.InsecureSkipVerify = true
	out = NewClient(insecure).FetchStats(context.Background())
	require.Equal(t, OutcomeSuccess, out.Kind)
	require.Equal(t, int64(77), out.Count)
}

func TestClient_StatsURL(t *testing.T) {
	c := NewClient(Settings{ListID: "a/b"})
	require.Equal(t, "https://api.createsend.com/api/v3.1/lists/a%2Fb/stats.json", c.StatsURL())

	c = NewClient(Settings{ListID: "abc", BaseURL: "http://localhost:9000/"})
	require.Equal(t, "http://localhost:9000/api/v3.1/lists/abc/stats.json", c.StatsURL())
}
