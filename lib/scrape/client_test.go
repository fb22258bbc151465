package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const blockedPage = `<html><body>
<h1>Security Notice</h1>
<p>We have detected Unusual Activity from your network.</p>
</body></html>`

func testClient(srv *httptest.Server) *Client {
	return &Client{
		baseURL: srv.URL,
		http:    &http.Client{Timeout: 5 * time.Second},
		log:     zap.NewNop(),
	}
}

func TestLookupCase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/CaseDetails.aspx", r.URL.Path)
		require.Equal(t, "30247", r.URL.Query().Get("id"))
		fmt.Fprint(w, docketPage)
	}))
	defer srv.Close()

	result, err := testClient(srv).LookupCase(context.Background(), "30247")
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Equal(t, "24-P-1234", result.CaseNumber)
	require.Equal(t, "30247", result.InternalID)
	require.Equal(t, srv.URL+"/CaseDetails.aspx?id=30247&Number=True", result.URL)
}

func TestLookupCaseSoftBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The block page arrives as a perfectly ordinary 200.
		fmt.Fprint(w, blockedPage)
	}))
	defer srv.Close()

	result, err := testClient(srv).LookupCase(context.Background(), "30247")
	require.NoError(t, err)
	require.Nil(t, result)
}

func TestScrapeDocket(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, docketPage)
	}))
	defer srv.Close()

	entries, caseName, err := testClient(srv).ScrapeDocket(context.Background(), "30247")
	require.NoError(t, err)
	require.Equal(t, "In re Estate of Jane Doe", caseName)
	require.Len(t, entries, 3)
}

func TestScrapeDocketSoftBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, blockedPage)
	}))
	defer srv.Close()

	entries, caseName, err := testClient(srv).ScrapeDocket(context.Background(), "30247")
	require.NoError(t, err)
	require.Empty(t, caseName)
	require.Len(t, entries, 0)
}

func TestScrapeDocketTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, _, err := testClient(srv).ScrapeDocket(context.Background(), "30247")
	require.Error(t, err)
}
