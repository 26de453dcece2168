package testpage

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRedirectsToLoginPage(t *testing.T) {
	server := httptest.NewServer(Handler())
	defer server.Close()

	client := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	resp, err := client.Get(server.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login.html", resp.Header.Get("Location"))
}

func TestLoginPageHasPlannerFriendlySelectors(t *testing.T) {
	server := httptest.NewServer(Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/login.html")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	require.NoError(t, err)

	// The planner prompt tells the model to prefer placeholder inputs,
	// button IDs and labelled selects; the demo page must offer all of them.
	assert.Equal(t, 1, doc.Find("input[placeholder='Username']").Length())
	assert.Equal(t, 1, doc.Find("input[placeholder='Password']").Length())
	assert.Equal(t, 1, doc.Find("#loginButton").Length())
	assert.Equal(t, 1, doc.Find("#saveButton").Length())
	assert.Equal(t, 1, doc.Find("textarea#P1_WORK_LOG").Length())
	assert.Equal(t, 2, doc.Find("select").Length())

	title := doc.Find("title").Text()
	assert.Contains(t, title, "Timesheet")
}

func TestUnknownPageReturns404(t *testing.T) {
	server := httptest.NewServer(Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/missing.html")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
