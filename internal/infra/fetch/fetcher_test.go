package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const page = `<html><head><title>Sky</title><style>body{color:red}</style>
<script>var x = "<b>tracking</b>";</script></head>
<body><h1>Sky turns green</h1><p>Residents report a <em>green</em> sky &amp; calm winds.</p></body></html>`

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.Header.Get("User-Agent"), "automaton-verify")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	f := New(srv.Client(), nil, 0)
	text, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Sky turns green")
	assert.Contains(t, text, "Residents report a green sky & calm winds.")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "color:red")
	assert.NotContains(t, text, "<")
}

func TestFetch_ValidatorRejects(t *testing.T) {
	blocked := errors.New("localhost/internal IPs are not allowed")
	f := New(nil, func(string) error { return blocked }, 0)
	_, err := f.Fetch(context.Background(), "http://127.0.0.1/")
	assert.ErrorIs(t, err, blocked)
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := New(srv.Client(), nil, 0).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestFetch_LimitsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("word ", 1000)))
	}))
	defer srv.Close()

	text, err := New(srv.Client(), nil, 50).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(text), 50)
}

func TestDropElements_Unclosed(t *testing.T) {
	assert.Equal(t, "keep ", dropElements("keep <script>never closed", "script"))
}

func TestFetch_ValidatesRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/article":
			http.Redirect(w, r, "/internal", http.StatusFound)
		case "/internal":
			_, _ = w.Write([]byte("SECRET-METADATA"))
		}
	}))
	defer srv.Close()

	blocked := errors.New("internal path not allowed")
	validate := func(u string) error {
		if strings.Contains(u, "/internal") {
			return blocked
		}
		return nil
	}

	text, err := New(srv.Client(), validate, 0).Fetch(context.Background(), srv.URL+"/article")
	require.Error(t, err)
	assert.ErrorIs(t, err, blocked)
	assert.NotContains(t, text, "SECRET-METADATA")
}

func TestFetch_StopsRedirectLoops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	_, err := New(srv.Client(), nil, 0).Fetch(context.Background(), srv.URL+"/loop")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirects")
}

func TestNew_DoesNotModifyCallerClient(t *testing.T) {
	client := &http.Client{}
	New(client, func(string) error { return nil }, 0)
	assert.Nil(t, client.CheckRedirect)
}
