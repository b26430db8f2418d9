package dokuwiki

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mythsandlegends/spawnwiki/pkg/errors"
)

const versionResponse = `<?xml version="1.0"?>
<methodResponse>
  <params>
    <param><value><string>Release 2024-02-06a "Kaos"</string></value></param>
  </params>
</methodResponse>`

const pageResponse = `<?xml version="1.0"?>
<methodResponse>
  <params>
    <param><value><string>====== Old Page ======</string></value></param>
  </params>
</methodResponse>`

const putPageResponse = `<?xml version="1.0"?>
<methodResponse>
  <params>
    <param><value><boolean>1</boolean></value></param>
  </params>
</methodResponse>`

func faultResponse(code, message string) string {
	return `<?xml version="1.0"?>
<methodResponse>
  <fault>
    <value><struct>
      <member><name>faultCode</name><value><int>` + code + `</int></value></member>
      <member><name>faultString</name><value><string>` + message + `</string></value></member>
    </struct></value>
  </fault>
</methodResponse>`
}

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Config{URL: srv.URL, User: "bot", Password: "secret"})
	require.NoError(t, err)
	return c
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{User: "bot", Password: "secret"})
	require.Error(t, err)

	_, err = New(Config{URL: "https://wiki.example.org", User: "bot"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrCredentialsRequired)
}

func TestConnect(t *testing.T) {
	var gotPath, gotUser, gotPass, gotMethod string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser = r.URL.Query().Get("u")
		gotPass = r.URL.Query().Get("p")

		body, _ := io.ReadAll(r.Body)
		var call methodCall
		_ = xml.Unmarshal(body, &call)
		gotMethod = call.Method

		_, _ = io.WriteString(w, versionResponse)
	})

	version, err := c.Connect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `Release 2024-02-06a "Kaos"`, version)
	assert.Equal(t, "/lib/exe/xmlrpc.php", gotPath)
	assert.Equal(t, "bot", gotUser)
	assert.Equal(t, "secret", gotPass)
	assert.Equal(t, "dokuwiki.getVersion", gotMethod)
}

func TestPage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, pageResponse)
	})

	text, err := c.Page(context.Background(), "ns:gen1:mewtwo")
	require.NoError(t, err)
	assert.Equal(t, "====== Old Page ======", text)
}

func TestPageNotFoundFault(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, faultResponse("100", "The requested page does not exist"))
	})

	_, err := c.Page(context.Background(), "ns:gen1:mewtwo")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestPageOtherFaultIsNotNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, faultResponse("111", "You are not allowed to read this page"))
	})

	_, err := c.Page(context.Background(), "ns:gen1:mewtwo")
	require.Error(t, err)
	assert.False(t, errors.IsNotFound(err))

	remote, ok := errors.AsRemote(err)
	require.True(t, ok)
	assert.Equal(t, 111, remote.Code)
}

func TestPutPage(t *testing.T) {
	var call methodCall
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = xml.Unmarshal(body, &call)
		_, _ = io.WriteString(w, putPageResponse)
	})

	err := c.PutPage(context.Background(), "ns:gen1:mewtwo", "new text", "Automated spawn data update", false)
	require.NoError(t, err)

	assert.Equal(t, "wiki.putPage", call.Method)
	require.Len(t, call.Params, 3)
	assert.Equal(t, "ns:gen1:mewtwo", call.Params[0].Value.Text())
	assert.Equal(t, "new text", call.Params[1].Value.Text())

	sum, ok := call.Params[2].Value.Member("sum")
	require.True(t, ok)
	assert.Equal(t, "Automated spawn data update", sum.Text())

	minor, ok := call.Params[2].Value.Member("minor")
	require.True(t, ok)
	require.NotNil(t, minor.Boolean)
	assert.Equal(t, "0", *minor.Boolean)
}

func TestRemoteUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c, err := New(Config{URL: srv.URL, User: "bot", Password: "secret"})
	require.NoError(t, err)
	srv.Close()

	_, err = c.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRemoteUnavailable)
}

func TestServerErrorStatus(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Connect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrRemoteUnavailable)
}
