package datacite

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phenomics-au/doimint/internal/shared"
	tu "github.com/phenomics-au/doimint/internal/testing"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientOpts{
		BaseURL:   baseURL,
		RepoID:    "demo.repo",
		Password:  "secret",
		RateLimit: 1000,
	})
}

func TestNewClient(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		client := NewClient(ClientOpts{})

		if client.baseURL != "https://api.test.datacite.org/dois" {
			t.Errorf("unexpected base URL: %s", client.baseURL)
		}
		if client.userAgent == "" {
			t.Error("expected a default user agent")
		}
		if client.httpClient.Timeout <= 0 {
			t.Error("expected a default timeout")
		}
		if client.DryRun() {
			t.Error("expected dry-run off by default")
		}
	})

	t.Run("trims trailing slash", func(t *testing.T) {
		client := NewClient(ClientOpts{BaseURL: "https://api.datacite.org/dois/"})
		if client.baseURL != "https://api.datacite.org/dois" {
			t.Errorf("unexpected base URL: %s", client.baseURL)
		}
	})
}

func TestClientCreate(t *testing.T) {
	t.Run("sends the JSON:API envelope and returns the minted DOI", func(t *testing.T) {
		var gotPayload Payload
		var gotReq *http.Request

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotReq = r.Clone(context.Background())
			if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
				t.Errorf("failed to decode payload: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"data":{"id":"10.1234/minted","type":"dois","attributes":{"doi":"10.1234/minted"}}}`)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/dois")
		result, err := client.Create(context.Background(), Attributes{
			Prefix: "10.1234",
			Event:  EventDraft,
			Titles: []Title{{Title: "First Award"}},
		})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}

		if result.DOI != "10.1234/minted" {
			t.Errorf("unexpected DOI: %s", result.DOI)
		}
		if result.Simulated {
			t.Error("expected a real result")
		}
		if result.Status != http.StatusCreated {
			t.Errorf("unexpected status: %d", result.Status)
		}

		if gotReq.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", gotReq.Method)
		}
		if gotReq.URL.Path != "/dois" {
			t.Errorf("unexpected path: %s", gotReq.URL.Path)
		}
		if user, pass, ok := gotReq.BasicAuth(); !ok || user != "demo.repo" || pass != "secret" {
			t.Error("expected Basic auth credentials on the request")
		}
		if ct := gotReq.Header.Get("Content-Type"); ct != "application/vnd.api+json" {
			t.Errorf("unexpected Content-Type: %s", ct)
		}
		if accept := gotReq.Header.Get("Accept"); accept != "application/vnd.api+json" {
			t.Errorf("unexpected Accept: %s", accept)
		}
		if ua := gotReq.Header.Get("User-Agent"); ua == "" {
			t.Error("expected a User-Agent header")
		}

		if gotPayload.Data.Type != "dois" {
			t.Errorf("unexpected resource type: %s", gotPayload.Data.Type)
		}
		if gotPayload.Data.Attributes.Prefix != "10.1234" {
			t.Errorf("unexpected prefix: %s", gotPayload.Data.Attributes.Prefix)
		}
	})

	t.Run("surfaces API error titles", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			fmt.Fprint(w, `{"errors":[{"status":"422","title":"This DOI has already been taken"}]}`)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/dois")
		_, err := client.Create(context.Background(), Attributes{DOI: "10.1234/taken"})
		if !errors.Is(err, shared.ErrAPI) {
			t.Fatalf("expected ErrAPI, got %v", err)
		}
		if !strings.Contains(err.Error(), "already been taken") {
			t.Errorf("expected the error title, got %v", err)
		}
		if !strings.Contains(err.Error(), "422") {
			t.Errorf("expected the status code, got %v", err)
		}
	})

	t.Run("wraps transport failures", func(t *testing.T) {
		client := NewClient(ClientOpts{
			BaseURL:    "http://example.invalid/dois",
			RateLimit:  1000,
			HTTPClient: &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("connection refused"))},
		})

		_, err := client.Create(context.Background(), Attributes{DOI: "10.1234/x"})
		if !errors.Is(err, shared.ErrRequest) {
			t.Errorf("expected ErrRequest, got %v", err)
		}
	})

	t.Run("dry run never touches the network", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(nil, errors.New("must not be called"))
		client := NewClient(ClientOpts{
			DryRun:     true,
			RateLimit:  1000,
			HTTPClient: &http.Client{Transport: rt},
		})

		result, err := client.Create(context.Background(), Attributes{Prefix: "10.1234"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if !result.Simulated {
			t.Error("expected a simulated result")
		}
		if !strings.HasPrefix(result.DOI, "10.1234/") {
			t.Errorf("expected a synthetic DOI under the prefix, got %s", result.DOI)
		}
		if rt.Calls != 0 {
			t.Errorf("expected no HTTP calls, got %d", rt.Calls)
		}
	})

	t.Run("dry run keeps an explicit DOI", func(t *testing.T) {
		client := NewClient(ClientOpts{DryRun: true, RateLimit: 1000})

		result, err := client.Create(context.Background(), Attributes{DOI: "10.1234/fixed"})
		if err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if result.DOI != "10.1234/fixed" {
			t.Errorf("unexpected DOI: %s", result.DOI)
		}
	})
}

func TestClientUpdate(t *testing.T) {
	t.Run("puts to the DOI path", func(t *testing.T) {
		var gotMethod, gotPath string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod, gotPath = r.Method, r.URL.Path
			fmt.Fprint(w, `{"data":{"id":"10.1234/abcd","type":"dois","attributes":{}}}`)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/dois")
		result, err := client.Update(context.Background(), "10.1234/abcd", Attributes{Event: EventPublish})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}

		if gotMethod != http.MethodPut {
			t.Errorf("expected PUT, got %s", gotMethod)
		}
		if gotPath != "/dois/10.1234/abcd" {
			t.Errorf("unexpected path: %s", gotPath)
		}
		if result.DOI != "10.1234/abcd" {
			t.Errorf("unexpected DOI: %s", result.DOI)
		}
	})

	t.Run("dry run simulates", func(t *testing.T) {
		client := NewClient(ClientOpts{DryRun: true, RateLimit: 1000})

		result, err := client.Update(context.Background(), "10.1234/abcd", Attributes{})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		if !result.Simulated || result.DOI != "10.1234/abcd" {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}

func TestClientPatch(t *testing.T) {
	t.Run("PatchURL sends only the url attribute", func(t *testing.T) {
		var gotMethod string
		var gotPayload Payload

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
				t.Errorf("failed to decode payload: %v", err)
			}
			fmt.Fprint(w, `{}`)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/dois")
		if err := client.PatchURL(context.Background(), "10.1234/abcd", "https://example.org?wdt_column_filter[5]=abcd"); err != nil {
			t.Fatalf("PatchURL failed: %v", err)
		}

		if gotMethod != http.MethodPatch {
			t.Errorf("expected PATCH, got %s", gotMethod)
		}
		if gotPayload.Data.Attributes.URL != "https://example.org?wdt_column_filter[5]=abcd" {
			t.Errorf("unexpected url: %s", gotPayload.Data.Attributes.URL)
		}
		if gotPayload.Data.Attributes.Event != "" {
			t.Error("expected no event on a corrective patch")
		}
	})

	t.Run("dry run is a no-op", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(nil, errors.New("must not be called"))
		client := NewClient(ClientOpts{
			DryRun:     true,
			RateLimit:  1000,
			HTTPClient: &http.Client{Transport: rt},
		})

		if err := client.PatchURL(context.Background(), "10.1234/abcd", "https://example.org"); err != nil {
			t.Fatalf("PatchURL failed: %v", err)
		}
		if rt.Calls != 0 {
			t.Errorf("expected no HTTP calls, got %d", rt.Calls)
		}
	})
}

func TestClientGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dois/10.1234/abcd" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"data":{"id":"10.1234/abcd","type":"dois","attributes":{"state":"draft"}}}`)
	}))
	defer server.Close()

	client := newTestClient(server.URL + "/dois")
	resource, err := client.Get(context.Background(), "10.1234/abcd")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if resource.Attributes.State != "draft" {
		t.Errorf("unexpected state: %s", resource.Attributes.State)
	}
}

func TestClientDelete(t *testing.T) {
	t.Run("deletes the DOI path", func(t *testing.T) {
		var gotMethod, gotPath string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod, gotPath = r.Method, r.URL.Path
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/dois")
		if err := client.Delete(context.Background(), "10.1234/abcd"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if gotMethod != http.MethodDelete || gotPath != "/dois/10.1234/abcd" {
			t.Errorf("unexpected request: %s %s", gotMethod, gotPath)
		}
	})

	t.Run("dry run is a no-op", func(t *testing.T) {
		rt := tu.NewMockRoundTripper(nil, errors.New("must not be called"))
		client := NewClient(ClientOpts{
			DryRun:     true,
			RateLimit:  1000,
			HTTPClient: &http.Client{Transport: rt},
		})

		if err := client.Delete(context.Background(), "10.1234/abcd"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if rt.Calls != 0 {
			t.Errorf("expected no HTTP calls, got %d", rt.Calls)
		}
	})
}

func TestClientList(t *testing.T) {
	t.Run("follows links.next", func(t *testing.T) {
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				fmt.Fprint(w, `{"data":[{"id":"10.1234/b","type":"dois","attributes":{}}]}`)
				return
			}
			fmt.Fprintf(w, `{"data":[{"id":"10.1234/a","type":"dois","attributes":{}}],"links":{"next":"%s/dois?page=2"}}`, server.URL)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/dois")
		resources, err := client.List(context.Background())
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(resources) != 2 {
			t.Fatalf("expected 2 resources, got %d", len(resources))
		}
		if resources[0].ID != "10.1234/a" || resources[1].ID != "10.1234/b" {
			t.Errorf("unexpected resources: %+v", resources)
		}
	})

	t.Run("stops on a repeated next link", func(t *testing.T) {
		calls := 0
		var server *httptest.Server
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			fmt.Fprintf(w, `{"data":[],"links":{"next":"%s/dois?page=2"}}`, server.URL)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/dois")
		if _, err := client.List(context.Background()); err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if calls != 2 {
			t.Errorf("expected the loop to stop after the repeated link, got %d calls", calls)
		}
	})
}

func TestClientPreflight(t *testing.T) {
	t.Run("checks the clients endpoint", func(t *testing.T) {
		var gotPath string

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			fmt.Fprint(w, `{"data":{"id":"demo.repo","type":"clients"}}`)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/dois")
		if err := client.Preflight(context.Background()); err != nil {
			t.Fatalf("Preflight failed: %v", err)
		}
		if gotPath != "/clients/demo.repo" {
			t.Errorf("unexpected path: %s", gotPath)
		}
	})

	t.Run("bad credentials surface as ErrAPI", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"errors":[{"status":"401","title":"Bad credentials."}]}`)
		}))
		defer server.Close()

		client := newTestClient(server.URL + "/dois")
		err := client.Preflight(context.Background())
		if !errors.Is(err, shared.ErrAPI) {
			t.Fatalf("expected ErrAPI, got %v", err)
		}
		if !strings.Contains(err.Error(), "Bad credentials") {
			t.Errorf("expected the error title, got %v", err)
		}
	})
}
