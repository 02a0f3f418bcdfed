package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"testing"
	"time"
)

// storefrontPort is where the storefront session service listens by default.
const storefrontPort = 8080

// baseURL returns the base URL for the service running on the given port.
func baseURL(port int) string {
	return fmt.Sprintf("http://localhost:%d", port)
}

// newSessionID generates a fresh session identifier so tests never share
// session state.
func newSessionID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), rand.Intn(100000))
}

// uniqueEmail generates a unique email address to avoid test collisions.
func uniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@test.example.com", prefix, time.Now().UnixNano(), rand.Intn(100000))
}

// skipIfNotRunning performs a quick health check against the service.
// If the service is unreachable, the test is skipped (not failed).
func skipIfNotRunning(t *testing.T, port int) {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(baseURL(port) + "/health/live")
	if err != nil {
		t.Skipf("service on port %d not reachable (Docker not running?): %v", port, err)
	}
	resp.Body.Close()
}

// httpGet performs an HTTP GET request for a session and returns the status
// code and decoded JSON body.
func httpGet(t *testing.T, url, sessionID string) (int, map[string]interface{}) {
	t.Helper()
	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("creating GET request for %s failed: %v", url, err)
	}
	req.Header.Set("X-Session-ID", sessionID)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

// httpPost performs an HTTP POST request with a JSON body for a session.
func httpPost(t *testing.T, url, sessionID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodPost, url, sessionID, body)
}

// httpPut performs an HTTP PUT request with a JSON body for a session.
func httpPut(t *testing.T, url, sessionID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodPut, url, sessionID, body)
}

// httpDelete performs an HTTP DELETE request for a session.
func httpDelete(t *testing.T, url, sessionID string) (int, map[string]interface{}) {
	t.Helper()
	return doJSONRequest(t, http.MethodDelete, url, sessionID, nil)
}

// doJSONRequest is the internal helper for JSON HTTP requests.
func doJSONRequest(t *testing.T, method, url, sessionID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var bodyReader io.Reader
	if body != nil {
		jsonBytes, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshalling request body failed: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBytes)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		t.Fatalf("creating %s request for %s failed: %v", method, url, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, decodeBody(t, resp.Body)
}

// decodeBody reads the response body and attempts to decode it as JSON.
// If the body is empty or not JSON, it returns an empty map.
func decodeBody(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	raw, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("reading response body failed: %v", err)
	}
	if len(raw) == 0 {
		return map[string]interface{}{}
	}
	var result map[string]interface{}
	if err := json.Unmarshal(raw, &result); err != nil {
		// Not JSON; return the raw string in a "raw" key for debugging.
		return map[string]interface{}{"raw": string(raw)}
	}
	return result
}

// extractField returns a nested field from a decoded JSON body, or nil.
func extractField(data map[string]interface{}, key string) interface{} {
	if data == nil {
		return nil
	}
	return data[key]
}

// requireStatus fails the test if the status does not match.
func requireStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("unexpected status: got %d, want %d", got, want)
	}
}

// selectFirstRegion picks the first available region for the session and
// returns its code. Fails the test if no regions are configured.
func selectFirstRegion(t *testing.T, sessionID string) string {
	t.Helper()

	status, data := httpGet(t, baseURL(storefrontPort)+"/api/v1/regions", sessionID)
	requireStatus(t, status, 200)

	regions, ok := extractField(data, "data").([]interface{})
	if !ok || len(regions) == 0 {
		t.Fatal("expected at least one region option")
	}
	first, ok := regions[0].(map[string]interface{})
	if !ok {
		t.Fatal("malformed region option")
	}
	code, _ := first["code"].(string)
	if code == "" {
		t.Fatal("region option has no code")
	}

	status, _ = httpPut(t, baseURL(storefrontPort)+"/api/v1/session/region", sessionID,
		map[string]interface{}{"code": code})
	requireStatus(t, status, 200)

	return code
}
