package crm_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"recruitdesk/crm-service/internal/crm"
)

func newTestServer(t *testing.T) (*httptest.Server, *crm.Service) {
	t.Helper()
	svc, _, _ := newTestService(t)
	mux := http.NewServeMux()
	crm.NewHandler(svc).RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, svc
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

// ── CRUD over HTTP ─────────────────────────────────────────────────────────

func TestHandler_ClientCreateAndFetch(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := postJSON(t, srv.URL+"/clients", map[string]string{"companyName": "Acme Interim"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /clients status = %d, want 201", resp.StatusCode)
	}
	var created crm.Client
	decodeBody(t, resp, &created)
	if created.ID == 0 {
		t.Fatal("created client has no id")
	}

	getResp, err := http.Get(fmt.Sprintf("%s/clients/%d", srv.URL, created.ID))
	if err != nil {
		t.Fatalf("GET client: %v", err)
	}
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("GET /clients/{id} status = %d, want 200", getResp.StatusCode)
	}
	var got crm.Client
	decodeBody(t, getResp, &got)
	if got.CompanyName != "Acme Interim" {
		t.Errorf("fetched client = %+v", got)
	}
}

func TestHandler_ValidationAndNotFoundMapping(t *testing.T) {
	srv, _ := newTestServer(t)

	// Missing required field maps to 400.
	resp := postJSON(t, srv.URL+"/clients", map[string]string{})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("POST /clients without companyName status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	// Unknown id maps to 404.
	getResp, err := http.Get(srv.URL + "/clients/999")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if getResp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /clients/999 status = %d, want 404", getResp.StatusCode)
	}
	getResp.Body.Close()
}

// ── Assignment routes ──────────────────────────────────────────────────────

func TestHandler_DuplicateAssignmentConflict(t *testing.T) {
	srv, svc := newTestServer(t)

	mission := mustCreateMission(t, svc, &crm.Mission{Title: "Forklift operator"})
	app := mustCreateApplicant(t, svc, &crm.Applicant{FirstName: "Jean", LastName: "Petit"})

	url := fmt.Sprintf("%s/missions/%d/applicants", srv.URL, mission.ID)
	body := map[string]int64{"applicantId": app.ID}

	first := postJSON(t, url, body)
	if first.StatusCode != http.StatusCreated {
		t.Fatalf("first assign status = %d, want 201", first.StatusCode)
	}
	first.Body.Close()

	second := postJSON(t, url, body)
	if second.StatusCode != http.StatusConflict {
		t.Errorf("duplicate assign status = %d, want 409", second.StatusCode)
	}
	second.Body.Close()
}

// ── Notes and search ───────────────────────────────────────────────────────

func TestHandler_EmptyNoteRejected(t *testing.T) {
	srv, svc := newTestServer(t)

	client := mustCreateClient(t, svc, &crm.Client{CompanyName: "Acme Interim"})

	resp := postJSON(t, fmt.Sprintf("%s/clients/%d/notes", srv.URL, client.ID), map[string]string{"content": "   "})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("blank note status = %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestHandler_Search(t *testing.T) {
	srv, svc := newTestServer(t)

	mustCreateClient(t, svc, &crm.Client{CompanyName: "Paris Staffing"})

	resp, err := http.Get(srv.URL + "/search?q=Paris")
	if err != nil {
		t.Fatalf("GET /search: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("GET /search status = %d, want 200", resp.StatusCode)
	}
	var res crm.SearchResults
	decodeBody(t, resp, &res)
	if len(res.Clients) != 1 {
		t.Errorf("search hit %d clients, want 1", len(res.Clients))
	}
}

// ── Downloads ──────────────────────────────────────────────────────────────

func TestHandler_DownloadGuards(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/uploads/missing.pdf")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("missing document status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()

	// Traversal attempts never reach the blob store.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/uploads/..%2Fsecret", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	trResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET traversal: %v", err)
	}
	if trResp.StatusCode == http.StatusOK {
		t.Error("traversal path returned 200")
	}
	trResp.Body.Close()
}

// ── Inline notes on create ─────────────────────────────────────────────────

func TestHandler_CreateWithInitialNotes(t *testing.T) {
	srv, svc := newTestServer(t)

	resp := postJSON(t, srv.URL+"/clients", map[string]any{
		"companyName":  "Nord Interim",
		"initialNotes": []string{"met at the Lille job fair", "  ", "prefers email"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /clients status = %d, want 201", resp.StatusCode)
	}
	var created crm.Client
	decodeBody(t, resp, &created)

	notes, err := svc.Notes(context.Background(), crm.KindClient, created.ID)
	if err != nil {
		t.Fatalf("Notes: %v", err)
	}
	if len(notes) != 2 {
		t.Fatalf("got %d notes, want 2 (blank entry dropped)", len(notes))
	}
}

func TestHandler_TrailingSlashPathsRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/clients/", "/contacts/", "/applicants/", "/missions/", "/callbacks/"} {
		resp, err := http.Get(srv.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("GET %s status = %d, want 404", path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

// ── Method guards ──────────────────────────────────────────────────────────

func TestHandler_MethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/search", "application/json", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("POST /search: %v", err)
	}
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /search status = %d, want 405", resp.StatusCode)
	}
	resp.Body.Close()
}
