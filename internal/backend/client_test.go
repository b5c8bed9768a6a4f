package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"docflow/internal/domain"
)

type staticAuthorizer struct {
	token string
}

func (a *staticAuthorizer) Authorize(req *http.Request) (*http.Request, bool) {
	if a.token == "" {
		return req, false
	}
	out := req.Clone(req.Context())
	out.Header.Set("Authorization", "Bearer "+a.token)
	return out, true
}

func newFakeServer(t *testing.T) (*Fake, *httptest.Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fake := NewFake(nil, "test-secret", time.Hour)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, srv
}

func loginClient(t *testing.T, srv *httptest.Server, auth *staticAuthorizer) *Client {
	t.Helper()
	client := NewClient(srv.URL+"/api", auth, time.Second, nil)
	res, err := client.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	auth.token = res.Token
	return client
}

func TestClient_NoTokenSkipsNetwork(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &staticAuthorizer{}, time.Second, nil)
	if _, err := client.ListDocuments(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	nilAuth := NewClient(srv.URL, nil, time.Second, nil)
	if _, err := nilAuth.ListUsers(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized without authorizer, got %v", err)
	}
	if hits != 0 {
		t.Fatalf("expected no requests, got %d", hits)
	}
}

func TestClient_LoginAndListDocuments(t *testing.T) {
	fake, srv := newFakeServer(t)
	fake.AddUser(domain.User{Name: "Ana", Email: "ana@example.com", IsActive: true}, "secret")
	fake.AddDocument(domain.Document{Code: "DOC-1", Deadline: "2024-09-06T10:00:00", Status: "pendiente"})

	auth := &staticAuthorizer{}
	client := NewClient(srv.URL+"/api", auth, time.Second, nil)
	res, err := client.Login(context.Background(), "ana@example.com", "secret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token == "" || res.ExpiresAt == nil {
		t.Fatalf("expected token and expiry, got %+v", res)
	}
	auth.token = res.Token

	docs, err := client.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("list documents: %v", err)
	}
	if len(docs) != 1 || docs[0].Code != "DOC-1" || docs[0].Deadline != "2024-09-06T10:00:00" {
		t.Fatalf("unexpected documents %+v", docs)
	}
}

func TestClient_LoginRejected(t *testing.T) {
	fake, srv := newFakeServer(t)
	fake.AddUser(domain.User{Email: "ana@example.com", IsActive: true}, "secret")
	client := NewClient(srv.URL+"/api", &staticAuthorizer{}, time.Second, nil)

	if _, err := client.Login(context.Background(), "ana@example.com", "wrong"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := client.Login(context.Background(), " ", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_RejectedTokenIsUnauthorized(t *testing.T) {
	_, srv := newFakeServer(t)
	client := NewClient(srv.URL+"/api", &staticAuthorizer{token: "not-a-jwt"}, time.Second, nil)
	if _, err := client.ListProcesses(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestClient_DocumentLifecycle(t *testing.T) {
	fake, srv := newFakeServer(t)
	fake.AddUser(domain.User{Email: "ana@example.com", IsActive: true}, "secret")
	client := loginClient(t, srv, &staticAuthorizer{})
	ctx := context.Background()

	created, err := client.CreateDocument(ctx, domain.DocumentInput{Code: "OF-12", Deadline: "2024-09-10"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.Deadline != "2024-09-10T00:00:00" {
		t.Fatalf("unexpected created document %+v", created)
	}

	if err := client.UpdateDocument(ctx, created.ID, domain.DocumentInput{Code: "OF-12", Subject: "actualizado", Deadline: "2024-09-11T08:30"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := client.GetDocument(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Subject != "actualizado" || got.Deadline != "2024-09-11T08:30:00" {
		t.Fatalf("unexpected document %+v", got)
	}

	if _, err := client.GetDocument(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := client.CreateDocument(ctx, domain.DocumentInput{}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if err := client.UpdateDocument(ctx, created.ID, domain.DocumentInput{Code: "OF-12", Deadline: "mañana"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}
}

func TestClient_ProcessesAndLinks(t *testing.T) {
	fake, srv := newFakeServer(t)
	fake.AddUser(domain.User{Email: "ana@example.com", IsActive: true}, "secret")
	client := loginClient(t, srv, &staticAuthorizer{})
	ctx := context.Background()

	p, err := client.CreateProcess(ctx, domain.ProcessInput{Code: "P-1", Description: "convenios", StartedAt: "2024-01-02"})
	if err != nil {
		t.Fatalf("create process: %v", err)
	}
	doc := fake.AddDocument(domain.Document{Code: "D-1"})
	fake.LinkDocument(p.ID, doc.ID)

	links, err := client.ListProcessDocuments(ctx, p.ID)
	if err != nil {
		t.Fatalf("list links: %v", err)
	}
	if len(links) != 1 || links[0].DocumentID != doc.ID {
		t.Fatalf("unexpected links %+v", links)
	}

	if err := client.UpdateProcess(ctx, p.ID, domain.ProcessInput{Description: "convenios 2024"}); err != nil {
		t.Fatalf("update process: %v", err)
	}
	got, err := client.GetProcess(ctx, p.ID)
	if err != nil {
		t.Fatalf("get process: %v", err)
	}
	if got.Code != "P-1" || got.Description != "convenios 2024" {
		t.Fatalf("unexpected process %+v", got)
	}
}

func TestClient_ProcessDocumentsSingleObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ProcesosDocumentos/7" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"procesoDocumento":{"idProceso":7,"idDocumento":3}}}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &staticAuthorizer{token: "t"}, time.Second, nil)
	links, err := client.ListProcessDocuments(context.Background(), 7)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(links) != 1 || links[0].ProcessID != 7 || links[0].DocumentID != 3 {
		t.Fatalf("unexpected links %+v", links)
	}
}

func TestClient_AssignmentsUsersVersions(t *testing.T) {
	fake, srv := newFakeServer(t)
	user := fake.AddUser(domain.User{Name: "Ana", Email: "ana@example.com", IsActive: true}, "secret")
	doc := fake.AddDocument(domain.Document{Code: "D-1"})
	fake.AddVersion(domain.Version{DocumentID: doc.ID, Comment: "v1"})
	fake.AddVersion(domain.Version{DocumentID: doc.ID + 100, Comment: "otro"})
	client := loginClient(t, srv, &staticAuthorizer{})
	ctx := context.Background()

	if err := client.CreateAssignment(ctx, domain.AssignmentInput{UserID: user.ID}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	err := client.CreateAssignment(ctx, domain.AssignmentInput{UserID: user.ID, Instruction: "revisar", DueAt: "2024-09-07"})
	if err != nil {
		t.Fatalf("create assignment: %v", err)
	}
	stored := fake.Assignments()
	if len(stored) != 1 || stored[0].DueAt != "2024-09-07T00:00:00" {
		t.Fatalf("expected API-formatted due date, got %+v", stored)
	}

	assignments, err := client.ListAssignments(ctx)
	if err != nil || len(assignments) != 1 {
		t.Fatalf("list assignments: %+v %v", assignments, err)
	}
	users, err := client.ListUsers(ctx)
	if err != nil || len(users) != 1 || users[0].Name != "Ana" {
		t.Fatalf("list users: %+v %v", users, err)
	}
	versions, err := client.ListVersions(ctx, doc.ID)
	if err != nil || len(versions) != 1 || versions[0].Comment != "v1" {
		t.Fatalf("list versions: %+v %v", versions, err)
	}
}

func TestClient_UpstreamErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &staticAuthorizer{token: "t"}, time.Second, nil)
	if _, err := client.ListUsers(context.Background()); !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestNormalizeAPIDate(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"2024-09-10", "2024-09-10T00:00:00", false},
		{"2024-09-10T08:15", "2024-09-10T08:15:00", false},
		{"2024-09-10T08:15:30.250", "2024-09-10T08:15:30", false},
		{"2024-09-10T08:15:30-05:00", "2024-09-10T13:15:30", false},
		{"10/09/2024", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := NormalizeAPIDate(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil || got != tc.want {
				t.Fatalf("expected %q, got %q (%v)", tc.want, got, err)
			}
		})
	}
}

func TestFormatAPIDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	got := FormatAPIDate(time.Date(2024, 9, 5, 20, 30, 0, 0, loc))
	if got != "2024-09-06T01:30:00" {
		t.Fatalf("expected UTC conversion, got %q", got)
	}
}
