package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"docflow/internal/domain"
)

var (
	ErrUnauthorized = errors.New("backend unauthorized")
	ErrNotFound     = errors.New("backend resource not found")
	ErrUpstream     = errors.New("backend error")
	ErrInvalidInput = errors.New("backend input invalid")
)

// Authorizer adjunta credenciales a una request saliente. Devuelve false si
// no hay credenciales que adjuntar.
type Authorizer interface {
	Authorize(req *http.Request) (*http.Request, bool)
}

// Client consume la API REST de documentos, procesos y asignaciones.
type Client struct {
	baseURL string
	auth    Authorizer
	client  *http.Client
	logger  *zap.Logger
}

// NewClient construye un cliente apuntando a la API externa.
func NewClient(baseURL string, auth Authorizer, timeout time.Duration, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:5064/api"
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		auth:    auth,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// WithAuthorizer devuelve una copia del cliente que usa otro Authorizer.
// El gateway la usa para atar cada request a las cookies del navegador.
func (c *Client) WithAuthorizer(auth Authorizer) *Client {
	clone := *c
	clone.auth = auth
	return &clone
}

type envelope[T any] struct {
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

type LoginResult struct {
	Token     string
	ExpiresAt *time.Time
}

type loginPayload struct {
	Token      string `json:"token"`
	Expiration string `json:"expiration"`
}

// Login intercambia credenciales por un bearer token. No lleva Authorization.
func (c *Client) Login(ctx context.Context, email, password string) (LoginResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}
	var resp struct {
		loginPayload
		Data *loginPayload `json:"data"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp, false); err != nil {
		return LoginResult{}, err
	}
	payload := resp.loginPayload
	if resp.Data != nil && resp.Data.Token != "" {
		payload = *resp.Data
	}
	if strings.TrimSpace(payload.Token) == "" {
		return LoginResult{}, fmt.Errorf("%w: login response without token", ErrUpstream)
	}
	result := LoginResult{Token: payload.Token}
	if exp, ok := parseAPITime(payload.Expiration); ok {
		result.ExpiresAt = &exp
	}
	return result, nil
}

func (c *Client) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	var resp envelope[struct {
		Documents []domain.Document `json:"documentos"`
	}]
	if err := c.do(ctx, http.MethodGet, "/documentos", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Data.Documents, nil
}

func (c *Client) GetDocument(ctx context.Context, id int) (domain.Document, error) {
	var resp envelope[struct {
		Document domain.Document `json:"documento"`
	}]
	if err := c.do(ctx, http.MethodGet, "/documentos/"+strconv.Itoa(id), nil, &resp, true); err != nil {
		return domain.Document{}, err
	}
	return resp.Data.Document, nil
}

func (c *Client) CreateDocument(ctx context.Context, input domain.DocumentInput) (domain.Document, error) {
	if strings.TrimSpace(input.Code) == "" {
		return domain.Document{}, ErrInvalidInput
	}
	normalized, err := normalizeDocumentInput(input)
	if err != nil {
		return domain.Document{}, err
	}
	var resp envelope[struct {
		Document domain.Document `json:"documento"`
	}]
	if err := c.do(ctx, http.MethodPost, "/documentos", normalized, &resp, true); err != nil {
		return domain.Document{}, err
	}
	return resp.Data.Document, nil
}

// UpdateDocument envia el documento completo con PUT, incluyendo idDocumento.
func (c *Client) UpdateDocument(ctx context.Context, id int, input domain.DocumentInput) error {
	normalized, err := normalizeDocumentInput(input)
	if err != nil {
		return err
	}
	normalized.ID = id
	return c.do(ctx, http.MethodPut, "/documentos/"+strconv.Itoa(id), normalized, nil, true)
}

func (c *Client) ListProcesses(ctx context.Context) ([]domain.Process, error) {
	var resp envelope[struct {
		Processes []domain.Process `json:"procesos"`
	}]
	if err := c.do(ctx, http.MethodGet, "/procesos", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Data.Processes, nil
}

func (c *Client) GetProcess(ctx context.Context, id int) (domain.Process, error) {
	var resp envelope[struct {
		Process domain.Process `json:"proceso"`
	}]
	if err := c.do(ctx, http.MethodGet, "/procesos/"+strconv.Itoa(id), nil, &resp, true); err != nil {
		return domain.Process{}, err
	}
	return resp.Data.Process, nil
}

func (c *Client) CreateProcess(ctx context.Context, input domain.ProcessInput) (domain.Process, error) {
	normalized, err := normalizeProcessInput(input)
	if err != nil {
		return domain.Process{}, err
	}
	var resp envelope[struct {
		Process domain.Process `json:"proceso"`
	}]
	if err := c.do(ctx, http.MethodPost, "/procesos", normalized, &resp, true); err != nil {
		return domain.Process{}, err
	}
	return resp.Data.Process, nil
}

func (c *Client) UpdateProcess(ctx context.Context, id int, input domain.ProcessInput) error {
	normalized, err := normalizeProcessInput(input)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPut, "/procesos/"+strconv.Itoa(id), normalized, nil, true)
}

// ListProcessDocuments acepta procesoDocumento como objeto o como lista.
func (c *Client) ListProcessDocuments(ctx context.Context, processID int) ([]domain.ProcessDocument, error) {
	var resp envelope[struct {
		Links json.RawMessage `json:"procesoDocumento"`
	}]
	if err := c.do(ctx, http.MethodGet, "/ProcesosDocumentos/"+strconv.Itoa(processID), nil, &resp, true); err != nil {
		return nil, err
	}
	raw := bytes.TrimSpace(resp.Data.Links)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '[' {
		var links []domain.ProcessDocument
		if err := json.Unmarshal(raw, &links); err != nil {
			return nil, fmt.Errorf("unmarshal process documents: %w", err)
		}
		return links, nil
	}
	var link domain.ProcessDocument
	if err := json.Unmarshal(raw, &link); err != nil {
		return nil, fmt.Errorf("unmarshal process document: %w", err)
	}
	return []domain.ProcessDocument{link}, nil
}

func (c *Client) ListAssignments(ctx context.Context) ([]domain.Assignment, error) {
	var resp envelope[struct {
		Assignments []domain.Assignment `json:"asignaciones"`
	}]
	if err := c.do(ctx, http.MethodGet, "/asignaciones", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Data.Assignments, nil
}

// CreateAssignment exige usuario, instruccion y fecha de entrega.
func (c *Client) CreateAssignment(ctx context.Context, input domain.AssignmentInput) error {
	if input.UserID <= 0 || strings.TrimSpace(input.Instruction) == "" || strings.TrimSpace(input.DueAt) == "" {
		return ErrInvalidInput
	}
	due, err := NormalizeAPIDate(input.DueAt)
	if err != nil {
		return err
	}
	input.DueAt = due
	return c.do(ctx, http.MethodPost, "/asignaciones", input, nil, true)
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var resp envelope[struct {
		Users []domain.User `json:"usuarios"`
	}]
	if err := c.do(ctx, http.MethodGet, "/usuarios", nil, &resp, true); err != nil {
		return nil, err
	}
	return resp.Data.Users, nil
}

// ListVersions pide el historial de versiones de un documento.
func (c *Client) ListVersions(ctx context.Context, documentID int) ([]domain.Version, error) {
	var resp struct {
		Versions []domain.Version `json:"versions"`
	}
	body := map[string]int{"idDocumento": documentID}
	if err := c.do(ctx, http.MethodPost, "/versionxs", body, &resp, true); err != nil {
		return nil, err
	}
	return resp.Versions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any, authenticated bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if authenticated {
		if c.auth == nil {
			return ErrUnauthorized
		}
		var ok bool
		if req, ok = c.auth.Authorize(req); !ok {
			return ErrUnauthorized
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode >= 400:
		c.logger.Warn("backend error response",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("body", truncate(string(respBody), 512)),
		)
		return fmt.Errorf("%w: status=%d", ErrUpstream, resp.StatusCode)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
