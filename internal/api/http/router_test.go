package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/Davve420/CRM-tester/internal/api/http/handlers"
	"github.com/Davve420/CRM-tester/internal/auth"
	"github.com/Davve420/CRM-tester/internal/config"
	"github.com/Davve420/CRM-tester/internal/domain"
	"github.com/Davve420/CRM-tester/internal/observability"
	"github.com/Davve420/CRM-tester/internal/persistence"
	"github.com/Davve420/CRM-tester/internal/service"
)

type fakeIssueRepo struct {
	issues map[string]*domain.Issue
}

func (r *fakeIssueRepo) Create(ctx context.Context, issue *domain.Issue) error {
	copied := *issue
	r.issues[issue.ID] = &copied
	return nil
}

func (r *fakeIssueRepo) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	issue, ok := r.issues[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *issue
	return &copied, nil
}

func (r *fakeIssueRepo) ListAll(ctx context.Context) ([]domain.Issue, error) {
	var result []domain.Issue
	for _, issue := range r.issues {
		result = append(result, *issue)
	}
	return result, nil
}

func (r *fakeIssueRepo) ListByCompany(ctx context.Context, companyID string) ([]domain.Issue, error) {
	var result []domain.Issue
	for _, issue := range r.issues {
		if issue.CompanyID == companyID {
			result = append(result, *issue)
		}
	}
	return result, nil
}

func (r *fakeIssueRepo) UpdateStateScoped(ctx context.Context, id, companyID string, state domain.IssueState) (int64, error) {
	issue, ok := r.issues[id]
	if !ok || issue.CompanyID != companyID {
		return 0, nil
	}
	issue.State = state
	issue.Latest = time.Now().UTC()
	return 1, nil
}

type fakeMessageRepo struct {
	messages map[string][]domain.Message
	nextID   int64
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *domain.Message) (int64, error) {
	r.nextID++
	msg.ID = r.nextID
	msg.Time = time.Now().UTC()
	r.messages[msg.IssueID] = append(r.messages[msg.IssueID], *msg)
	return 1, nil
}

func (r *fakeMessageRepo) ListByIssue(ctx context.Context, issueID string) ([]domain.Message, error) {
	return r.messages[issueID], nil
}

type fakeCompanyRepo struct{}

func (fakeCompanyRepo) GetByName(ctx context.Context, name string) (*domain.Company, error) {
	return &domain.Company{ID: "company-7", Name: name}, nil
}

type fakeAccountRepo struct {
	accounts map[string]*domain.Account
}

func (r *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	account, ok := r.accounts[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return account, nil
}

type testEnv struct {
	app    *fiber.App
	tokens *auth.TokenManager
	issues *fakeIssueRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	issueRepo := &fakeIssueRepo{issues: make(map[string]*domain.Issue)}
	messageRepo := &fakeMessageRepo{messages: make(map[string][]domain.Message)}

	issueService := service.NewIssueService(service.IssueDependencies{
		IssueRepo:      issueRepo,
		CompanyRepo:    fakeCompanyRepo{},
		DefaultCompany: "Default Company",
	})
	messageService := service.NewMessageService(service.MessageDependencies{
		IssueRepo:   issueRepo,
		MessageRepo: messageRepo,
	})

	hash, err := auth.HashPassword("agent-password", 4)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	companyID := "company-7"
	companyName := "Default Company"
	accountRepo := &fakeAccountRepo{accounts: map[string]*domain.Account{
		"agent": {
			ID: "acc-agent", Username: "agent", PasswordHash: hash,
			Role: domain.RoleSupport, CompanyID: &companyID, CompanyName: &companyName,
		},
	}}

	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	authService := service.NewAuthService(cfg, accountRepo)
	tokens := authService.TokenManager()

	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("test", "dev", &persistence.Postgres{}, &persistence.Redis{}),
		Auth:           handlers.NewAuthHandler(authService),
		Issues:         handlers.NewIssuesHandler(issueService),
		CompanyIssues:  handlers.NewCompanyIssuesHandler(issueService),
		Messages:       handlers.NewMessagesHandler(messageService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
	})

	return &testEnv{app: app, tokens: tokens, issues: issueRepo}
}

func (env *testEnv) tokenFor(t *testing.T, account *domain.Account) string {
	t.Helper()
	token, _, err := env.tokens.GenerateToken(account)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}
	return token
}

func jsonRequest(method, target string, payload any, token string) *http.Request {
	var body bytes.Buffer
	if payload != nil {
		_ = json.NewEncoder(&body).Encode(payload)
	}
	req := httptest.NewRequest(method, target, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func createIssue(t *testing.T, env *testEnv) string {
	t.Helper()
	req := jsonRequest(http.MethodPost, "/api/issues", map[string]string{
		"email":   "a@x.com",
		"title":   "Login broken",
		"subject": "Login",
		"message": "Can't log in",
	}, "")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	if data["state"] != "NEW" {
		t.Fatalf("expected state NEW, got %v", data["state"])
	}
	if data["created"] != data["latest"] {
		t.Fatalf("expected created == latest, got %v / %v", data["created"], data["latest"])
	}
	return data["id"].(string)
}

func TestCreateIssueEndpoint(t *testing.T) {
	env := newTestEnv(t)
	createIssue(t, env)
}

func TestCreateIssueEndpointRejectsMissingFields(t *testing.T) {
	env := newTestEnv(t)
	req := jsonRequest(http.MethodPost, "/api/issues", map[string]string{"email": "a@x.com"}, "")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestScopedRoutesRequireAuthentication(t *testing.T) {
	env := newTestEnv(t)
	issueID := createIssue(t, env)

	req := jsonRequest(http.MethodGet, "/api/company/issues/"+issueID, nil, "")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestForeignGuestGetsNotFoundShape(t *testing.T) {
	env := newTestEnv(t)
	issueID := createIssue(t, env)

	stranger := env.tokenFor(t, &domain.Account{ID: "acc-2", Username: "b@x.com", Role: domain.RoleGuest})
	req := jsonRequest(http.MethodGet, "/api/company/issues/"+issueID, nil, stranger)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	errBody := body["error"].(map[string]any)
	if errBody["code"] != "NOT_FOUND" {
		t.Fatalf("denied access must be indistinguishable from not found, got %v", errBody["code"])
	}
}

func TestOwnerGuestReadsOwnIssue(t *testing.T) {
	env := newTestEnv(t)
	issueID := createIssue(t, env)

	owner := env.tokenFor(t, &domain.Account{ID: "acc-1", Username: "a@x.com", Role: domain.RoleGuest})
	req := jsonRequest(http.MethodGet, "/api/company/issues/"+issueID, nil, owner)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestUpdateStateForeignCompanyConflicts(t *testing.T) {
	env := newTestEnv(t)
	issueID := createIssue(t, env)

	companyID := "company-9"
	companyName := "Rival"
	foreignStaff := env.tokenFor(t, &domain.Account{
		ID: "acc-3", Username: "agent", Role: domain.RoleSupport,
		CompanyID: &companyID, CompanyName: &companyName,
	})
	req := jsonRequest(http.MethodPut, fmt.Sprintf("/api/company/issues/%s/state", issueID),
		map[string]string{"new_state": "OPEN"}, foreignStaff)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestUpdateStateRejectsUnknownValue(t *testing.T) {
	env := newTestEnv(t)
	issueID := createIssue(t, env)

	companyID := "company-7"
	companyName := "Default Company"
	staff := env.tokenFor(t, &domain.Account{
		ID: "acc-4", Username: "agent", Role: domain.RoleSupport,
		CompanyID: &companyID, CompanyName: &companyName,
	})
	req := jsonRequest(http.MethodPut, fmt.Sprintf("/api/company/issues/%s/state", issueID),
		map[string]string{"new_state": "DONE"}, staff)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLoginIssuesUsableStaffToken(t *testing.T) {
	env := newTestEnv(t)
	issueID := createIssue(t, env)

	req := jsonRequest(http.MethodPost, "/api/auth/login",
		map[string]string{"username": "agent", "password": "agent-password"}, "")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 login, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	token := body["data"].(map[string]any)["token"].(string)

	req = jsonRequest(http.MethodGet, "/api/company/issues", nil, token)
	resp, err = env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("staff should list company issues, got %d", resp.StatusCode)
	}
	body = decodeBody(t, resp)
	issues := body["issues"].([]any)
	if len(issues) != 1 || issues[0].(map[string]any)["id"] != issueID {
		t.Fatalf("listing should contain the created issue, got %v", issues)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	req := jsonRequest(http.MethodPost, "/api/auth/login",
		map[string]string{"username": "agent", "password": "wrong"}, "")
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestGuestCannotListCompanyIssues(t *testing.T) {
	env := newTestEnv(t)
	createIssue(t, env)

	guest := env.tokenFor(t, &domain.Account{ID: "acc-1", Username: "a@x.com", Role: domain.RoleGuest})
	req := jsonRequest(http.MethodGet, "/api/company/issues", nil, guest)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for guest, got %d", resp.StatusCode)
	}
}

func TestMessageFlowThroughAPI(t *testing.T) {
	env := newTestEnv(t)
	issueID := createIssue(t, env)

	owner := env.tokenFor(t, &domain.Account{ID: "acc-1", Username: "a@x.com", Role: domain.RoleGuest})

	// empty thread reads as not found
	req := jsonRequest(http.MethodGet, fmt.Sprintf("/api/company/issues/%s/messages", issueID), nil, owner)
	resp, err := env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for empty thread, got %d", resp.StatusCode)
	}

	req = jsonRequest(http.MethodPost, fmt.Sprintf("/api/company/issues/%s/messages", issueID),
		map[string]string{"message": "still broken"}, owner)
	resp, err = env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	if data["sender"] != "CUSTOMER" {
		t.Fatalf("guest post must record sender CUSTOMER, got %v", data["sender"])
	}

	req = jsonRequest(http.MethodGet, fmt.Sprintf("/api/company/issues/%s/messages", issueID), nil, owner)
	resp, err = env.app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 after post, got %d", resp.StatusCode)
	}
}
