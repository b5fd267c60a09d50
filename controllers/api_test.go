// controllers/api_test.go
package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visatrack/visatrack_backend/controllers"
	"github.com/visatrack/visatrack_backend/models"
	"github.com/visatrack/visatrack_backend/repositories"
	"github.com/visatrack/visatrack_backend/routes"
)

type testValidator struct {
	v *validator.Validate
}

func (tv *testValidator) Validate(i interface{}) error {
	return tv.v.Struct(i)
}

// newTestAPI spins the full router over a throwaway database. Skipped
// when MONGO_URI is unset.
func newTestAPI(t *testing.T) (*echo.Echo, *repositories.Storage) {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping API tests")
	}
	t.Setenv("JWT_SECRET", "test-secret")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("visatrack_api_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	store := repositories.NewStorage(db)

	e := echo.New()
	e.Validator = &testValidator{v: validator.New()}

	authController := controllers.NewAuthController(store)
	adminController := controllers.NewAdminController(store)
	agentController := controllers.NewAgentController(store)
	clientController := controllers.NewClientController(store)
	documentController := controllers.NewDocumentController(store)
	activityController := controllers.NewActivityController(store)

	routes.RegisterAuthRoutes(e, authController, activityController)
	routes.RegisterAdminRoutes(e, adminController)
	routes.RegisterAgentRoutes(e, agentController)
	routes.RegisterClientRoutes(e, clientController)
	routes.RegisterSharedRoutes(e, documentController, activityController)

	return e, store
}

func doJSON(t *testing.T, e *echo.Echo, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	out := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// signup registers a user and returns the session token and user id.
func signup(t *testing.T, e *echo.Echo, name, email, role string, adminID *int64) (string, int64) {
	t.Helper()

	body := map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"role":     role,
	}
	if adminID != nil {
		body["adminId"] = *adminID
	}
	rec := doJSON(t, e, http.MethodPost, "/api/auth/signup", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decodeBody(t, rec)
	token := out["token"].(string)
	user := out["user"].(map[string]interface{})
	return token, int64(user["id"].(float64))
}

func TestSignupAndLogin(t *testing.T) {
	e, _ := newTestAPI(t)

	_, adminID := signup(t, e, "Admin One", "admin1@example.com", "admin", nil)
	require.NotZero(t, adminID)

	// Duplicate email
	rec := doJSON(t, e, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"name": "Dup", "email": "admin1@example.com", "password": "secret123", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")

	// Agent signup without an admin
	rec = doJSON(t, e, http.MethodPost, "/api/auth/signup", "", map[string]interface{}{
		"name": "Lone Agent", "email": "lone@example.com", "password": "secret123", "role": "agent",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Please select an admin to work with")

	// Correct login
	rec = doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "admin1@example.com", "password": "secret123", "role": "admin",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Right password, wrong role
	rec = doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "admin1@example.com", "password": "secret123", "role": "agent",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid credentials")
}

func TestAgentProvisioningFlow(t *testing.T) {
	e, _ := newTestAPI(t)

	adminToken, _ := signup(t, e, "Admin", "admin@example.com", "admin", nil)

	rec := doJSON(t, e, http.MethodPost, "/api/admin/agents", adminToken, map[string]interface{}{
		"name": "Agent Smith", "email": "smith@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	created := decodeBody(t, rec)
	tempPassword := created["temporaryPassword"].(string)
	require.NotEmpty(t, tempPassword)
	assert.Equal(t, "10%", created["commissionRate"])
	assert.Equal(t, "Active", created["status"])

	// The temporary password logs in with the agent role
	rec = doJSON(t, e, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "smith@example.com", "password": tempPassword, "role": "agent",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	agentToken := decodeBody(t, rec)["token"].(string)

	// The agent provisions a client that lands in the same admin tree,
	// pre-assigned, with a seeded application
	rec = doJSON(t, e, http.MethodPost, "/api/agent/clients", agentToken, map[string]interface{}{
		"name": "Walk-in Client", "email": "walkin@example.com",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	clientCreated := decodeBody(t, rec)
	assert.Equal(t, created["adminId"], clientCreated["adminId"])
	assert.Equal(t, created["id"], clientCreated["agentId"])

	rec = doJSON(t, e, http.MethodGet, "/api/agent/applications", agentToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var apps []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apps))
	require.Len(t, apps, 1)
	assert.Equal(t, "F-1 Student", apps[0]["visaType"])
	assert.Equal(t, "United States", apps[0]["targetCountry"])
	assert.Equal(t, "Document Review", apps[0]["status"])

	// Agent moves the application through the workflow
	appID := int64(apps[0]["id"].(float64))
	rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/agent/applications/%d/status", appID), agentToken, map[string]interface{}{
		"status": "Approved",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/agent/applications/%d/status", appID), agentToken, map[string]interface{}{
		"status": "Bogus",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChooseAgentCrossAdminRejected(t *testing.T) {
	e, _ := newTestAPI(t)

	_, admin1 := signup(t, e, "Admin One", "admin1@example.com", "admin", nil)
	_, admin2 := signup(t, e, "Admin Two", "admin2@example.com", "admin", nil)

	agentToken, _ := signup(t, e, "Agent", "agent@example.com", "agent", &admin1)
	_ = agentToken
	clientToken, _ := signup(t, e, "Client", "client@example.com", "client", &admin2)

	// The only agent in the system belongs to admin1; the client to admin2
	rec := doJSON(t, e, http.MethodPatch, "/api/client/choose-agent", clientToken, map[string]interface{}{
		"agentId": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "You can only choose agents from your assigned admin")

	// A nonexistent agent is a 404, not a 403
	rec = doJSON(t, e, http.MethodPatch, "/api/client/choose-agent", clientToken, map[string]interface{}{
		"agentId": 9999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAssignAgentValidation(t *testing.T) {
	e, store := newTestAPI(t)

	adminToken, adminID := signup(t, e, "Admin", "admin@example.com", "admin", nil)
	clientToken, clientUserID := signup(t, e, "Client", "client@example.com", "client", &adminID)

	rec := doJSON(t, e, http.MethodPost, "/api/client/applications", clientToken, map[string]interface{}{
		"visaType": "H-1B", "targetCountry": "United States",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	appID := int64(decodeBody(t, rec)["id"].(float64))

	rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/admin/applications/%d/assign-agent", appID), adminToken, map[string]interface{}{
		"agentId": 9999,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Agent not found")

	// An agent under a different admin exists but may not be attached
	_, admin2ID := signup(t, e, "Admin Two", "admin2@example.com", "admin", nil)
	_, outsiderUserID := signup(t, e, "Outside Agent", "outside@example.com", "agent", &admin2ID)

	ctx := context.Background()
	outsider, err := store.GetAgentByUserID(ctx, outsiderUserID)
	require.NoError(t, err)

	rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/admin/applications/%d/assign-agent", appID), adminToken, map[string]interface{}{
		"agentId": outsider.ID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")

	// The rejected assignment left no link behind
	client, err := store.GetClientByUserID(ctx, clientUserID)
	require.NoError(t, err)
	assert.Nil(t, client.AgentID)

	// Role gate: the client cannot reach the admin surface at all
	rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/admin/applications/%d/assign-agent", appID), clientToken, map[string]interface{}{
		"agentId": 1,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unauthorized")
}

func TestApplicationProgressBounds(t *testing.T) {
	e, _ := newTestAPI(t)

	_, adminID := signup(t, e, "Admin", "admin@example.com", "admin", nil)
	clientToken, _ := signup(t, e, "Client", "client@example.com", "client", &adminID)

	rec := doJSON(t, e, http.MethodPost, "/api/client/applications", clientToken, map[string]interface{}{
		"visaType": "H-1B", "targetCountry": "United States",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	appID := int64(decodeBody(t, rec)["id"].(float64))

	progressPath := fmt.Sprintf("/api/client/applications/%d/progress", appID)

	for _, bad := range []int{-5, 101, 150} {
		rec = doJSON(t, e, http.MethodPatch, progressPath, clientToken, map[string]interface{}{
			"progress": bad,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code, "progress %d", bad)
		assert.Contains(t, rec.Body.String(), "Progress must be between 0 and 100")
	}

	for _, good := range []int{0, 50, 100} {
		rec = doJSON(t, e, http.MethodPatch, progressPath, clientToken, map[string]interface{}{
			"progress": good, "lastAction": "Documents uploaded",
		})
		assert.Equal(t, http.StatusOK, rec.Code, "progress %d", good)
	}
}

func TestDocumentReviewAuthorization(t *testing.T) {
	e, store := newTestAPI(t)

	adminToken, adminID := signup(t, e, "Admin", "admin@example.com", "admin", nil)
	ownerToken, ownerUserID := signup(t, e, "Assigned Agent", "assigned@example.com", "agent", &adminID)
	otherToken, _ := signup(t, e, "Other Agent", "other@example.com", "agent", &adminID)
	clientToken, clientUserID := signup(t, e, "Client", "client@example.com", "client", &adminID)

	ctx := context.Background()
	owner, err := store.GetAgentByUserID(ctx, ownerUserID)
	require.NoError(t, err)
	client, err := store.GetClientByUserID(ctx, clientUserID)
	require.NoError(t, err)

	rec := doJSON(t, e, http.MethodPatch, "/api/client/choose-agent", clientToken, map[string]interface{}{
		"agentId": owner.ID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodPost, "/api/documents", clientToken, map[string]interface{}{
		"ownerType": "client", "ownerId": client.ID,
		"name": "Bank Statement", "type": "financial",
		"path": "https://cdn.example.com/docs/statement.pdf",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	docID := int64(decodeBody(t, rec)["id"].(float64))

	statusPath := fmt.Sprintf("/api/documents/%d/status", docID)

	// An agent the client is not assigned to cannot review
	rec = doJSON(t, e, http.MethodPatch, statusPath, otherToken, map[string]interface{}{
		"status": "Approved",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Access denied")

	// The assigned agent can
	rec = doJSON(t, e, http.MethodPatch, statusPath, ownerToken, map[string]interface{}{
		"status": "Under Review", "notes": "Checking the totals",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// So can the admin over the whole tree
	rec = doJSON(t, e, http.MethodPatch, statusPath, adminToken, map[string]interface{}{
		"status": "Approved",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	doc, err := store.GetDocumentByID(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, models.DocumentStatusApproved, doc.Status)

	// The assigned agent sees the document in the all-clients listing;
	// the other agent sees nothing
	rec = doJSON(t, e, http.MethodGet, "/api/agent/documents", ownerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Bank Statement", docs[0]["name"])

	rec = doJSON(t, e, http.MethodGet, "/api/agent/documents", otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	docs = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Empty(t, docs)
}

func TestCommissionStatusFlow(t *testing.T) {
	e, store := newTestAPI(t)

	adminToken, adminID := signup(t, e, "Admin", "admin@example.com", "admin", nil)
	_, agentUserID := signup(t, e, "Agent", "agent@example.com", "agent", &adminID)
	_, clientUserID := signup(t, e, "Client", "client@example.com", "client", &adminID)

	ctx := context.Background()
	agent, err := store.GetAgentByUserID(ctx, agentUserID)
	require.NoError(t, err)
	client, err := store.GetClientByUserID(ctx, clientUserID)
	require.NoError(t, err)

	commission, err := store.CreateCommission(ctx, agent.ID, client.ID, "$1,500", "")
	require.NoError(t, err)
	assert.Equal(t, models.CommissionStatusPending, commission.Status)

	rec := doJSON(t, e, http.MethodGet, "/api/admin/commissions", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decodeBody(t, rec)
	totals := out["totals"].(map[string]interface{})
	assert.Equal(t, 1500.0, totals["pending"])
	assert.Equal(t, 0.0, totals["paid"])

	rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/admin/commissions/%d/status", commission.ID), adminToken, map[string]interface{}{
		"status": "Bogus",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodPatch, fmt.Sprintf("/api/admin/commissions/%d/status", commission.ID), adminToken, map[string]interface{}{
		"status": "Paid",
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, e, http.MethodGet, "/api/admin/commissions", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	totals = decodeBody(t, rec)["totals"].(map[string]interface{})
	assert.Equal(t, 0.0, totals["pending"])
	assert.Equal(t, 1500.0, totals["paid"])
}

func TestDocumentURLValidation(t *testing.T) {
	e, _ := newTestAPI(t)

	_, adminID := signup(t, e, "Admin", "admin@example.com", "admin", nil)
	clientToken, clientUserID := signup(t, e, "Client", "client@example.com", "client", &adminID)
	_ = clientUserID

	// The client's own entity id is 1: first client row in a fresh db
	upload := func(path string) *httptest.ResponseRecorder {
		return doJSON(t, e, http.MethodPost, "/api/documents", clientToken, map[string]interface{}{
			"ownerType": "client", "ownerId": 1,
			"name": "Passport", "type": "passport", "path": path,
		})
	}

	rec := upload("javascript:alert(1)")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only http:// and https:// URLs are allowed")

	rec = upload("https://drive.google.com/file/d/abc/view")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Pending", decodeBody(t, rec)["status"])

	rec = doJSON(t, e, http.MethodGet, "/api/documents/my", clientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var docs []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
	assert.Len(t, docs, 1)
}

func TestActivityFeedScoping(t *testing.T) {
	e, _ := newTestAPI(t)

	adminToken, adminID := signup(t, e, "Admin", "admin@example.com", "admin", nil)
	clientToken, _ := signup(t, e, "Client", "client@example.com", "client", &adminID)

	rec := doJSON(t, e, http.MethodPost, "/api/client/applications", clientToken, map[string]interface{}{
		"visaType": "B-2 Tourist", "targetCountry": "Canada",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// The client sees their own submission
	rec = doJSON(t, e, http.MethodGet, "/api/activities", clientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, "application_submitted", feed[0]["activityType"])

	// The admin feed covers only the admin's own actions
	rec = doJSON(t, e, http.MethodGet, "/api/activities", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	feed = nil
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &feed))
	assert.Empty(t, feed)
}
