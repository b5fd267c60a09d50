// repositories/storage_test.go
package repositories

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/visatrack/visatrack_backend/models"
)

// testStorage connects to the Mongo named by MONGO_URI and hands back a
// storage layer over a throwaway database. Skipped when no Mongo is up.
func testStorage(t *testing.T) *Storage {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping storage tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	db := client.Database("visatrack_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})

	return NewStorage(db)
}

func TestNextSequenceMonotonic(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	for want := int64(1); want <= 5; want++ {
		got, err := store.NextSequence(ctx, "users")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// Independent counters per collection
	got, err := store.NextSequence(ctx, "agents")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestNextSequenceConcurrent(t *testing.T) {
	store := testStorage(t)

	const workers = 20
	ids := make(chan int64, workers)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := store.NextSequence(context.Background(), "applications")
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestUserLifecycle(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "Jane Admin", "jane@example.com", "hash", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)

	byEmail, err := store.GetUserByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	_, err = store.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.UpdateUserName(ctx, user.ID, "Jane A."))
	renamed, err := store.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane A.", renamed.Name)

	require.NoError(t, store.DeleteUser(ctx, user.ID))
	_, err = store.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAgentDefaults(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	admin, err := store.CreateUser(ctx, "Admin", "admin@example.com", "hash", models.RoleAdmin)
	require.NoError(t, err)
	agentUser, err := store.CreateUser(ctx, "Agent", "agent@example.com", "hash", models.RoleAgent)
	require.NoError(t, err)

	agent, err := store.CreateAgent(ctx, agentUser.ID, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "10%", agent.CommissionRate)
	assert.Equal(t, models.AgentStatusActive, agent.Status)
	assert.Nil(t, agent.CommissionAmount)

	amount := 500.0
	require.NoError(t, store.UpdateAgentCommission(ctx, agent.ID, "15%", &amount))
	updated, err := store.GetAgentByID(ctx, agent.ID)
	require.NoError(t, err)
	assert.Equal(t, "15%", updated.CommissionRate)
	require.NotNil(t, updated.CommissionAmount)
	assert.Equal(t, 500.0, *updated.CommissionAmount)

	// Clearing the fixed fee
	require.NoError(t, store.UpdateAgentCommission(ctx, agent.ID, "12%", nil))
	updated, err = store.GetAgentByID(ctx, agent.ID)
	require.NoError(t, err)
	assert.Nil(t, updated.CommissionAmount)
}

func TestClientAssignment(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	admin, err := store.CreateUser(ctx, "Admin", "admin@example.com", "hash", models.RoleAdmin)
	require.NoError(t, err)
	agentUser, err := store.CreateUser(ctx, "Agent", "agent@example.com", "hash", models.RoleAgent)
	require.NoError(t, err)
	clientUser, err := store.CreateUser(ctx, "Client", "client@example.com", "hash", models.RoleClient)
	require.NoError(t, err)

	agent, err := store.CreateAgent(ctx, agentUser.ID, admin.ID)
	require.NoError(t, err)
	client, err := store.CreateClient(ctx, clientUser.ID, admin.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, client.AgentID)

	require.NoError(t, store.AssignAgentToClient(ctx, client.ID, agent.ID))

	assigned, err := store.GetClientsByAgentID(ctx, agent.ID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, client.ID, assigned[0].ID)
	assert.Equal(t, "Client", assigned[0].User.Name)

	// Active client count derived at read time
	agents, err := store.GetAgentsByAdminID(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, agents, 1)
	assert.Equal(t, int64(1), agents[0].ActiveClients)
}

func TestClearAllData(t *testing.T) {
	store := testStorage(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.CreateUser(ctx, "U", fmt.Sprintf("u%d@example.com", i), "hash", models.RoleAdmin)
		require.NoError(t, err)
	}

	require.NoError(t, store.ClearAllData(ctx))

	_, err := store.GetUserByEmail(ctx, "u0@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	// Counters reset with the data
	id, err := store.NextSequence(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
}
