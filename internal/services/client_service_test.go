package services

import (
	"context"
	"sync"
	"testing"

	"facture-backend/internal/models"
	"facture-backend/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingNotifier captures change events for assertions
type recordingNotifier struct {
	mu     sync.Mutex
	events []string
}

func (n *recordingNotifier) Notify(userID int, entity, view string) {
	n.mu.Lock()
	n.events = append(n.events, entity+"/"+view)
	n.mu.Unlock()
}

func (n *recordingNotifier) NotifyBoth(userID int, entity string) {
	n.Notify(userID, entity, realtime.ViewActive)
	n.Notify(userID, entity, realtime.ViewTrash)
}

func TestCreateClientValidation(t *testing.T) {
	svc := NewClientService(newFakeClientRepo())
	ctx := context.Background()

	_, err := svc.CreateClient(ctx, 1, &models.CreateClientRequest{Name: "", Email: "a@b.fr"})
	assert.Error(t, err)

	_, err = svc.CreateClient(ctx, 1, &models.CreateClientRequest{Name: "Acme", Email: ""})
	assert.Error(t, err)

	client, err := svc.CreateClient(ctx, 1, &models.CreateClientRequest{Name: "Acme", Email: "a@b.fr"})
	require.NoError(t, err)
	assert.NotZero(t, client.ID)
}

func TestClientScopedToUser(t *testing.T) {
	svc := NewClientService(newFakeClientRepo())
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, 1, &models.CreateClientRequest{Name: "Acme", Email: "a@b.fr"})
	require.NoError(t, err)

	_, err = svc.GetClient(ctx, 2, client.ID)
	assert.Error(t, err, "records are invisible across users")

	mine, _ := svc.ListClients(ctx, 1)
	theirs, _ := svc.ListClients(ctx, 2)
	assert.Len(t, mine, 1)
	assert.Empty(t, theirs)
}

func TestClientTrashLifecycle(t *testing.T) {
	svc := NewClientService(newFakeClientRepo())
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, 1, &models.CreateClientRequest{
		Name: "Acme", Email: "a@b.fr", Phone: "0612345678", Address: "1 rue de la Paix",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClient(ctx, 1, client.ID))
	active, _ := svc.ListClients(ctx, 1)
	trashed, _ := svc.ListTrashedClients(ctx, 1)
	assert.Empty(t, active)
	require.Len(t, trashed, 1)

	// Restore preserves every field
	require.NoError(t, svc.RestoreClient(ctx, 1, client.ID))
	active, _ = svc.ListClients(ctx, 1)
	require.Len(t, active, 1)
	assert.Equal(t, "Acme", active[0].Name)
	assert.Equal(t, "a@b.fr", active[0].Email)
	assert.Equal(t, "0612345678", active[0].Phone)
	assert.Equal(t, "1 rue de la Paix", active[0].Address)
}

func TestClientPurgeTrash(t *testing.T) {
	svc := NewClientService(newFakeClientRepo())
	ctx := context.Background()

	kept, err := svc.CreateClient(ctx, 1, &models.CreateClientRequest{Name: "Keep", Email: "k@b.fr"})
	require.NoError(t, err)
	a, err := svc.CreateClient(ctx, 1, &models.CreateClientRequest{Name: "A", Email: "a@b.fr"})
	require.NoError(t, err)
	b, err := svc.CreateClient(ctx, 1, &models.CreateClientRequest{Name: "B", Email: "b@b.fr"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClient(ctx, 1, a.ID))
	require.NoError(t, svc.DeleteClient(ctx, 1, b.ID))

	n, err := svc.PurgeTrash(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	active, _ := svc.ListClients(ctx, 1)
	trashed, _ := svc.ListTrashedClients(ctx, 1)
	require.Len(t, active, 1)
	assert.Equal(t, kept.ID, active[0].ID)
	assert.Empty(t, trashed)
}

func TestClientNotifications(t *testing.T) {
	svc := NewClientService(newFakeClientRepo())
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	ctx := context.Background()

	client, err := svc.CreateClient(ctx, 1, &models.CreateClientRequest{Name: "Acme", Email: "a@b.fr"})
	require.NoError(t, err)
	assert.Equal(t, []string{"clients/active"}, notifier.events)

	notifier.events = nil
	require.NoError(t, svc.DeleteClient(ctx, 1, client.ID))
	assert.Equal(t, []string{"clients/active", "clients/trash"}, notifier.events,
		"soft delete changes both views")
}
