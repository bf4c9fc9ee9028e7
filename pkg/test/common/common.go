package common_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deskops/helpdesk-groups/pkg/app"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/require"
	testcontainers "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ListenAddress = "127.0.0.1:8089"
	Database      = "helpdesk_test"
)

type TestCase struct {
	Mongo  testcontainers.Container
	Client *mongo.Client
}

func (tst *TestCase) ContainerLogs(ctx context.Context, t *testing.T) string {
	require := require.New(t)

	logs, err := tst.Mongo.Logs(ctx)
	require.NoError(err)

	t.Cleanup(func() { _ = logs.Close() })

	logData, err := io.ReadAll(logs)
	require.NoError(err)

	return string(logData)
}

// AddTicket stores a ticket whose group is referenced as a hex string.
func (tst *TestCase) AddTicket(ctx context.Context, t *testing.T, groupID string, deleted bool) {
	tst.insertTicket(ctx, t, groupID, deleted)
}

// AddHelpdeskTicket stores a ticket the way the helpdesk itself does, with an ObjectId group reference.
func (tst *TestCase) AddHelpdeskTicket(ctx context.Context, t *testing.T, groupID string) {
	oid, err := primitive.ObjectIDFromHex(groupID)
	require.NoError(t, err)

	tst.insertTicket(ctx, t, oid, false)
}

func (tst *TestCase) insertTicket(ctx context.Context, t *testing.T, group interface{}, deleted bool) {
	_, err := tst.Client.Database(Database).Collection("tickets").InsertOne(ctx, bson.M{
		"uid":     time.Now().UnixNano(),
		"subject": "Printer on fire",
		"group":   group,
		"deleted": deleted,
	})
	require.NoError(t, err)
}

// RemoveTickets deletes every ticket assigned to groupID, in either reference form.
func (tst *TestCase) RemoveTickets(ctx context.Context, t *testing.T, groupID string) {
	refs := bson.A{groupID}
	if oid, err := primitive.ObjectIDFromHex(groupID); err == nil {
		refs = append(refs, oid)
	}

	_, err := tst.Client.Database(Database).Collection("tickets").DeleteMany(ctx, bson.M{"group": bson.M{"$in": refs}})
	require.NoError(t, err)
}

func MongoImage() string {
	image := os.Getenv("MONGO_TEST_IMAGE")
	if image != "" {
		return image
	}

	return "mongo:7"
}

func TestSetup(t *testing.T) TestCase {
	ctx, cancel := context.WithCancel(context.Background())

	t.Logf("\nTEST CONTAINER IMAGE: %q\n", MongoImage())

	req := testcontainers.ContainerRequest{
		Image:        MongoImage(),
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForExposedPort(),
			wait.ForLog("Waiting for connections"),
		).WithStartupTimeoutDefault(300 * time.Second),
	}

	mongoContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	addr, err := MappedAddr(ctx, mongoContainer, "27017")
	require.NoError(t, err)

	uri := "mongodb://" + addr
	t.Setenv("HELPDESK_GROUPS_MONGO_URI", uri)

	cfgPath, err := filepath.Abs("assets/config/groups.yaml")
	require.NoError(t, err)

	srv, err := app.NewGroupsServer(cfgPath, os.Stdout, os.Stderr)
	require.NoError(t, err)

	go func() {
		_ = srv.Run(ctx)
	}()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ListenAddress + "/healthz") //nolint:noctx
		if err != nil {
			return false
		}
		defer resp.Body.Close()

		return resp.StatusCode == http.StatusOK
	}, 30*time.Second, 250*time.Millisecond)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)

	t.Cleanup(func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = srv.Shutdown(shutdownCtx)
		_ = client.Disconnect(shutdownCtx)
		testcontainers.CleanupContainer(t, mongoContainer)
		cancel()
	})

	return TestCase{
		Mongo:  mongoContainer,
		Client: client,
	}
}

func MappedAddr(ctx context.Context, container testcontainers.Container, port string) (string, error) {
	host, err := container.Host(ctx)
	if err != nil {
		return "", err
	}

	mappedPort, err := container.MappedPort(ctx, nat.Port(port))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s:%s", host, mappedPort.Port()), nil
}
