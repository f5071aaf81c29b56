package directory

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/granohq/accessd/internal/entity"
	"github.com/granohq/accessd/pkg/config"
)

func newTestClient(url string) *Client {
	return NewClient(config.DirectoryConfig{
		ServiceURL:    url,
		Timeout:       time.Second,
		RetryAttempts: 1,
	})
}

func TestLoad(t *testing.T) {
	subjectID := uuid.Must(uuid.NewV4())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/internal/users/"+subjectID.String()+"/graph", r.URL.Path)
		require.Equal(t, "accessd", r.Header.Get("X-Service-Name"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"subject_id": "` + subjectID.String() + `",
			"is_super_admin": false,
			"roles": [
				{
					"name": "admin",
					"level": 50,
					"permissions": [
						{"module": "product", "action": "read"},
						{"module": "product", "action": "create"}
					]
				}
			]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	graph, err := client.Load(context.Background(), subjectID)
	require.NoError(t, err)

	require.Equal(t, subjectID, graph.SubjectID)
	require.False(t, graph.IsSuperAdmin)
	require.Len(t, graph.Roles, 1)
	require.Equal(t, "admin", graph.Roles[0].Name)
	require.Equal(t, 50, graph.Roles[0].Level)
	require.Equal(t, []entity.GraphPermission{
		{Module: "product", Action: entity.ActionRead},
		{Module: "product", Action: entity.ActionCreate},
	}, graph.Roles[0].Permissions)
}

func TestLoad_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Load(context.Background(), uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestLoad_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Load(context.Background(), uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, entity.ErrDirectoryUnavailable)
}

func TestLoad_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32

	subjectID := uuid.Must(uuid.NewV4())

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"subject_id": "` + subjectID.String() + `", "is_super_admin": true, "roles": []}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	graph, err := client.Load(context.Background(), subjectID)
	require.NoError(t, err)
	require.True(t, graph.IsSuperAdmin)
	require.EqualValues(t, 2, calls.Load())
}

func TestLoad_BadBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	_, err := client.Load(context.Background(), uuid.Must(uuid.NewV4()))
	require.ErrorIs(t, err, entity.ErrDirectoryUnavailable)
}
