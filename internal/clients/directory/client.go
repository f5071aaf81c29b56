// Package directory is the remote Directory Reader: it fetches the
// authorization graph from a separate user service over HTTP, for
// deployments where this service does not own the user store.
package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/granohq/accessd/internal/entity"
	"github.com/granohq/accessd/pkg/config"
)

const defaultRetryWaitMax = time.Second * 5

type Client struct {
	client *http.Client
	url    string
}

func NewClient(cfg config.DirectoryConfig) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.RetryAttempts
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = defaultRetryWaitMax
	retryClient.HTTPClient.Timeout = cfg.Timeout

	retryClient.Logger = nil

	return &Client{
		client: retryClient.StandardClient(),
		url:    cfg.ServiceURL,
	}
}

type graphResponse struct {
	SubjectID    uuid.UUID `json:"subject_id"`
	IsSuperAdmin bool      `json:"is_super_admin"`
	Roles        []struct {
		Name        string `json:"name"`
		Level       int    `json:"level"`
		Permissions []struct {
			Module string `json:"module"`
			Action string `json:"action"`
		} `json:"permissions"`
	} `json:"roles"`
}

// Load fetches the subject's graph. 404 maps to entity.ErrUserNotFound;
// transport errors and every other status map to
// entity.ErrDirectoryUnavailable.
func (c *Client) Load(ctx context.Context, subjectID uuid.UUID) (entity.UserGraph, error) {
	url := fmt.Sprintf("%s/internal/users/%s/graph", c.url, subjectID)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return entity.UserGraph{}, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("X-Service-Name", "accessd")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return entity.UserGraph{}, fmt.Errorf("%w: send request: %w", entity.ErrDirectoryUnavailable, err)
	}

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return entity.UserGraph{}, fmt.Errorf("%w: read body: %w", entity.ErrDirectoryUnavailable, err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return entity.UserGraph{}, entity.ErrUserNotFound
	}

	if resp.StatusCode != http.StatusOK {
		return entity.UserGraph{}, fmt.Errorf("%w: code %d: %s", entity.ErrDirectoryUnavailable, resp.StatusCode, body)
	}

	var data graphResponse

	err = json.Unmarshal(body, &data)
	if err != nil {
		return entity.UserGraph{}, fmt.Errorf("%w: decode response: %w", entity.ErrDirectoryUnavailable, err)
	}

	graph := entity.UserGraph{
		SubjectID:    subjectID,
		IsSuperAdmin: data.IsSuperAdmin,
		Roles:        make([]entity.GraphRole, 0, len(data.Roles)),
	}

	for _, role := range data.Roles {
		gr := entity.GraphRole{
			Name:        role.Name,
			Level:       role.Level,
			Permissions: make([]entity.GraphPermission, 0, len(role.Permissions)),
		}

		for _, perm := range role.Permissions {
			gr.Permissions = append(gr.Permissions, entity.GraphPermission{
				Module: perm.Module,
				Action: entity.Action(perm.Action),
			})
		}

		graph.Roles = append(graph.Roles, gr)
	}

	return graph, nil
}
