// Package commerce is the gateway's only door to the remote commerce
// platform: a thin wrapper over its GraphQL Admin API. Validation failures
// come back as userErrors data, never as Go errors; Go errors mean the
// transport or the query itself broke.
package commerce

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"

	"github.com/shopadm/admin-gateway/internal/domain"
)

const accessTokenHeader = "X-Shopify-Access-Token"

type Config struct {
	Endpoint    string
	AccessToken string
	Timeout     time.Duration
}

type Client struct {
	gql    *graphql.Client
	token  string
	logger *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	hc := &http.Client{Timeout: cfg.Timeout}
	return &Client{
		gql:    graphql.NewClient(cfg.Endpoint, graphql.WithHTTPClient(hc)),
		token:  cfg.AccessToken,
		logger: logger,
	}
}

// run executes one GraphQL request with the shop access token attached.
func (c *Client) run(ctx context.Context, req *graphql.Request, resp interface{}) error {
	req.Header.Set(accessTokenHeader, c.token)
	req.Header.Set("Content-Type", "application/json")
	if err := c.gql.Run(ctx, req, resp); err != nil {
		c.logger.Warn("commerce api call failed", zap.Error(err))
		return err
	}
	return nil
}

// userError mirrors the wire shape of the platform's validation errors.
type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

func toDomainErrors(errs []userError) []domain.UserError {
	out := make([]domain.UserError, 0, len(errs))
	for _, e := range errs {
		out = append(out, domain.UserError{Field: e.Field, Message: e.Message})
	}
	return out
}

// The admin console addresses resources by bare numeric IDs; the platform
// wants fully-qualified GIDs.
func gid(resource, id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return "gid://shopify/" + resource + "/" + id
}
