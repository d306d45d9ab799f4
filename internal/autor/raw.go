package autor

import (
	"context"
	"fmt"
)

func (c *autorClient) GetRaw(ctx context.Context, endpoint string) ([]byte, error) {
	if endpoint != "" && endpoint[0] != '/' {
		endpoint = "/" + endpoint
	}

	resp, err := c.httpClient.Get(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if resp.IsErrorStatus() {
		return nil, fmt.Errorf("failed to get endpoint %s: %s", endpoint, resp.Status)
	}

	return resp.Body, nil
}
