package autor

import "context"

type Client interface {
	FetchAuthor(ctx context.Context) (any, error)
	GetRaw(ctx context.Context, endpoint string) ([]byte, error)
}

type HTTPClient interface {
	Get(ctx context.Context, path string) (*Response, error)
}

type ClientFactory interface {
	NewClient(ctx context.Context, target string) (Client, error)
}
