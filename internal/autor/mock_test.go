package autor

import "context"

type MockHTTPClient struct {
	GetFunc func(ctx context.Context, path string) (*Response, error)
}

var _ HTTPClient = (*MockHTTPClient)(nil)

func (m *MockHTTPClient) Get(ctx context.Context, path string) (*Response, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, path)
	}
	return &Response{Body: nil, StatusCode: 200, Status: "200 OK"}, nil
}
