package autor

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/acervo/autorctl/internal/k8s"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8080"
	AuthorPath     = "/autor"
)

// ErrFetchAuthor is returned for every failed round trip, whether the
// server answered with a non-success status or could not be reached.
var ErrFetchAuthor = errors.New("failed to fetch author")

var basePathAnnotation = "autorctl.acervo.dev/basePath"
var portAnnotation = "autorctl.acervo.dev/port"

type autorClient struct {
	httpClient HTTPClient
}

var _ Client = (*autorClient)(nil)

// Options configures the resty client behind a Client. Zero values mean the
// local endpoint, no timeout and the default transport.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
	Logger    *zap.SugaredLogger
}

func NewClient(opts Options) Client {
	return &autorClient{httpClient: newRestyHTTPClient(newRestyClient(opts))}
}

// NewPodClient reaches the backend running in podName through a port-forward.
func NewPodClient(ctx context.Context, transportFactory k8s.TransportFactory, k8sClient k8s.Client, podName string, opts Options) (Client, error) {
	pod, err := k8sClient.GetPod(ctx, k8sClient.Namespace(), podName)
	if err != nil {
		return nil, err
	}

	basePath := pod.Annotations[basePathAnnotation]

	portStr, ok := pod.Annotations[portAnnotation]
	if !ok {
		portStr = "8080"
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid port (%s annotation): %w", portAnnotation, err)
	}
	if port < 1 || port > 65535 {
		return nil, fmt.Errorf("port must be between 1-65535, got %d (%s annotation)", port, portAnnotation)
	}

	transport, err := transportFactory.CreateHttpTransport(podName, port)
	if err != nil {
		return nil, err
	}

	opts.Transport = transport
	opts.BaseURL = "http://port-forwarded-autor/" + strings.Trim(basePath, "/")
	return NewClient(opts), nil
}

// FetchAuthor fetches the author from the local endpoint with a fresh client.
func FetchAuthor(ctx context.Context) (any, error) {
	return NewClient(Options{}).FetchAuthor(ctx)
}

func newRestyClient(opts Options) *resty.Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := resty.New().SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	if opts.Transport != nil {
		client.SetTransport(opts.Transport)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Logger != nil {
		log := opts.Logger
		client.SetLogger(log)
		client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
			log.Debugw("response received",
				"method", resp.Request.Method,
				"url", resp.Request.URL,
				"status", resp.StatusCode(),
				"elapsed", resp.Time(),
			)
			return nil
		})
	}
	return client
}
