package cmd

import (
	"context"

	"github.com/acervo/autorctl/internal/autor"
	"github.com/acervo/autorctl/internal/k8s"
)

type localClientFactory struct {
	opts autor.Options
}

var _ autor.ClientFactory = (*localClientFactory)(nil)

func (f *localClientFactory) NewClient(context.Context, string) (autor.Client, error) {
	return autor.NewClient(f.opts), nil
}

type podClientFactory struct {
	connection *k8s.Connection
	opts       autor.Options
}

var _ autor.ClientFactory = (*podClientFactory)(nil)

func (f *podClientFactory) NewClient(ctx context.Context, pod string) (autor.Client, error) {
	return autor.NewPodClient(ctx, f.connection, f.connection, pod, f.opts)
}
