package mocks

import (
	"context"

	"shaper-sync/core/routeros"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of routeros.Client
type Client struct {
	mock.Mock
}

func (m *Client) FetchResource(ctx context.Context, path string, filters map[string]string) ([]routeros.Record, error) {
	args := m.Called(ctx, path, filters)
	var records []routeros.Record
	if v := args.Get(0); v != nil {
		records = v.([]routeros.Record)
	}
	return records, args.Error(1)
}
