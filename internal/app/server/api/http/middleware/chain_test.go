package middleware

import (
	"context"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tag(name string, seen *[]string) Func {
	return func(ctx huma.Context, next func(huma.Context)) {
		*seen = append(*seen, name)
		next(ctx)
	}
}

func TestChain_For(t *testing.T) {
	var seen []string
	c := NewChain(tag("base", &seen), nil)

	a := c.For(tag("a", &seen))
	b := c.For()
	c.Use(tag("late", &seen))

	require.Len(t, a, 2)
	require.Len(t, b, 1)
	assert.Len(t, c.For(), 2)

	// группы не делят backing array
	a[0] = nil
	assert.NotNil(t, c.For()[0])

	noop := func(huma.Context) {}
	for _, mw := range c.For(tag("x", &seen)) {
		mw(nil, noop)
	}
	assert.Equal(t, []string{"base", "late", "x"}, seen)
}

func TestNoStore(t *testing.T) {
	_, api := humatest.New(t)
	huma.Register(api, huma.Operation{
		OperationID: "ping",
		Method:      http.MethodGet,
		Path:        "/ping",
		Middlewares: NewChain(NoStore).For(),
	}, func(ctx context.Context, _ *struct{}) (*struct{}, error) {
		return nil, nil
	})

	resp := api.Get("/ping")
	assert.Less(t, resp.Code, 300)
	assert.Equal(t, "no-store", resp.Header().Get("Cache-Control"))
}
