package middleware

import (
	"github.com/danielgtaylor/huma/v2"
)

// Func - мидлварь уровня операции huma
type Func = func(ctx huma.Context, next func(huma.Context))

// Chain holds the operation middlewares shared by every route group.
// Each group takes its own copy via For, so extras never leak between groups.
type Chain struct {
	base huma.Middlewares
}

func NewChain(base ...Func) *Chain {
	c := &Chain{base: make(huma.Middlewares, 0, len(base))}
	return c.Use(base...)
}

// Use добавляет мидлвари в общую часть цепочки
func (c *Chain) Use(mws ...Func) *Chain {
	for _, mw := range mws {
		if mw != nil {
			c.base = append(c.base, mw)
		}
	}
	return c
}

// For returns the shared middlewares followed by extra, as a fresh slice.
func (c *Chain) For(extra ...Func) huma.Middlewares {
	out := make(huma.Middlewares, 0, len(c.base)+len(extra))
	out = append(out, c.base...)
	for _, mw := range extra {
		if mw != nil {
			out = append(out, mw)
		}
	}
	return out
}

// NoStore запрещает кэширование ответа
func NoStore(ctx huma.Context, next func(huma.Context)) {
	ctx.SetHeader("Cache-Control", "no-store")
	next(ctx)
}
