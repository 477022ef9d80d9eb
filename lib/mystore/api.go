package mystore

import (
	"context"
	"fmt"
	"os"
	"strings"
)

type ctxTransactionKey struct{}

//go:generate mockgen -source=api.go -package mystore -destination store_mock.go Store
type Store[T any] interface {
	RunInTransaction(c context.Context, f func(c context.Context) error) error
	Put(c context.Context, uid string, value T) error
	Get(c context.Context, uid string) (T, bool, error)
	Delete(c context.Context, uid string) error
	List(c context.Context) ([]T, error)
}

// New picks the backend from the environment: Google Cloud Datastore when
// GOOGLE_CLOUD_PROJECT is set, Redis when REDIS_ADDR is set, process memory
// otherwise.
func New[T any](c context.Context) (Store[T], func(), error) {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		return newGcloudStore[T](c, os.Getenv("GOOGLE_CLOUD_PROJECT"))
	}

	if addr := strings.TrimSpace(os.Getenv("REDIS_ADDR")); addr != "" {
		return newRedisStore[T](c, addr)
	}

	return NewInMemoryStore[T](c)
}

// kindOf derives the entity kind from the unqualified type name of T.
func kindOf[T any]() string {
	val := new(T)
	kind := fmt.Sprintf("%T", *val)
	if idx := strings.LastIndex(kind, "."); idx >= 0 {
		kind = kind[idx+1:]
	}
	return kind
}
