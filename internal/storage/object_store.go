package storage

import "context"

//go:generate mockgen -source=object_store.go -destination=mock/object_store_mock.go -package=mock
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}
