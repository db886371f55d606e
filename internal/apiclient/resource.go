package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

// Thin generic helpers shared by the per resource wrappers.

func list[T any](ctx context.Context, a *API, path, key string, query url.Values) ([]T, error) {
	body, err := a.do(ctx, &request{method: http.MethodGet, path: path, query: query})
	if err != nil {
		return nil, err
	}
	return decodeList[T](body, key)
}

func get[T any](ctx context.Context, a *API, path, key string) (T, error) {
	var zero T
	body, err := a.do(ctx, &request{method: http.MethodGet, path: path})
	if err != nil {
		return zero, err
	}
	return decodeItem[T](body, key)
}

func write[T any](ctx context.Context, a *API, method, path, key string, payload interface{}) (T, error) {
	var zero T
	req, err := jsonRequest(method, path, payload)
	if err != nil {
		return zero, err
	}
	body, err := a.do(ctx, req)
	if err != nil {
		return zero, err
	}
	return decodeItem[T](body, key)
}

func remove(ctx context.Context, a *API, path string) error {
	_, err := a.do(ctx, &request{method: http.MethodDelete, path: path})
	return err
}

// itemPath joins a collection path and an escaped identifier
func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
