package testsupport

import "context"

type contextKey int

const (
	userIDKey contextKey = iota
	requestIndexKey
)

func withUserID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

func userID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func withRequestIndex(ctx context.Context, idx int) context.Context {
	return context.WithValue(ctx, requestIndexKey, idx)
}

func requestIndex(ctx context.Context) (int, bool) {
	idx, ok := ctx.Value(requestIndexKey).(int)
	return idx, ok
}
