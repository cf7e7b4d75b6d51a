package cache

import (
	"context"
	"fmt"
)

// 命名空间版本号缓存键。失效时只递增版本号，旧键随 TTL 自然过期。

func namespaceVersionKey(namespace string) string {
	return fmt.Sprintf("ns:%s:version", namespace)
}

// NamespaceVersion 获取命名空间当前版本号，缓存未启用或无记录时为 0
func NamespaceVersion(ctx context.Context, namespace string) int64 {
	if !Enabled() {
		return 0
	}
	val, err := redisClient.Get(ctx, buildKey(namespaceVersionKey(namespace))).Int64()
	if err != nil {
		return 0
	}
	return val
}

// BumpNamespace 递增命名空间版本号，使该命名空间下全部缓存键失效
func BumpNamespace(ctx context.Context, namespace string) error {
	if !Enabled() {
		return nil
	}
	return redisClient.Incr(ctx, buildKey(namespaceVersionKey(namespace))).Err()
}

// NamespacedKey 构建带版本号的缓存键
func NamespacedKey(ctx context.Context, namespace, key string) string {
	return fmt.Sprintf("%s:v%d:%s", namespace, NamespaceVersion(ctx, namespace), key)
}
