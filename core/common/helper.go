package common

func Of[T any](v T) *T {
	return &v
}

// RemoveDuplicates 按 key 去重，保留首次出现的顺序
func RemoveDuplicates[T any, K comparable](slice []T, keyFunc func(T) K) []T {
	encountered := make(map[K]bool)
	var result []T

	for _, v := range slice {
		key := keyFunc(v)
		if !encountered[key] {
			encountered[key] = true
			result = append(result, v)
		}
	}

	return result
}

// Deref 返回指针指向的值，nil 返回零值
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// NilIfEmpty 空字符串转为 nil，用于可空列
func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
