package common

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint 计算文本内容指纹（SHA-256，十六进制），用作去重键。
// 非法 UTF-8 字节会被丢弃而不是报错。
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(strings.ToValidUTF8(text, "")))
	return hex.EncodeToString(sum[:])
}
