package splitter

import (
	"strings"

	"github.com/Malowking/quoterisk/core/errors"
)

const (
	DefaultChunkChars = 1800
	DefaultOverlap    = 250
)

// Config 切分窗口配置，单位为字符（rune）
type Config struct {
	ChunkChars int `json:"chunkChars"`
	Overlap    int `json:"overlap"`
}

// DefaultConfig 返回默认切分配置
func DefaultConfig() Config {
	return Config{ChunkChars: DefaultChunkChars, Overlap: DefaultOverlap}
}

// Validate overlap 必须小于窗口大小，否则游标无法前进
func (c Config) Validate() error {
	if c.ChunkChars <= 0 {
		return errors.Newf(errors.ErrInvalidParameter, "chunk size must be positive, got %d", c.ChunkChars)
	}
	if c.Overlap < 0 {
		return errors.Newf(errors.ErrInvalidParameter, "chunk overlap must not be negative, got %d", c.Overlap)
	}
	if c.Overlap >= c.ChunkChars {
		return errors.Newf(errors.ErrInvalidParameter, "chunk overlap (%d) must be smaller than chunk size (%d)", c.Overlap, c.ChunkChars)
	}
	return nil
}

// Split 将文本切分为有重叠的固定窗口，返回的顺序即 chunk_index
func Split(text string, cfg Config) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	runes := []rune(text)
	n := len(runes)
	var chunks []string
	start := 0
	for {
		end := start + cfg.ChunkChars
		if end > n {
			end = n
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= n {
			break
		}
		next := end - cfg.Overlap
		if next < 0 {
			next = 0
		}
		if next <= start {
			// 非法配置下保证游标前进
			next = end
		}
		start = next
	}
	return chunks
}
