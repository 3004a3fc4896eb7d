package splitter

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"默认配置", DefaultConfig(), false},
		{"overlap 为 0", Config{ChunkChars: 10, Overlap: 0}, false},
		{"overlap 等于窗口", Config{ChunkChars: 10, Overlap: 10}, true},
		{"overlap 大于窗口", Config{ChunkChars: 10, Overlap: 12}, true},
		{"窗口为 0", Config{ChunkChars: 0, Overlap: 0}, true},
		{"overlap 为负数", Config{ChunkChars: 10, Overlap: -1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrInvalidParameter))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestSplit(t *testing.T) {
	t.Run("空白文本", func(t *testing.T) {
		assert.Empty(t, Split("   \n\t ", DefaultConfig()))
	})

	t.Run("短文本只有一个分片", func(t *testing.T) {
		assert.Equal(t, []string{"hello world"}, Split("  hello world \n", DefaultConfig()))
	})

	t.Run("重叠窗口", func(t *testing.T) {
		chunks := Split("abcdefghij", Config{ChunkChars: 4, Overlap: 1})
		assert.Equal(t, []string{"abcd", "defg", "ghij"}, chunks)
	})

	t.Run("按字符而非字节切分", func(t *testing.T) {
		chunks := Split("报价单风险分析", Config{ChunkChars: 3, Overlap: 1})
		assert.Equal(t, []string{"报价单", "单风险", "险分析"}, chunks)
	})

	t.Run("窗口内空白被丢弃", func(t *testing.T) {
		text := "abc" + strings.Repeat(" ", 9) + "xyz"
		chunks := Split(text, Config{ChunkChars: 4, Overlap: 0})
		for _, c := range chunks {
			assert.NotEmpty(t, c)
			assert.Equal(t, strings.TrimSpace(c), c)
		}
		assert.Equal(t, "abc", chunks[0])
		assert.Equal(t, "xyz", chunks[len(chunks)-1])
	})
}

func TestSplitCoverageAndDeterminism(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&sb, "item-%02d controller firmware 25G cabling. ", i)
	}
	text := sb.String()
	trimmed := strings.TrimSpace(text)

	configs := []Config{
		{ChunkChars: 50, Overlap: 10},
		{ChunkChars: 60, Overlap: 59},
		{ChunkChars: 100, Overlap: 0},
		DefaultConfig(),
	}
	for _, cfg := range configs {
		first := Split(text, cfg)
		second := Split(text, cfg)
		require.NotEmpty(t, first)
		assert.Equal(t, first, second)

		// 分片按原文从左到右出现，且覆盖所有非空白字符
		covered := make([]bool, len(trimmed))
		pos := 0
		for _, c := range first {
			idx := strings.Index(trimmed[pos:], c)
			require.GreaterOrEqual(t, idx, 0, "chunk %q out of order", c)
			off := pos + idx
			for i := off; i < off+len(c); i++ {
				covered[i] = true
			}
			pos = off
		}
		for i, ok := range covered {
			if !ok {
				assert.Equal(t, byte(' '), trimmed[i], "offset %d not covered (cfg %+v)", i, cfg)
			}
		}
	}
}

func TestTransformer(t *testing.T) {
	ctx := context.Background()

	_, err := NewTransformer(Config{ChunkChars: 5, Overlap: 5})
	require.Error(t, err)

	tr, err := NewTransformer(Config{ChunkChars: 4, Overlap: 1})
	require.NoError(t, err)

	docs, err := tr.Transform(ctx, []*schema.Document{
		{ID: "a", Content: "abcdefghij", MetaData: map[string]any{"title": "a.txt"}},
		{ID: "b", Content: "xyz"},
	})
	require.NoError(t, err)
	require.Len(t, docs, 4)

	assert.Equal(t, "abcd", docs[0].Content)
	assert.Equal(t, 0, docs[0].MetaData[MetaChunkIndex])
	assert.Equal(t, "a.txt", docs[2].MetaData["title"])
	assert.Equal(t, 2, docs[2].MetaData[MetaChunkIndex])
	assert.Equal(t, "b", docs[3].ID)
	assert.Equal(t, 0, docs[3].MetaData[MetaChunkIndex])
}
