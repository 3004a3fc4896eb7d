package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint(t *testing.T) {
	t.Run("已知摘要", func(t *testing.T) {
		// sha256("abc")
		assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", Fingerprint("abc"))
	})

	t.Run("确定性", func(t *testing.T) {
		text := "Controller firmware 7.2 requires 25G cabling kit"
		assert.Equal(t, Fingerprint(text), Fingerprint(text))
		assert.Len(t, Fingerprint(text), 64)
		assert.NotEqual(t, Fingerprint(text), Fingerprint(text+" "))
	})

	t.Run("非法UTF-8字节被丢弃", func(t *testing.T) {
		assert.Equal(t, Fingerprint("abc"), Fingerprint("a\xffb\xfec"))
	})
}

func TestCleanExtractedText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"保留换行和制表符", "line1\n\tline2\r\n", "line1\n\tline2\r\n"},
		{"去掉NULL和控制字符", "a\x00b\x07c", "abc"},
		{"去掉零宽字符", "NAS\u200b-KIT\ufeff", "NAS-KIT"},
		{"非标准空格转普通空格", "25G\u00a0cable\u3000kit", "25G cable kit"},
		{"非法UTF-8", "ok\xff!", "ok!"},
		{"NFC归一化", "e\u0301", "\u00e9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanExtractedText(tt.input))
		})
	}
}

func TestRemoveDuplicates(t *testing.T) {
	ids := []string{"d1", "d2", "d1", "d3", "d2"}
	got := RemoveDuplicates(ids, func(s string) string { return s })
	assert.Equal(t, []string{"d1", "d2", "d3"}, got)
}

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, NilIfEmpty(""))
	assert.Equal(t, "EMEA", *NilIfEmpty("EMEA"))
	assert.Equal(t, "", Deref[string](nil))
	assert.Equal(t, "x", Deref(Of("x")))
}
