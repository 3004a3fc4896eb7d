package report

import (
	"github.com/Malowking/quoterisk/core/common"
	"github.com/Malowking/quoterisk/pkg/schema"
)

const (
	keyDiagnostics       = "retrieval_diagnostics"
	keyTopSources        = "top_sources"
	keyRetrievedChunkIDs = "retrieved_chunk_ids"
	keyNotes             = "notes"
)

// InjectDiagnostics 补齐 retrieval_diagnostics 中缺失的键，模型已返回的值保持不变。
// top_sources 为按检索顺序去重的文档 id，retrieved_chunk_ids 为全部分片 id。
func InjectDiagnostics(report map[string]any, hits []*schema.Hit) {
	diag, exists := report[keyDiagnostics]
	if !exists || diag == nil {
		diag = map[string]any{}
		report[keyDiagnostics] = diag
	}
	m, ok := diag.(map[string]any)
	if !ok {
		// 类型错误交给结构校验处理
		return
	}

	if _, ok := m[keyTopSources]; !ok {
		m[keyTopSources] = toAny(topSources(hits))
	}
	if _, ok := m[keyRetrievedChunkIDs]; !ok {
		ids := make([]string, 0, len(hits))
		for _, hit := range hits {
			ids = append(ids, hit.Chunk.ID)
		}
		m[keyRetrievedChunkIDs] = toAny(ids)
	}
	if _, ok := m[keyNotes]; !ok {
		m[keyNotes] = nil
	}
}

func topSources(hits []*schema.Hit) []string {
	unique := common.RemoveDuplicates(hits, func(hit *schema.Hit) string { return hit.Document.ID })
	out := make([]string, 0, len(unique))
	for _, hit := range unique {
		out = append(out, hit.Document.ID)
	}
	return out
}

// toAny 与 JSON 解码结果保持同样的动态类型
func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
