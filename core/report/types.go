package report

// Severity 风险等级
const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

// Evidence 引用的上下文片段
type Evidence struct {
	SourceTitle string `json:"source_title"`
	DocID       string `json:"doc_id"`
	ChunkID     string `json:"chunk_id"`
	Quote       string `json:"quote"`
}

type Risk struct {
	Title             string     `json:"title"`
	Severity          string     `json:"severity"`
	Description       string     `json:"description"`
	RecommendedAction string     `json:"recommended_action"`
	Evidence          []Evidence `json:"evidence"`
}

type MissingPart struct {
	Item     string     `json:"item"`
	Reason   string     `json:"reason"`
	Evidence []Evidence `json:"evidence"`
}

type Upsell struct {
	Item     string     `json:"item"`
	Why      string     `json:"why"`
	Evidence []Evidence `json:"evidence"`
}

type Approval struct {
	Type     string     `json:"type"`
	Trigger  string     `json:"trigger"`
	Evidence []Evidence `json:"evidence"`
}

// RetrievalDiagnostics 检索诊断，由检索结果确定性地补齐
type RetrievalDiagnostics struct {
	TopSources        []string `json:"top_sources"`
	RetrievedChunkIDs []string `json:"retrieved_chunk_ids"`
	Notes             *string  `json:"notes"`
}

// Report 风险分析报告
type Report struct {
	Summary              string               `json:"summary"`
	Risks                []Risk               `json:"risks"`
	MissingParts         []MissingPart        `json:"missing_parts"`
	SuggestedUpsells     []Upsell             `json:"suggested_upsells"`
	RequiredApprovals    []Approval           `json:"required_approvals"`
	RetrievalDiagnostics RetrievalDiagnostics `json:"retrieval_diagnostics"`
}
