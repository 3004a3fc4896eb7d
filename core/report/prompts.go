package report

// SystemPrompt 固定的系统指令
const SystemPrompt = `You are an enterprise CPQ/quote risk analyst.
You MUST use ONLY the provided CONTEXT snippets.
If the CONTEXT does not contain the needed information, write "Insufficient evidence" for that item and do not guess.

Rules:
- Return STRICT JSON only (no markdown, no commentary).
- Every risk/missing_part/upsell/approval must include at least one citation in 'evidence'.
- Evidence must quote a short excerpt from the context snippet (1-2 sentences max).
`

// userTemplate 按顺序填充：BOM 文本、part_numbers、keywords、quantities、product_line、region、上下文片段
const userTemplate = `BOM/Quote Text:
%s

Parsed hints:
- part_numbers: %s
- keywords: %s
- quantities: %s

Business context:
- product_line: %s
- region: %s

CONTEXT SNIPPETS (each has doc_title, doc_id, chunk_id, text):
%s

Task:
Create a risk report with:
1) risks: compatibility/constraints/known issues/performance/policy risks
2) missing_parts: required dependencies/kits/cabling/licensing/support
3) suggested_upsells: relevant add-ons/services/support tiers
4) required_approvals: deal desk/compliance/export/security/etc.

Output JSON schema:
{
  "summary": string,
  "risks": [{"title": string, "severity": "low|medium|high", "description": string, "recommended_action": string, "evidence": [{"source_title": string, "doc_id": string, "chunk_id": string, "quote": string}]}],
  "missing_parts": [{"item": string, "reason": string, "evidence": [{...}]}],
  "suggested_upsells": [{"item": string, "why": string, "evidence": [{...}]}],
  "required_approvals": [{"type": string, "trigger": string, "evidence": [{...}]}],
  "retrieval_diagnostics": {"top_sources": [string], "retrieved_chunk_ids": [string], "notes": string|null}
}
`
