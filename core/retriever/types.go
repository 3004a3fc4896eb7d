package retriever

import (
	"github.com/Malowking/quoterisk/core/vector_store"
)

// RetrieveReq 检索请求参数
// Embedding 是必需的，TopK 为 nil 时使用配置中的默认值
type RetrieveReq struct {
	Embedding   []float32 // 查询向量（必需）
	TopK        *int      // 检索结果数量（可选）
	ProductLine string    // 产品线过滤，空表示不过滤
	Region      string    // 区域过滤，空表示不过滤
}

func (r *RetrieveReq) filter() vector_store.Filter {
	return vector_store.Filter{
		ProductLine: r.ProductLine,
		Region:      r.Region,
	}
}
