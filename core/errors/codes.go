package errors

// ErrCode 业务错误码类型
type ErrCode int

const (
	// 通用错误 1000-1999
	ErrInvalidParameter ErrCode = 1001 // 参数错误
	ErrInternalError    ErrCode = 1003 // 内部错误
	ErrNotFound         ErrCode = 1004 // 资源未找到
	ErrConfigInvalid    ErrCode = 1005 // 配置错误（如向量维度不匹配）

	// 模型相关 2000-2999
	ErrEmbeddingFailed  ErrCode = 2001 // Embedding失败
	ErrLLMCallFailed    ErrCode = 2002 // 生成服务调用失败
	ErrGenerationFormat ErrCode = 2003 // 生成结果无法解析为合法报告
	ErrServiceTimeout   ErrCode = 2004 // 外部服务超时

	// 文档相关 4000-4999
	ErrDocumentNotFound    ErrCode = 4001 // 文档未找到
	ErrDocumentParseFailed ErrCode = 4002 // 文档文本提取失败
	ErrSourceUnavailable   ErrCode = 4003 // 文档来源不可用

	// 数据库相关 6000-6999
	ErrDatabaseQuery     ErrCode = 6001 // 数据库查询失败
	ErrDatabaseInsert    ErrCode = 6002 // 数据库插入失败
	ErrDatabaseDelete    ErrCode = 6004 // 数据库删除失败
	ErrDatabaseInit      ErrCode = 6005 // 数据库初始化失败
	ErrDuplicateContent  ErrCode = 6006 // 内容指纹重复（计数处理，不是故障）
	ErrTransactionFailed ErrCode = 6007 // 事务失败

	// 检索相关 9000-9999
	ErrRetrievalFailed   ErrCode = 9001 // 检索失败
	ErrNoRetrievalResult ErrCode = 9002 // 检索结果为空
)

// HTTPStatusCode 返回错误码对应的HTTP状态码
func (e ErrCode) HTTPStatusCode() int {
	switch e {
	case ErrInvalidParameter:
		return 400
	case ErrNotFound, ErrDocumentNotFound, ErrNoRetrievalResult:
		return 404
	case ErrDuplicateContent:
		return 409
	case ErrGenerationFormat:
		return 502
	case ErrServiceTimeout:
		return 504
	default:
		return 500
	}
}
