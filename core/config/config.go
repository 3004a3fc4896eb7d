package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Malowking/quoterisk/core/errors"
	"github.com/Malowking/quoterisk/core/splitter"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/gcfg"
	"github.com/gogf/gf/v2/os/genv"
)

const (
	DefaultEmbeddingModel     = "text-embedding-3-small"
	DefaultEmbeddingDimension = 1536
	DefaultChatModel          = "gpt-4o-mini"
	DefaultTemperature        = 0.2
	DefaultTopK               = 12
	DefaultServiceTimeout     = 60 // 秒

	vectorStorePgvector = "pgvector"
)

// Config 进程启动时构建一次，按引用传给各组件
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	VectorStore VectorStoreConfig
	Embedding   EmbeddingConfig
	Chat        ChatConfig
	Chunk       splitter.Config
	Retriever   RetrieverConfig
	RustFS      RustFSConfig
}

type ServerConfig struct {
	Address string
}

// DatabaseConfig PostgreSQL 连接配置
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Pass     string
	Name     string
	SSLMode  string
	Debug    bool // 打开 gorm SQL 日志
	MaxIdle  int
	MaxOpen  int
	Lifetime time.Duration
}

type VectorStoreConfig struct {
	Type string // pgvector | memory
}

// EmbeddingConfig embedding 服务配置
type EmbeddingConfig struct {
	Provider  string // openai | compatible
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// ChatConfig 生成服务配置
type ChatConfig struct {
	Provider    string // openai | qwen
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

type RetrieverConfig struct {
	TopK int
}

type RustFSConfig struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	SSL        bool
}

// Load 从 gf 全局配置加载，pgvector 模式下数据库连接信息取自 gdb 的 database.default 节点
func Load(ctx context.Context) (*Config, error) {
	cfg := parse(ctx, g.Cfg())
	if cfg.VectorStore.Type == vectorStorePgvector {
		if node := g.DB().GetConfig(); node != nil {
			cfg.Database.Host = node.Host
			cfg.Database.Port = node.Port
			cfg.Database.User = node.User
			cfg.Database.Pass = node.Pass
			cfg.Database.Name = node.Name
			cfg.Database.Debug = node.Debug
		}
	}
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFrom 从指定配置源加载并校验
func LoadFrom(ctx context.Context, c *gcfg.Config) (*Config, error) {
	cfg := parse(ctx, c)
	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parse 环境变量（可由 .env 提供）作为 apiKey 等敏感项的后备
func parse(ctx context.Context, c *gcfg.Config) *Config {
	get := func(key string, def ...interface{}) string {
		return c.MustGet(ctx, key, def...).String()
	}
	seconds := func(key string, def int) time.Duration {
		return time.Duration(c.MustGet(ctx, key, def).Int()) * time.Second
	}

	cfg := &Config{
		Server: ServerConfig{
			Address: get("server.address", ":8000"),
		},
		Database: DatabaseConfig{
			Host:     get("database.default.host"),
			Port:     get("database.default.port", "5432"),
			User:     get("database.default.user"),
			Pass:     get("database.default.pass"),
			Name:     get("database.default.name"),
			SSLMode:  get("database.default.sslmode", "disable"),
			Debug:    c.MustGet(ctx, "database.default.debug", false).Bool(),
			MaxIdle:  c.MustGet(ctx, "database.default.maxIdle", 10).Int(),
			MaxOpen:  c.MustGet(ctx, "database.default.maxOpen", 100).Int(),
			Lifetime: seconds("database.default.maxLifetime", 3600),
		},
		VectorStore: VectorStoreConfig{
			Type: get("vectorStore.type", vectorStorePgvector),
		},
		Embedding: EmbeddingConfig{
			Provider:  get("embedding.provider", "openai"),
			APIKey:    get("embedding.apiKey", genv.Get("OPENAI_API_KEY").String()),
			BaseURL:   get("embedding.baseURL"),
			Model:     get("embedding.model", DefaultEmbeddingModel),
			Dimension: c.MustGet(ctx, "embedding.dimension", DefaultEmbeddingDimension).Int(),
			Timeout:   seconds("embedding.timeout", DefaultServiceTimeout),
		},
		Chat: ChatConfig{
			Provider:    get("chat.provider", "openai"),
			APIKey:      get("chat.apiKey", genv.Get("OPENAI_API_KEY").String()),
			BaseURL:     get("chat.baseURL"),
			Model:       get("chat.model", DefaultChatModel),
			Temperature: c.MustGet(ctx, "chat.temperature", DefaultTemperature).Float32(),
			Timeout:     seconds("chat.timeout", DefaultServiceTimeout),
			MaxRetries:  c.MustGet(ctx, "chat.maxRetries", 1).Int(),
			RetryDelay:  time.Duration(c.MustGet(ctx, "chat.retryDelayMs", 500).Int()) * time.Millisecond,
		},
		Chunk: splitter.Config{
			ChunkChars: c.MustGet(ctx, "chunk.chars", splitter.DefaultChunkChars).Int(),
			Overlap:    c.MustGet(ctx, "chunk.overlap", splitter.DefaultOverlap).Int(),
		},
		Retriever: RetrieverConfig{
			TopK: c.MustGet(ctx, "retriever.topK", DefaultTopK).Int(),
		},
		RustFS: RustFSConfig{
			Endpoint:   get("rustfs.endpoint"),
			AccessKey:  get("rustfs.accessKey"),
			SecretKey:  get("rustfs.secretKey"),
			BucketName: get("rustfs.bucketName"),
			SSL:        c.MustGet(ctx, "rustfs.ssl", false).Bool(),
		},
	}
	return cfg
}

// Validate 一次性报告所有缺失或非法的配置项
func (c *Config) Validate(ctx context.Context) error {
	var problems []string
	var warnings []string

	if err := c.Chunk.Validate(); err != nil {
		problems = append(problems, "chunk: "+errors.GetAppError(err).Message)
	}
	if c.Retriever.TopK <= 0 {
		problems = append(problems, fmt.Sprintf("retriever.topK must be positive, got %d", c.Retriever.TopK))
	}
	if c.Embedding.Dimension <= 0 {
		problems = append(problems, fmt.Sprintf("embedding.dimension must be positive, got %d", c.Embedding.Dimension))
	}
	if c.Embedding.Timeout <= 0 || c.Chat.Timeout <= 0 {
		problems = append(problems, "embedding.timeout and chat.timeout must be positive")
	}

	switch c.Embedding.Provider {
	case "openai", "compatible":
	default:
		problems = append(problems, fmt.Sprintf("embedding.provider %q is not supported", c.Embedding.Provider))
	}
	switch c.Chat.Provider {
	case "openai", "qwen":
	default:
		problems = append(problems, fmt.Sprintf("chat.provider %q is not supported", c.Chat.Provider))
	}

	switch c.VectorStore.Type {
	case vectorStorePgvector:
		if c.Database.Host == "" {
			problems = append(problems, "database.default.host")
		}
		if c.Database.User == "" {
			problems = append(problems, "database.default.user")
		}
		if c.Database.Name == "" {
			problems = append(problems, "database.default.name")
		}
	case "memory":
		warnings = append(warnings, "vectorStore.type is memory, ingested documents are lost on restart")
	default:
		problems = append(problems, fmt.Sprintf("vectorStore.type %q is not supported", c.VectorStore.Type))
	}

	if c.Embedding.APIKey == "" {
		warnings = append(warnings, "embedding.apiKey is not set")
	}
	if c.Chat.APIKey == "" {
		warnings = append(warnings, "chat.apiKey is not set")
	}

	if len(warnings) > 0 {
		g.Log().Warningf(ctx, "Configuration warnings:\n- %s", strings.Join(warnings, "\n- "))
	}

	if len(problems) > 0 {
		return errors.Newf(errors.ErrConfigInvalid, "invalid configuration:\n- %s\n\nPlease check your config.yaml file", strings.Join(problems, "\n- "))
	}
	return nil
}
