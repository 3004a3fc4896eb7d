package cmd

import (
	"context"
	"fmt"

	"github.com/Malowking/quoterisk/core/indexer"
	"github.com/Malowking/quoterisk/internal/controller/quote"
	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/net/ghttp"
	"github.com/gogf/gf/v2/os/gcmd"
)

var (
	Main = gcmd.Command{
		Name:  "quoterisk",
		Usage: "quoterisk [ingest]",
		Brief: "start http server",
		Func: func(ctx context.Context, parser *gcmd.Parser) (err error) {
			cfg, svc, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			s := g.Server()
			s.SetAddr(cfg.Server.Address)
			s.Group("/api", func(group *ghttp.RouterGroup) {
				group.Middleware(MiddlewareHandlerResponse, ghttp.MiddlewareCORS)
				group.Bind(
					quote.NewV1(svc),
				)
			})
			s.Run()
			return nil
		},
	}

	Ingest = gcmd.Command{
		Name:  "ingest",
		Usage: "quoterisk ingest --path ./docs [--product-line storage] [--region EMEA]",
		Brief: "ingest a document directory and exit",
		Arguments: []gcmd.Argument{
			{Name: "path", Brief: "local directory or rustfs://bucket/prefix"},
			{Name: "product-line", Brief: "product line tag for new documents"},
			{Name: "region", Brief: "region tag for new documents"},
			{Name: "doc-type", Brief: "overrides the type inferred from the file extension"},
			{Name: "effective-date", Brief: "YYYY-MM-DD"},
			{Name: "chunk-chars", Brief: "chunk size in characters"},
			{Name: "chunk-overlap", Brief: "overlap between consecutive chunks"},
		},
		Func: func(ctx context.Context, parser *gcmd.Parser) (err error) {
			root := parser.GetOpt("path").String()
			if root == "" {
				return fmt.Errorf("--path is required")
			}

			cfg, svc, err := initServices(ctx)
			if err != nil {
				return err
			}
			defer svc.Close()

			chunk := cfg.Chunk
			if v := parser.GetOpt("chunk-chars"); v != nil {
				chunk.ChunkChars = v.Int()
			}
			if v := parser.GetOpt("chunk-overlap"); v != nil {
				chunk.Overlap = v.Int()
			}

			result, err := svc.Pipeline.Ingest(ctx, indexer.IngestRequest{
				Root:          root,
				ProductLine:   parser.GetOpt("product-line").String(),
				Region:        parser.GetOpt("region").String(),
				DocType:       parser.GetOpt("doc-type").String(),
				EffectiveDate: parser.GetOpt("effective-date").String(),
				ChunkConfig:   &chunk,
			})
			printIngestResult(result)
			return err
		},
	}
)

func init() {
	if err := Main.AddCommand(&Ingest); err != nil {
		panic(err)
	}
}

func printIngestResult(result indexer.IngestResult) {
	fmt.Printf("documents_added=%d documents_skipped=%d chunks_added=%d\n",
		result.DocumentsAdded, result.DocumentsSkipped, result.ChunksAdded)
	if result.ExtractionFailures > 0 {
		fmt.Printf("extraction_failures=%d\n", result.ExtractionFailures)
	}
}
