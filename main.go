package main

import (
	"github.com/gogf/gf/v2/os/gctx"
	"github.com/joho/godotenv"

	"github.com/Malowking/quoterisk/internal/cmd"
	_ "github.com/gogf/gf/contrib/drivers/pgsql/v2"
)

func main() {
	// .env 可选，已存在的环境变量优先
	_ = godotenv.Load()
	cmd.Main.Run(gctx.GetInitCtx())
}
