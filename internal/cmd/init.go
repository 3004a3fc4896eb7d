package cmd

import (
	"context"

	"github.com/Malowking/quoterisk/core/config"
	"github.com/Malowking/quoterisk/internal/service"
	"github.com/gogf/gf/v2/frame/g"
)

// initServices 校验配置并初始化全部组件，server 与 ingest 子命令共用
func initServices(ctx context.Context) (*config.Config, *service.Services, error) {
	g.Log().Info(ctx, "Validating application configuration...")
	cfg, err := config.Load(ctx)
	if err != nil {
		g.Log().Errorf(ctx, "Configuration validation failed:\n%v", err)
		return nil, nil, err
	}

	svc, err := service.New(ctx, cfg)
	if err != nil {
		g.Log().Errorf(ctx, "Component initialization failed: %v", err)
		return nil, nil, err
	}
	return cfg, svc, nil
}
