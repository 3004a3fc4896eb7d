package v1

import "github.com/gogf/gf/v2/frame/g"

type HealthReq struct {
	g.Meta `path:"/v1/health" method:"get" tags:"system" summary:"Liveness check" no_wrap_resp:"true"`
}

type HealthRes struct {
	g.Meta `mime:"application/json"`
	Ok     bool `json:"ok"`
}
