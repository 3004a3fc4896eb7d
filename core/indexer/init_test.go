package indexer

import (
	"os"
	"testing"

	"github.com/gogf/gf/v2/frame/g"
	"github.com/gogf/gf/v2/os/glog"
)

// TestMain 日志只输出到 stdout，不生成日志文件
func TestMain(m *testing.M) {
	g.Log().SetConfig(glog.Config{
		Flags:       glog.F_TIME_STD,
		Level:       glog.LEVEL_ALL,
		StdoutPrint: true,
	})
	os.Exit(m.Run())
}
