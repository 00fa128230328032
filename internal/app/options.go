package app

import (
	"os"
	"time"

	"github.com/orderapp-next/internal/config"
	"github.com/orderapp-next/internal/logger"

	"go.uber.org/zap"
)

// 运行模式：all 同进程跑 API 与后台重算，api / worker 拆开部署
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

// Options 应用启动选项
type Options struct {
	Config  *config.Config
	Logger  *zap.SugaredLogger
	Mode    string
	Signals []os.Signal

	// ShutdownTimeout 收到退出信号后的等待上限，
	// 给正在执行的成本重算留出收尾时间
	ShutdownTimeout time.Duration
}

func (opts Options) withDefaults() Options {
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 15 * time.Second
	}
	return opts
}
