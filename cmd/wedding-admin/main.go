// wedding-admin 命令行后台：登录后批量审核留言、调整相册顺序、批量上传照片。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
)

const usage = `用法: wedding-admin [全局参数] <命令> [参数]

命令:
  stats                              各状态留言数量
  moderate -action A [-status S]     对筛选出的留言批量执行 approve/reject/delete
  reorder  -category C -ids a,b,c    按给定顺序重排相册
  reorder  -category C -move F:T     把第 F 张移到第 T 张（从 0 开始）
  upload   -category C file...       逐个上传 JPEG，Ctrl+C 在当前文件结束后停止

全局参数:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("❌ %v", err)
	}
}

type globalOptions struct {
	server   string
	email    string
	password string
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("wedding-admin", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() {
		fmt.Fprint(out, usage)
		fs.PrintDefaults()
	}

	var opts globalOptions
	fs.StringVar(&opts.server, "server", envOr("GOLDEN_ADMIN_SERVER", "http://localhost:8080"), "服务地址")
	fs.StringVar(&opts.email, "email", os.Getenv("GOLDEN_ADMIN_EMAIL"), "管理员邮箱")
	fs.StringVar(&opts.password, "password", os.Getenv("GOLDEN_ADMIN_PASSWORD"), "管理员密码")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return flag.ErrHelp
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	var handler func(context.Context, *session, []string, io.Writer) error
	switch cmd {
	case "stats":
		handler = runStats
	case "moderate":
		handler = runModerate
	case "reorder":
		handler = runReorder
	case "upload":
		handler = runUpload
	default:
		fs.Usage()
		return fmt.Errorf("未知命令 %q", cmd)
	}

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()
	return handler(ctx, s, rest, out)
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
