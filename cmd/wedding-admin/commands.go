package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golden-anniversary-server/internal/adminclient"
	"golden-anniversary-server/internal/moderation"
	"golden-anniversary-server/internal/reorder"
)

type session struct {
	client *adminclient.Client
}

func openSession(ctx context.Context, opts globalOptions) (*session, error) {
	if opts.email == "" || opts.password == "" {
		return nil, errors.New("需要 -email 与 -password（或 GOLDEN_ADMIN_EMAIL / GOLDEN_ADMIN_PASSWORD）")
	}
	client, err := adminclient.New(opts.server)
	if err != nil {
		return nil, err
	}
	if _, err := client.Login(ctx, opts.email, opts.password); err != nil {
		return nil, fmt.Errorf("登录失败: %w", err)
	}
	return &session{client: client}, nil
}

func (s *session) close() {
	_ = s.client.Logout(context.Background())
}

func runStats(ctx context.Context, s *session, _ []string, out io.Writer) error {
	stats, err := s.client.MessageStats(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "pending=%d approved=%d rejected=%d total=%d\n", stats.Pending, stats.Approved, stats.Rejected, stats.Total)
	return nil
}

func runModerate(ctx context.Context, s *session, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("moderate", flag.ContinueOnError)
	fs.SetOutput(out)
	action := fs.String("action", "", "approve | reject | delete")
	status := fs.String("status", string(moderation.FilterPending), "all | pending | approved | rejected")
	yes := fs.Bool("yes", false, "跳过确认")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctrl := moderation.NewController(nil)
	if err := ctrl.SetFilter(moderation.Filter(*status)); err != nil {
		return err
	}

	items, err := s.client.AllMessages(ctx, "")
	if err != nil {
		return err
	}
	ctrl.SelectAll(items)
	if err := ctrl.OpenBatch(moderation.Action(*action)); err != nil {
		if errors.Is(err, moderation.ErrNothingSelected) {
			fmt.Fprintln(out, "没有符合条件的留言")
			return nil
		}
		return err
	}

	fmt.Fprintln(out, ctrl.DialogCopy())
	if !*yes {
		ctrl.CancelBatch()
		fmt.Fprintln(out, "未确认，加 -yes 执行")
		return nil
	}

	failed, err := ctrl.ConfirmBatch(ctx, s.client)
	if err != nil {
		return err
	}
	if len(failed) == 0 {
		fmt.Fprintln(out, "✅ 完成")
		return nil
	}
	ids := make([]string, 0, len(failed))
	for id := range failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(out, "❌ %s: %v\n", id, failed[id])
	}
	return fmt.Errorf("%d 条留言操作失败", len(failed))
}

func runReorder(ctx context.Context, s *session, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("reorder", flag.ContinueOnError)
	fs.SetOutput(out)
	category := fs.String("category", "memory", "memory | event")
	idList := fs.String("ids", "", "逗号分隔的完整顺序")
	move := fs.String("move", "", "from:to")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *idList != "" {
		ids := splitIDs(*idList)
		if err := s.client.ReorderPhotos(ctx, ids); err != nil {
			return err
		}
		fmt.Fprintf(out, "✅ 已保存 %d 张照片的顺序\n", len(ids))
		return nil
	}

	from, to, err := parseMove(*move)
	if err != nil {
		return err
	}
	photos, err := s.client.ListPhotos(ctx, *category)
	if err != nil {
		return err
	}
	ids := make([]string, 0, len(photos))
	for _, p := range photos {
		ids = append(ids, p.ID)
	}

	ctrl := reorder.New(ids, s.client.ReorderPhotos)
	defer ctrl.Close()
	if err := ctrl.Drop(from, to); err != nil {
		return err
	}
	if err := ctrl.Flush(ctx); err != nil {
		return fmt.Errorf("保存顺序失败: %w", err)
	}
	for i, id := range ctrl.IDs() {
		fmt.Fprintf(out, "%d\t%s\n", i, id)
	}
	return nil
}

func runUpload(ctx context.Context, s *session, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(out)
	category := fs.String("category", "memory", "memory | event")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("至少需要一个文件")
	}

	uploaded, err := s.client.UploadFiles(ctx, fs.Args(), *category)
	for _, p := range uploaded {
		fmt.Fprintf(out, "✅ %s\t%s\n", p.ID, p.URL)
	}
	if err != nil {
		return fmt.Errorf("已上传 %d/%d: %w", len(uploaded), fs.NArg(), err)
	}
	return nil
}

func splitIDs(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseMove(raw string) (int, int, error) {
	fromStr, toStr, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, 0, fmt.Errorf("-move 需要 from:to 格式，实际为 %q", raw)
	}
	from, err := strconv.Atoi(strings.TrimSpace(fromStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid from: %w", err)
	}
	to, err := strconv.Atoi(strings.TrimSpace(toStr))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid to: %w", err)
	}
	return from, to, nil
}
