package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golden-anniversary-server/internal/cache"
	"golden-anniversary-server/internal/consts"
	"golden-anniversary-server/internal/model"
	moduledto "golden-anniversary-server/internal/modules/guestbook/dto"
	"golden-anniversary-server/internal/modules/guestbook/repo"
	platformservice "golden-anniversary-server/internal/platform/service"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var errMessageNotFound = errors.New("message not found")

// Create 访客提交留言。校验在写库之前完成，新留言一律为 pending。
func (s *Service) Create(ctx context.Context, req moduledto.CreateMessageRequest) (*model.Message, error) {
	const op = "failed to create message"

	name := strings.TrimSpace(req.Name)
	body := strings.TrimSpace(req.Message)
	switch {
	case name == "":
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op, errors.New("name is required"))
	case body == "":
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op, errors.New("message is required"))
	case utf8.RuneCountInString(name) > consts.MessageNameMaxLen:
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op,
			fmt.Errorf("name must be at most %d characters", consts.MessageNameMaxLen))
	case utf8.RuneCountInString(body) > consts.MessageBodyMaxLen:
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op,
			fmt.Errorf("message must be at most %d characters", consts.MessageBodyMaxLen))
	}

	msg := &model.Message{
		ID:        uuid.NewString(),
		Name:      name,
		Message:   body,
		Status:    consts.MessageStatusPending,
		CreatedAt: s.now(),
	}
	if err := s.messageStore.Create(ctx, msg); err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}

	s.notifier.MessageSubmitted(ctx, *msg)
	s.Invalidate(ctx, consts.ViewGuestbook, consts.ViewAdminMessages)
	return msg, nil
}

// List 后台分页列表，按创建时间升序；页码越界时返回空列表但 total 不变
func (s *Service) List(ctx context.Context, q moduledto.ListQuery) (*moduledto.MessagePage, error) {
	const op = "failed to list messages"

	status := strings.ToLower(strings.TrimSpace(q.Status))
	if status == "all" {
		status = ""
	}
	if status != "" && !consts.IsMessageStatus(status) {
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op, fmt.Errorf("unknown status %q", q.Status))
	}
	page, pageSize, err := normalizePage(q.Page, q.PageSize)
	if err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op, err)
	}

	key := fmt.Sprintf("list:%s:%d:%d", status, page, pageSize)
	result, err := cache.Remember(ctx, s.Views, consts.ViewAdminMessages, key, func(ctx context.Context) (*moduledto.MessagePage, error) {
		return s.loadPage(ctx, status, page, pageSize)
	})
	if err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}
	return result, nil
}

func (s *Service) loadPage(ctx context.Context, status string, page, pageSize int) (*moduledto.MessagePage, error) {
	items, total, err := s.messageStore.List(ctx, repo.ListParams{
		Status: status,
		Offset: (page - 1) * pageSize,
		Limit:  pageSize,
	})
	if err != nil {
		return nil, err
	}
	if err := platformservice.CheckRecords(s.AppService, items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Message{}
	}
	return &moduledto.MessagePage{
		Items:      items,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// ListApproved 公开留言板，只展示已通过审核的留言
func (s *Service) ListApproved(ctx context.Context, page, pageSize int) (*moduledto.PublicMessagePage, error) {
	const op = "failed to list messages"

	page, pageSize, err := normalizePage(page, pageSize)
	if err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, op, err)
	}

	key := fmt.Sprintf("public:%d:%d", page, pageSize)
	result, err := cache.Remember(ctx, s.Views, consts.ViewGuestbook, key, func(ctx context.Context) (*moduledto.PublicMessagePage, error) {
		p, err := s.loadPage(ctx, consts.MessageStatusApproved, page, pageSize)
		if err != nil {
			return nil, err
		}
		items := make([]moduledto.PublicMessage, 0, len(p.Items))
		for _, m := range p.Items {
			items = append(items, moduledto.PublicMessage{ID: m.ID, Name: m.Name, Message: m.Message, CreatedAt: m.CreatedAt})
		}
		return &moduledto.PublicMessagePage{
			Items:      items,
			Total:      p.Total,
			TotalPages: p.TotalPages,
			Page:       p.Page,
			PageSize:   p.PageSize,
		}, nil
	})
	if err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}
	return result, nil
}

func (s *Service) Approve(ctx context.Context, id string) (*model.Message, error) {
	return s.setStatus(ctx, id, consts.MessageStatusApproved, "failed to approve message")
}

func (s *Service) Reject(ctx context.Context, id string) (*model.Message, error) {
	return s.setStatus(ctx, id, consts.MessageStatusRejected, "failed to reject message")
}

// setStatus 任意状态之间都可以切换，每次调用都会重新写入对应时间戳。
// id 格式错误与记录不存在返回同一种错误。
func (s *Service) setStatus(ctx context.Context, id, status, op string) (*model.Message, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeNotFound, op, errMessageNotFound)
	}

	msg, err := s.messageStore.UpdateStatus(ctx, id, status, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.Wrap(platformservice.ErrorCodeNotFound, op, errMessageNotFound)
		}
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}
	if err := s.CheckRecord(msg); err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}

	s.Invalidate(ctx, consts.ViewAdminMessages, consts.ViewGuestbook)
	return msg, nil
}

// Delete 永久删除留言。id 不存在时同样视为成功并返回该 id；id 格式错误则失败。
func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	const op = "failed to delete message"

	if _, err := uuid.Parse(id); err != nil {
		return "", platformservice.Wrap(platformservice.ErrorCodeValidation, op, errors.New("invalid message id"))
	}
	if _, err := s.messageStore.Delete(ctx, id); err != nil {
		return "", platformservice.Wrap(platformservice.ErrorCodeInternal, op, err)
	}

	s.Invalidate(ctx, consts.ViewAdminMessages, consts.ViewGuestbook)
	return id, nil
}

func (s *Service) Stats(ctx context.Context) (*moduledto.MessageStats, error) {
	counts, err := s.messageStore.CountByStatus(ctx)
	if err != nil {
		return nil, platformservice.Wrap(platformservice.ErrorCodeInternal, "failed to count messages", err)
	}
	stats := &moduledto.MessageStats{
		Pending:  counts[consts.MessageStatusPending],
		Approved: counts[consts.MessageStatusApproved],
		Rejected: counts[consts.MessageStatusRejected],
	}
	stats.Total = stats.Pending + stats.Approved + stats.Rejected
	return stats, nil
}

// Batch 对每个 id 单独执行一次操作，部分失败不影响其余 id
func (s *Service) Batch(ctx context.Context, action string, ids []string) (*moduledto.BatchResult, error) {
	var run func(context.Context, string) error
	switch action {
	case moduledto.ActionApprove:
		run = func(ctx context.Context, id string) error { _, err := s.Approve(ctx, id); return err }
	case moduledto.ActionReject:
		run = func(ctx context.Context, id string) error { _, err := s.Reject(ctx, id); return err }
	case moduledto.ActionDelete:
		run = func(ctx context.Context, id string) error { _, err := s.Delete(ctx, id); return err }
	default:
		return nil, platformservice.Wrap(platformservice.ErrorCodeValidation, "failed to run batch action",
			fmt.Errorf("unknown action %q", action))
	}

	result := &moduledto.BatchResult{Action: action, Succeeded: []string{}, Failed: map[string]string{}}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if err := run(ctx, id); err != nil {
			result.Failed[id] = err.Error()
			continue
		}
		result.Succeeded = append(result.Succeeded, id)
	}
	return result, nil
}
