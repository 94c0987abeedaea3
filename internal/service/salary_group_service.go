package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salarysystem/internal/engine"
	"salarysystem/internal/model"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var ErrInvalidGroupRequest = errors.New("工资组参数错误")

// SaveGroupItemsRequest 保存工资组成员
type SaveGroupItemsRequest struct {
	GroupID int64                   `json:"group_id" validate:"required,gt=0"`
	Members []model.SalaryGroupItem `json:"members" validate:"dive"`
}

// SaveGroupItemsResult MarkedPending 为被标记待重算的工资结果条数
type SaveGroupItemsResult struct {
	GroupID       int64 `json:"group_id"`
	MemberCount   int   `json:"member_count"`
	MarkedPending int64 `json:"marked_pending"`
}

// SalaryGroupService 工资组维护
//
// 保存前做完整的静态校验（顺序唯一、依赖无环、只引用更早的工资项），
// 校验不通过的配置不会落库
type SalaryGroupService struct {
	configs  ConfigStore
	members  GroupMemberStore
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

func NewSalaryGroupService(configs ConfigStore, members GroupMemberStore, logger *zap.Logger) *SalaryGroupService {
	return &SalaryGroupService{
		configs:  configs,
		members:  members,
		validate: validator.New(),
		logger:   logger,
		now:      time.Now,
	}
}

func (s *SalaryGroupService) SaveGroupItems(ctx context.Context, req *SaveGroupItemsRequest) (*SaveGroupItemsResult, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGroupRequest, err)
	}

	if _, err := s.configs.GetSalaryGroup(ctx, req.GroupID); err != nil {
		return nil, configError(err, "工资组 %d", req.GroupID)
	}

	ids := make([]int64, 0, len(req.Members))
	for _, m := range req.Members {
		ids = append(ids, m.SalaryItemID)
	}
	items, err := s.configs.GetSalaryItems(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("查询工资项失败: %w", err)
	}
	for _, item := range items {
		if err := s.validate.Struct(item); err != nil {
			return nil, fmt.Errorf("%w: 工资项[%s] %v", engine.ErrConfiguration, item.Name, err)
		}
	}

	candidate := &model.SalaryGroup{ID: req.GroupID, Members: req.Members}
	if err := engine.ValidateGroup(candidate, items); err != nil {
		return nil, err
	}

	// 历史月份视为已结算，只重算当月及以后
	fromMonth := s.now().Format("2006-01")
	marked, err := s.members.ReplaceGroupMembers(ctx, req.GroupID, req.Members, fromMonth)
	if err != nil {
		return nil, fmt.Errorf("保存工资组成员失败: %w", err)
	}

	s.logger.Info("工资组已保存",
		zap.Int64("group_id", req.GroupID),
		zap.Int("members", len(req.Members)),
		zap.String("from_month", fromMonth),
		zap.Int64("marked_pending", marked))

	return &SaveGroupItemsResult{
		GroupID:       req.GroupID,
		MemberCount:   len(req.Members),
		MarkedPending: marked,
	}, nil
}
