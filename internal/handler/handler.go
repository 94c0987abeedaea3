package handler

import (
	"context"
	"errors"
	"strconv"

	"salarysystem/internal/engine"
	"salarysystem/internal/infrastructure/lock"
	"salarysystem/internal/model"
	"salarysystem/internal/repository"
	"salarysystem/internal/service"
	"salarysystem/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PayrollCalculator 计薪与结果查询，实现见 service.PayrollService
type PayrollCalculator interface {
	CalculateEmployeeSalary(ctx context.Context, employeeID int64, yearMonth string) (*model.PayrollResult, error)
	BatchCalculateSalary(ctx context.Context, yearMonth string, departmentID *int64) (*service.BatchSummary, error)
	GetResult(ctx context.Context, employeeID int64, yearMonth string) (*model.PayrollResult, error)
	ListResults(ctx context.Context, yearMonth string, page, pageSize int) ([]*model.PayrollResult, int64, error)
}

// GroupSaver 工资组维护，实现见 service.SalaryGroupService
type GroupSaver interface {
	SaveGroupItems(ctx context.Context, req *service.SaveGroupItemsRequest) (*service.SaveGroupItemsResult, error)
}

// Handler 统一处理器
type Handler struct {
	payroll PayrollCalculator
	groups  GroupSaver
	logger  *zap.Logger
}

func NewHandler(payroll PayrollCalculator, groups GroupSaver, logger *zap.Logger) *Handler {
	return &Handler{payroll: payroll, groups: groups, logger: logger}
}

// ============================================================
// 计薪
// ============================================================

// CalculateRequest 单个员工计薪请求
type CalculateRequest struct {
	EmployeeID int64  `json:"employee_id" binding:"required,gt=0"`
	YearMonth  string `json:"year_month" binding:"required"`
}

// Calculate 计算单个员工某月工资
// POST /api/v1/payroll/calculate
func (h *Handler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.payroll.CalculateEmployeeSalary(c.Request.Context(), req.EmployeeID, req.YearMonth)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, result)
}

// BatchRequest 批量计薪请求，DepartmentID 为空时计算全部在职员工
type BatchRequest struct {
	YearMonth    string `json:"year_month" binding:"required"`
	DepartmentID *int64 `json:"department_id"`
}

// BatchCalculate 批量计薪
// POST /api/v1/payroll/batch
func (h *Handler) BatchCalculate(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	summary, err := h.payroll.BatchCalculateSalary(c.Request.Context(), req.YearMonth, req.DepartmentID)
	if err != nil {
		if summary != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			response.ErrorWithData(c, response.CodeBatchInterrupted, "批量计薪被中断: "+err.Error(), summary)
			return
		}
		h.writeError(c, err)
		return
	}
	response.Success(c, summary)
}

// GetResult 查询员工某月工资结果
// GET /api/v1/payroll/result?employee_id=1&year_month=2024-06
func (h *Handler) GetResult(c *gin.Context) {
	employeeID, err := strconv.ParseInt(c.Query("employee_id"), 10, 64)
	if err != nil || employeeID <= 0 {
		response.ParamError(c, "employee_id 参数错误")
		return
	}

	result, err := h.payroll.GetResult(c.Request.Context(), employeeID, c.Query("year_month"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, result)
}

// ListResults 分页查询某月工资结果
// GET /api/v1/payroll/list?year_month=2024-06&page=1&page_size=20
func (h *Handler) ListResults(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		response.ParamError(c, "page 参数错误")
		return
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil {
		response.ParamError(c, "page_size 参数错误")
		return
	}

	results, total, err := h.payroll.ListResults(c.Request.Context(), c.Query("year_month"), page, pageSize)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, gin.H{
		"list":  results,
		"total": total,
		"page":  page,
	})
}

// ============================================================
// 工资组
// ============================================================

// SaveGroupItems 替换工资组成员，保存前做完整校验
// PUT /api/v1/salary-group/items
func (h *Handler) SaveGroupItems(c *gin.Context) {
	var req service.SaveGroupItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	result, err := h.groups.SaveGroupItems(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, result)
}

// writeError 按错误类别映射业务码，未识别的按服务器错误处理
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidYearMonth), errors.Is(err, service.ErrInvalidGroupRequest):
		response.ParamError(c, err.Error())
	case errors.Is(err, repository.ErrEmployeeNotFound):
		response.BusinessError(c, response.CodeEmployeeNotFound, err.Error())
	case errors.Is(err, repository.ErrResultNotFound):
		response.BusinessError(c, response.CodeResultNotFound, err.Error())
	case errors.Is(err, lock.ErrLockFailed):
		response.BusinessError(c, response.CodeCalculationBusy, err.Error())
	case errors.Is(err, engine.ErrFormula):
		response.BusinessError(c, response.CodeFormulaError, err.Error())
	case errors.Is(err, engine.ErrConfiguration):
		response.BusinessError(c, response.CodeConfigurationError, err.Error())
	default:
		h.logger.Error("请求处理失败",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		response.ServerError(c, err.Error())
	}
}
