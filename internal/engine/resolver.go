package engine

import (
	"fmt"
	"sort"

	"salarysystem/internal/model"
	"salarysystem/pkg/formula"

	"github.com/shopspring/decimal"
)

// 外部上下文变量，公式中写作 ${workYears} 等
const (
	VarBaseSalary               = "baseSalary"
	VarWorkYears                = "workYears"
	VarAttendanceExceptionCount = "attendanceExceptionCount"
	VarRewardPunishment         = "rewardPunishment"
)

// ContextVariables 编排器会提供的上下文变量
func ContextVariables() []string {
	return []string{VarBaseSalary, VarWorkYears, VarAttendanceExceptionCount, VarRewardPunishment}
}

// Component 一个已计算的工资项
type Component struct {
	Name   string          `json:"name"`
	Order  int             `json:"order"`
	Amount decimal.Decimal `json:"amount"`
}

// Resolution 工资组计算结果，Total 恒等于 Components 金额之和
type Resolution struct {
	Components []Component
	Total      decimal.Decimal
}

// Values 工资项名 -> 金额
func (r *Resolution) Values() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(r.Components))
	for _, c := range r.Components {
		out[c.Name] = c.Amount
	}
	return out
}

type planStep struct {
	item  *model.SalaryItem
	order int
	expr  *formula.Expression
}

// Plan 校验通过、按计算顺序排好的工资组
type Plan struct {
	steps []planStep
}

// Len 工资项数量
func (p *Plan) Len() int {
	return len(p.steps)
}

// Compile 静态校验工资组并生成计算计划，不做任何求值
//
// 校验内容：
//  1. 计算顺序在组内唯一
//  2. 每个成员都有工资项定义，名称不重复，且不与上下文变量重名
//  3. 依赖图无环
//  4. 每个引用要么指向顺序更小的工资项，要么是已知上下文变量
func Compile(group *model.SalaryGroup, items map[int64]*model.SalaryItem, contextVars []string) (*Plan, error) {
	members := make([]model.SalaryGroupItem, len(group.Members))
	copy(members, group.Members)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].CalculationOrder < members[j].CalculationOrder
	})

	known := make(map[string]bool, len(contextVars))
	for _, v := range contextVars {
		known[v] = true
	}

	orderOf := make(map[string]int, len(members))
	steps := make([]planStep, 0, len(members))
	for i, m := range members {
		if i > 0 && members[i-1].CalculationOrder == m.CalculationOrder {
			return nil, fmt.Errorf("%w: %w: 顺序号 %d", ErrFormula, ErrDuplicateOrder, m.CalculationOrder)
		}
		item, ok := items[m.SalaryItemID]
		if !ok || item == nil {
			return nil, fmt.Errorf("%w: 工资组 %d 缺少工资项 %d 的定义", ErrConfiguration, group.ID, m.SalaryItemID)
		}
		if _, dup := orderOf[item.Name]; dup {
			return nil, fmt.Errorf("%w: 工资项名 %s 重复", ErrConfiguration, item.Name)
		}
		if known[item.Name] {
			return nil, fmt.Errorf("%w: 工资项名 %s 与上下文变量重名", ErrConfiguration, item.Name)
		}
		orderOf[item.Name] = m.CalculationOrder
		steps = append(steps, planStep{item: item, order: m.CalculationOrder})
	}

	graph := NewDependencyGraph()
	refs := make([][]string, len(steps))
	for i := range steps {
		expr, vars, err := references(steps[i].item)
		if err != nil {
			return nil, err
		}
		steps[i].expr = expr
		refs[i] = vars

		graph.AddNode(steps[i].item.Name)
		for _, v := range vars {
			if _, isItem := orderOf[v]; isItem {
				graph.AddEdge(steps[i].item.Name, v)
			}
		}
	}
	if _, err := graph.TopologicalOrder(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormula, err)
	}

	for i, s := range steps {
		for _, v := range refs[i] {
			if order, isItem := orderOf[v]; isItem {
				if order >= s.order {
					return nil, itemError(s.item.Name, fmt.Errorf("%w: %s（顺序 %d）引用了 %s（顺序 %d）",
						ErrInvalidOrdering, s.item.Name, s.order, v, order))
				}
				continue
			}
			if !known[v] {
				return nil, itemError(s.item.Name, fmt.Errorf("%w: %s", ErrUnknownVariable, v))
			}
		}
	}

	return &Plan{steps: steps}, nil
}

// Evaluate 按顺序求值，每一项的环境是上下文变量加上之前已算出的工资项
// 每一项保留两位小数后再累加，保证合计与明细一致
func (p *Plan) Evaluate(vars formula.Env) (*Resolution, error) {
	env := make(formula.Env, len(vars)+len(p.steps))
	for k, v := range vars {
		env[k] = v
	}

	res := &Resolution{Components: make([]Component, 0, len(p.steps)), Total: decimal.Zero}
	for _, s := range p.steps {
		v, err := evaluateCompiled(s.item, s.expr, env)
		if err != nil {
			return nil, err
		}
		v = v.Round(2)
		env[s.item.Name] = v
		res.Components = append(res.Components, Component{Name: s.item.Name, Order: s.order, Amount: v})
		res.Total = res.Total.Add(v)
	}
	return res, nil
}

// Resolve 校验并计算工资组；校验失败时不产生任何部分结果
func Resolve(group *model.SalaryGroup, items map[int64]*model.SalaryItem, vars formula.Env) (*Resolution, error) {
	names := make([]string, 0, len(vars))
	for k := range vars {
		names = append(names, k)
	}
	plan, err := Compile(group, items, names)
	if err != nil {
		return nil, err
	}
	return plan.Evaluate(vars)
}

// ValidateGroup 保存工资组时调用，只校验不计算
func ValidateGroup(group *model.SalaryGroup, items map[int64]*model.SalaryItem) error {
	_, err := Compile(group, items, ContextVariables())
	return err
}
