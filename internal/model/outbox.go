package model

import (
	"time"
)

const (
	OutboxStatusPending = "PENDING"
	OutboxStatusSent    = "SENT"
	OutboxStatusFailed  = "FAILED"
)

const (
	EventPayrollCalculated = "payroll.calculated"
)

// OutboxMessage 事务消息表
// 与工资结果在同一事务内写入，由 OutboxSender 异步投递到 Kafka
type OutboxMessage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventNo    string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"event_no"`
	EventType  string    `gorm:"type:varchar(64);not null" json:"event_type"`
	MessageKey string    `gorm:"type:varchar(64);not null" json:"message_key"` // employeeID:yearMonth，保证同一员工同月的消息落在同一分区
	Topic      string    `gorm:"type:varchar(64);not null" json:"topic"`
	Payload    string    `gorm:"type:text;not null" json:"payload"`
	Status     string    `gorm:"type:varchar(20);index:idx_outbox_status_created;not null;default:PENDING" json:"status"`
	RetryCount int       `gorm:"not null;default:0" json:"retry_count"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_outbox_status_created" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (OutboxMessage) TableName() string {
	return "outbox_message"
}

// PayrollCalculatedEvent 工资计算完成事件的消息体
type PayrollCalculatedEvent struct {
	EventNo      string    `json:"event_no"`
	EmployeeID   int64     `json:"employee_id"`
	YearMonth    string    `json:"year_month"`
	TotalSalary  string    `json:"total_salary"`
	NetSalary    string    `json:"net_salary"`
	WarningCount int       `json:"warning_count"`
	CalculatedAt time.Time `json:"calculated_at"`
}
