package model

// OperationLog 操作日志模型
type OperationLog struct {
	BaseModel
	UserID    uint   `gorm:"index" json:"userId"`
	Username  string `gorm:"size:50" json:"username"`
	Module    string `gorm:"size:50;index" json:"module"` // 资源标识
	Action    string `gorm:"size:50" json:"action"`       // create, update, delete
	TargetID  uint   `json:"targetId"`
	Method    string `gorm:"size:10" json:"method"`
	Path      string `gorm:"size:255" json:"path"`
	IP        string `gorm:"size:50" json:"ip"`
	UserAgent string `gorm:"size:500" json:"userAgent"`
	Params    string `gorm:"type:text" json:"params"`
	Status    int8   `json:"status"`   // 0:失败 1:成功
	Duration  int64  `json:"duration"` // 耗时(ms)
	ErrorMsg  string `gorm:"size:500" json:"errorMsg"`
}

// TableName 表名
func (OperationLog) TableName() string {
	return "sys_operation_log"
}
