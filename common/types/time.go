package types

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

const (
	// DateTimeFormat 日期时间格式
	DateTimeFormat = "2006-01-02 15:04:05"
	// DateFormat 日期格式
	DateFormat = "2006-01-02"
)

// 表单与数据库中可能出现的时间写法，按顺序尝试
var timeLayouts = []string{
	DateTimeFormat,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00", // sqlite 驱动写入格式
	"2006-01-02 15:04",
	DateFormat,
}

// parseTime 解析时间字符串，空串为零值
func parseTime(s string) (time.Time, error) {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if s == "" || s == "null" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("无法解析时间: %s", s)
}

// scanTime 数据库值转换为时间
func scanTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return v, nil
	case string:
		return parseTime(v)
	case []byte:
		return parseTime(string(v))
	default:
		return time.Time{}, fmt.Errorf("无法将 %T 转换为时间", value)
	}
}

// DateTime JSON 序列化为 "yyyy-MM-dd HH:mm:ss"，零值为 null
type DateTime time.Time

// NewDateTime 从time.Time创建DateTime
func NewDateTime(t time.Time) DateTime {
	return DateTime(t)
}

// IsZero 判断是否为零值
func (t DateTime) IsZero() bool {
	return time.Time(t).IsZero()
}

func (t DateTime) String() string {
	return time.Time(t).Format(DateTimeFormat)
}

func (t DateTime) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + t.String() + `"`), nil
}

// UnmarshalJSON 兼容日期时间、ISO8601 与纯日期
func (t *DateTime) UnmarshalJSON(data []byte) error {
	parsed, err := parseTime(string(data))
	if err != nil {
		return err
	}
	*t = DateTime(parsed)
	return nil
}

func (t DateTime) Value() (driver.Value, error) {
	if t.IsZero() {
		return nil, nil
	}
	return time.Time(t), nil
}

func (t *DateTime) Scan(value any) error {
	parsed, err := scanTime(value)
	if err != nil {
		return err
	}
	*t = DateTime(parsed)
	return nil
}

// GormDBDataType 按方言选择列类型
func (DateTime) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "timestamptz"
	}
	return "datetime"
}

// Date 日期，JSON 序列化为 "yyyy-MM-dd"
type Date time.Time

// IsZero 判断是否为零值
func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) String() string {
	return time.Time(d).Format(DateFormat)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON 日期选择器可能带时间部分，统一截断到当天
func (d *Date) UnmarshalJSON(data []byte) error {
	parsed, err := parseTime(string(data))
	if err != nil {
		return err
	}
	if !parsed.IsZero() {
		y, m, day := parsed.Date()
		parsed = time.Date(y, m, day, 0, 0, 0, 0, parsed.Location())
	}
	*d = Date(parsed)
	return nil
}

func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.String(), nil
}

func (d *Date) Scan(value any) error {
	parsed, err := scanTime(value)
	if err != nil {
		return err
	}
	*d = Date(parsed)
	return nil
}

// GormDataType 日期列
func (Date) GormDataType() string {
	return "date"
}
