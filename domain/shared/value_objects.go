package shared

import (
	"github.com/shopspring/decimal"
)

// Epsilon 金额比较容差，用于吸收舍入误差（判定"已付清"等）
var Epsilon = decimal.RequireFromString("0.005")

// moneyScale 金额精度：两位小数
const moneyScale = 2

// Money 值对象 - 表示金额
// 内部使用 decimal 存储，始终保持两位小数精度
type Money struct {
	amount decimal.Decimal
}

// NewMoney 创建新的Money值对象（四舍五入到两位小数）
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(moneyScale)}
}

// ZeroMoney 零金额
func ZeroMoney() Money {
	return Money{amount: decimal.Zero}
}

// MoneyFromFloat 由浮点数创建金额
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// MoneyFromInt 由整数创建金额
func MoneyFromInt(i int64) Money {
	return NewMoney(decimal.NewFromInt(i))
}

// ParseMoney 解析字符串金额
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(d), nil
}

// Decimal 获取底层 decimal 值
func (m Money) Decimal() decimal.Decimal {
	return m.amount
}

// Add 金额相加，返回新的Money值对象
func (m Money) Add(other Money) Money {
	return NewMoney(m.amount.Add(other.amount))
}

// Subtract 金额相减，返回新的Money值对象
func (m Money) Subtract(other Money) Money {
	return NewMoney(m.amount.Sub(other.amount))
}

// MultiplyInt 乘以数量（如单价 × 数量）
func (m Money) MultiplyInt(n int) Money {
	return NewMoney(m.amount.Mul(decimal.NewFromInt(int64(n))))
}

// MultiplyRatio 乘以比例（如 0.15、0.015），结果四舍五入到两位小数
func (m Money) MultiplyRatio(ratio decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(ratio))
}

// IsZero 是否为零
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// IsPositive 是否为正
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// IsNegative 是否为负
func (m Money) IsNegative() bool {
	return m.amount.IsNegative()
}

// IsGreaterThan 比较金额是否大于另一个金额
func (m Money) IsGreaterThan(other Money) bool {
	return m.amount.GreaterThan(other.amount)
}

// IsGreaterThanOrEqual 比较金额是否大于或等于另一个金额
func (m Money) IsGreaterThanOrEqual(other Money) bool {
	return m.amount.GreaterThanOrEqual(other.amount)
}

// IsLessThan 比较金额是否小于另一个金额
func (m Money) IsLessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// ExceedsBy 判断 m 是否超出 other 且差额大于容差
func (m Money) ExceedsBy(other Money, tolerance decimal.Decimal) bool {
	return m.amount.Sub(other.amount).GreaterThan(tolerance)
}

// CoversWithin 判断 m 是否在容差范围内达到 other（m >= other - tolerance）
func (m Money) CoversWithin(other Money, tolerance decimal.Decimal) bool {
	return m.amount.GreaterThanOrEqual(other.amount.Sub(tolerance))
}

// Max 返回两者较大值
func (m Money) Max(other Money) Money {
	if m.amount.GreaterThanOrEqual(other.amount) {
		return m
	}
	return other
}

// Equals 比较两个Money值对象是否相等
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String 两位小数字符串，如 "2300.00"
func (m Money) String() string {
	return m.amount.StringFixed(moneyScale)
}

// Float64 转为浮点（仅用于指标等非精确场景）
func (m Money) Float64() float64 {
	f, _ := m.amount.Float64()
	return f
}

// SumMoney 求和
func SumMoney(values ...Money) Money {
	total := ZeroMoney()
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
