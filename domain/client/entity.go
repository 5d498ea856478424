package client

import (
	"strings"
	"time"
)

// Client 客户（只读投影）
// 客户资料由外部协作方维护，订单上下文只读取展示名、联系方式与是否可下单
type Client struct {
	id          string
	displayName string
	contact     string
	phone       string
	email       *Email
	address     string
	isActive    bool
	createdAt   time.Time
	updatedAt   time.Time
}

// NewClient 创建客户（用于种子数据与测试）
func NewClient(id, displayName, contact, phone, email, address string) (*Client, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidFieldError("id", "client id cannot be empty")
	}
	if strings.TrimSpace(displayName) == "" {
		return nil, NewInvalidFieldError("display_name", "display name cannot be empty")
	}

	var emailVO *Email
	if strings.TrimSpace(email) != "" {
		e, err := NewEmail(email)
		if err != nil {
			return nil, err
		}
		emailVO = e
	}

	now := time.Now()
	return &Client{
		id:          id,
		displayName: strings.TrimSpace(displayName),
		contact:     strings.TrimSpace(contact),
		phone:       strings.TrimSpace(phone),
		email:       emailVO,
		address:     strings.TrimSpace(address),
		isActive:    true,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Deactivate 停用客户，停用后不能再为其创建订单
func (c *Client) Deactivate() {
	c.isActive = false
	c.updatedAt = time.Now()
}

// ============================================================================
// Getters - 只读访问器
// ============================================================================

func (c *Client) ID() string           { return c.id }
func (c *Client) DisplayName() string  { return c.displayName }
func (c *Client) Contact() string      { return c.contact }
func (c *Client) Phone() string        { return c.phone }
func (c *Client) Address() string      { return c.address }
func (c *Client) IsActive() bool       { return c.isActive }
func (c *Client) CreatedAt() time.Time { return c.createdAt }
func (c *Client) UpdatedAt() time.Time { return c.updatedAt }

// Email 邮箱，可能为空
func (c *Client) Email() string {
	if c.email == nil {
		return ""
	}
	return c.email.Value()
}

// ReconstructionDTO 客户重建数据传输对象
// ⚠️ 注意：此DTO仅应在仓储实现中使用，不应在应用层调用
type ReconstructionDTO struct {
	ID          string
	DisplayName string
	Contact     string
	Phone       string
	Email       string
	Address     string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RebuildFromDTO 从DTO重建Client
func RebuildFromDTO(dto ReconstructionDTO) *Client {
	var email *Email
	if dto.Email != "" {
		email = &Email{value: dto.Email}
	}
	return &Client{
		id:          dto.ID,
		displayName: dto.DisplayName,
		contact:     dto.Contact,
		phone:       dto.Phone,
		email:       email,
		address:     dto.Address,
		isActive:    dto.IsActive,
		createdAt:   dto.CreatedAt,
		updatedAt:   dto.UpdatedAt,
	}
}
