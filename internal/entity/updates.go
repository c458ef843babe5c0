package entity

// UserUpdates 用户可更新字段，密码走单独的路径
type UserUpdates struct {
	Name    *string
	Email   *string
	Address *string
	Role    *Role
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u UserUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.Address != nil {
		updates["address"] = *u.Address
	}
	if u.Role != nil {
		updates["role"] = string(*u.Role)
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u UserUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}

// StoreUpdates 商店可更新字段
type StoreUpdates struct {
	Name    *string
	Email   *string
	Address *string
	OwnerID *uint
}

// ToMap 转换为 GORM 更新 map（内部使用）
func (u StoreUpdates) ToMap() map[string]interface{} {
	updates := make(map[string]interface{})
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Email != nil {
		updates["email"] = *u.Email
	}
	if u.Address != nil {
		updates["address"] = *u.Address
	}
	if u.OwnerID != nil {
		updates["owner_id"] = *u.OwnerID
	}
	return updates
}

// IsEmpty 检查是否没有任何更新字段
func (u StoreUpdates) IsEmpty() bool {
	return len(u.ToMap()) == 0
}
