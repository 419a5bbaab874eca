package protocol

// Permission 权限位的序号
type Permission uint

const (
	PermissionHost Permission = 0
)

// Permissions 玩家权限位掩码
type Permissions int

// Has 是否拥有指定权限位
func (p Permissions) Has(bit Permission) bool {
	return p&(1<<bit) > 0
}

// With 返回设置了指定权限位的掩码
func (p Permissions) With(bit Permission) Permissions {
	return p | (1 << bit)
}

// IsHost 是否是房主
func (p Permissions) IsHost() bool {
	return p.Has(PermissionHost)
}

// PermissionSet 解码后的权限
type PermissionSet struct {
	IsHost bool
}

// Decode 将位掩码解码为 PermissionSet
func (p Permissions) Decode() PermissionSet {
	return PermissionSet{IsHost: p.IsHost()}
}
