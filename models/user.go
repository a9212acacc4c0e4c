package models

import "gorm.io/gorm"

const (
	RoleUser  = "user"
	RoleAdmin = "admin" // admin 即检修人员-可以审批游戏和管理分类
)

// 用户数据
type Users struct {
	gorm.Model        //内嵌的一个模型 包括基础的ID 创建、更新、删除的时间戳
	Username   string `gorm:"unique"`
	Password   string
	Role       string `gorm:"size:20;default:user"` // user / admin
}

// 是否为检修人员
func (u *Users) IsStaff() bool { return u.Role == RoleAdmin }

// 显示使用名称
func (Users) TableName() string {
	return "users"
}
