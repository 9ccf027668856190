package models

import "github.com/google/uuid"

type User struct {
	DisplayName string
	Email       string
	Model
}

func (User) TableName() string {
	return "app_user"
}

func (u User) GetID() uuid.UUID {
	return u.ID
}
