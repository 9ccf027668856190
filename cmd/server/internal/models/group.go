package models

import "github.com/google/uuid"

type Group struct {
	Name string
	Model
}

func (Group) TableName() string {
	return "community_group"
}

func (g Group) GetID() uuid.UUID {
	return g.ID
}

type GroupMember struct {
	Model
	GroupID uuid.UUID
	UserID  uuid.UUID
}

func (GroupMember) TableName() string {
	return "community_group_member"
}

func (m GroupMember) GetID() uuid.UUID {
	return m.ID
}
