// Package entity defines the request and response bodies of the todo HTTP API.
package entity

import "github.com/mhsanaei/todo-api/database/model"

// Token is the body returned by POST /token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginForm is the form-encoded body of POST /token.
type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// NewUser is the body of POST /user.
type NewUser struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
	Password string `json:"password" binding:"required"`
}

// UsernameUpdate is the body of PUT /user.
type UsernameUpdate struct {
	Username string `json:"username" binding:"required,min=1,max=50"`
}

type NewTask struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags" binding:"omitempty,dive,min=1,max=50"`
}

// TaskUpdate is the body of PUT /tasks/:id. A missing finished keeps the
// stored value; a missing description or tags list clears it.
type TaskUpdate struct {
	Name        string   `json:"name" binding:"required,min=1,max=100"`
	Description *string  `json:"description"`
	Finished    *bool    `json:"finished"`
	Tags        []string `json:"tags" binding:"omitempty,dive,min=1,max=50"`
}

type TaskCreated struct {
	Id int `json:"id"`
}

// PermissionRequest is the body of POST and DELETE /tasks/:id/permissions.
type PermissionRequest struct {
	RecipientId int            `json:"recipient_id" binding:"required"`
	PermType    model.PermType `json:"perm_type" binding:"required"`
}

// UserView is a user as exposed over HTTP.
type UserView struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
}

func NewUserView(u *model.User) UserView {
	return UserView{Id: u.Id, Username: u.Username}
}
