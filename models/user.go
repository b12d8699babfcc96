package models

import "backend/store"

type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Password string `json:"-"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func UserFromDoc(id string, d store.Doc) User {
	name, _ := d["name"].(string)
	email, _ := d["email"].(string)
	role, _ := d["role"].(string)
	password, _ := d["password"].(string)
	return User{ID: id, Name: name, Email: email, Role: role, Password: password}
}

func (u User) Doc() store.Doc {
	return store.Doc{
		"name":     u.Name,
		"email":    u.Email,
		"role":     u.Role,
		"password": u.Password,
	}
}
