package services

import (
	"context"
	"errors"
	"strings"

	"backend/models"
	"backend/store"
	"backend/utils"
)

const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

var ErrEmailTaken = errors.New("email already registered")

// Users covers registration, login and admin user management.
type Users struct {
	store store.TransactionalStore
}

func NewUsers(s store.TransactionalStore) *Users {
	return &Users{store: s}
}

func validRole(role string) bool {
	return role == RoleCustomer || role == RoleStaff || role == RoleAdmin
}

func (u *Users) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" || req.Name == "" {
		return models.User{}, invalidInput("name, email and password are required")
	}
	role := req.Role
	if role == "" {
		role = RoleCustomer
	}
	if !validRole(role) {
		return models.User{}, invalidInput("unknown role %s", role)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{
		ID:       u.store.NewID(),
		Name:     req.Name,
		Email:    email,
		Role:     role,
		Password: hash,
	}
	// The uniqueness check rides inside the transaction: the claim doc is
	// keyed by the email itself, so two racing registrations collide on it
	// and the loser's retry sees the winner's claim.
	err = u.store.RunTransaction(ctx, func(tx store.Tx) error {
		claim, err := tx.Get(colUserEmails, email)
		if err != nil {
			return err
		}
		if claim != nil {
			return ErrEmailTaken
		}
		tx.Set(colUserEmails, email, store.Doc{"userId": user.ID})
		tx.Set(colUsers, user.ID, user.Doc())
		return nil
	})
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (u *Users) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := u.findByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return models.User{}, err
	}
	if err := utils.VerifyPassword(user.Password, password); err != nil {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (u *Users) findByEmail(ctx context.Context, email string) (models.User, error) {
	snaps, err := u.store.Query(ctx, colUsers, store.Query{
		Filters: []store.Filter{{Field: "email", Op: "==", Value: email}},
		Limit:   1,
	})
	if err != nil {
		return models.User{}, err
	}
	if len(snaps) == 0 {
		return models.User{}, ErrUserNotFound
	}
	return models.UserFromDoc(snaps[0].ID, snaps[0].Data), nil
}

func (u *Users) List(ctx context.Context) ([]models.User, error) {
	snaps, err := u.store.Query(ctx, colUsers, store.Query{OrderBy: "name"})
	if err != nil {
		return nil, err
	}
	out := make([]models.User, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, models.UserFromDoc(snap.ID, snap.Data))
	}
	return out, nil
}

func (u *Users) Delete(ctx context.Context, id string) error {
	return u.store.RunTransaction(ctx, func(tx store.Tx) error {
		doc, err := tx.Get(colUsers, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return ErrUserNotFound
		}
		tx.Delete(colUsers, id)
		if email, ok := doc["email"].(string); ok && email != "" {
			tx.Delete(colUserEmails, email)
		}
		return nil
	})
}
