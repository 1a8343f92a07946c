package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/foodshare/foodshare/internal/models"
)

// Context groups the collections. It is built once at start-up and handed to
// the services; a transaction gets its own Context bound to the tx handle.
type Context struct {
	db *gorm.DB

	Users         *UserStore
	DonationItems *DonationItemStore
	Requests      *RequestStore
	Contacts      *ContactStore
	Sessions      *SessionStore
}

// New binds every collection to db.
func New(db *gorm.DB) *Context {
	return &Context{
		db:            db,
		Users:         &UserStore{NewRepository[models.User](db)},
		DonationItems: &DonationItemStore{NewRepository[models.DonationItem](db)},
		Requests:      &RequestStore{NewRepository[models.Request](db)},
		Contacts:      &ContactStore{NewRepository[models.Contact](db)},
		Sessions:      &SessionStore{NewRepository[models.Session](db)},
	}
}

// DB returns the handle the collections are bound to.
func (c *Context) DB() *gorm.DB {
	return c.db
}

// Transaction runs fn against a Context whose collections share one
// database transaction. Returning an error rolls everything back.
func (c *Context) Transaction(ctx context.Context, fn func(tx *Context) error) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
