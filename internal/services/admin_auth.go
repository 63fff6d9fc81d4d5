package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadAdminKey = errors.New("invalid admin key")

// AdminAuth checks the shared admin key against its bcrypt hash. An empty hash
// disables every mutating endpoint.
type AdminAuth struct {
	Hash []byte
}

func NewAdminAuth(hash string) *AdminAuth {
	return &AdminAuth{Hash: []byte(strings.TrimSpace(hash))}
}

func (a *AdminAuth) Check(key string) error {
	if a == nil || len(a.Hash) == 0 || key == "" {
		return ErrBadAdminKey
	}
	if bcrypt.CompareHashAndPassword(a.Hash, []byte(key)) != nil {
		return ErrBadAdminKey
	}
	return nil
}
