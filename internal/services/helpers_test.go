package services_test

import "golang.org/x/crypto/bcrypt"

func bcryptHash(key string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.MinCost)
	return string(b), err
}
