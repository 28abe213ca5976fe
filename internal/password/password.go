// Package password wraps bcrypt hashing and verification of account passwords.
package password

import "golang.org/x/crypto/bcrypt"

const hashCost = 10

// Hash hashes a plaintext password using bcrypt.
func Hash(plain []byte) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(plain, hashCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether plain matches the stored bcrypt hash.
func Compare(hash string, plain []byte) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), plain) == nil
}
