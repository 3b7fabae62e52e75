package helpers

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier hashes and verifies passwords with bcrypt.
// Each hash carries its own random salt, so hashing the same password twice
// yields two different strings that both verify.
type PasswordVerifier struct {
	Cost int
}

func NewPasswordVerifier(cost int) *PasswordVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordVerifier{Cost: cost}
}

// Hash derives the stored hash from a plaintext password.
func (v *PasswordVerifier) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), v.Cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Compare reports whether plain matches hash. A mismatch is (false, nil);
// an error is only returned when the stored hash itself is unusable or ctx
// ends first. The bcrypt work runs on its own goroutine.
func (v *PasswordVerifier) Compare(ctx context.Context, plain, hash string) (bool, error) {
	done := make(chan error, 1)
	go func() {
		done <- bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-done:
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("compare password: %w", err)
		}
	}
}
