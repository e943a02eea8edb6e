package auth

import "golang.org/x/crypto/bcrypt"

// HashKey hashes a plaintext gateway key with the configured cost.
func HashKey(key string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(key), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CompareKey verifies a gateway key against its hashed value.
func CompareKey(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
