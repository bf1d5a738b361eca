package helpers

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"math/big"
	"net/http"
	"testing"
)

func randInt(max int) int {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(max)))
	return int(n.Int64())
}

// GeneratePassword generates a 10 character password with a capital and special char
func GeneratePassword() string {
	const (
		lower   = "abcdefghijklmnopqrstuvwxyz"
		upper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
		special = "!@#$%^&*"
		numbers = "0123456789"
		all     = lower + upper + special + numbers
	)

	password := make([]byte, 10)
	password[0] = upper[randInt(len(upper))]
	password[1] = special[randInt(len(special))]
	password[2] = numbers[randInt(len(numbers))]

	for i := 3; i < 10; i++ {
		password[i] = all[randInt(len(all))]
	}

	for i := range password {
		j := randInt(len(password))
		password[i], password[j] = password[j], password[i]
	}

	return string(password)
}

// AcquireAccount registers an account against a running service and logs in
// to get a bearer token. Registration errors are ignored so the account can
// be reused across tests.
func AcquireAccount(t *testing.T, baseURL, username, password, role string, baseID *uint64) string {
	t.Helper()

	registerBody := map[string]interface{}{
		"username": username,
		"password": password,
		"role":     role,
	}
	if baseID != nil {
		registerBody["baseId"] = *baseID
	}

	payload, _ := json.Marshal(registerBody)
	resp, err := http.Post(baseURL+"/api/auth/register", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Failed to register account: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		// Account may already exist from a previous run
		t.Logf("Register returned %d (might already exist)", resp.StatusCode)
	}

	payload, _ = json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	resp, err = http.Post(baseURL+"/api/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	var result struct {
		Token string `json:"token"`
	}
	ParseJSON(t, resp, &result)

	if result.Token == "" {
		t.Fatal("Access token is empty")
	}

	return result.Token
}
