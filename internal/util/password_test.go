package util

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "s3cret-pass" {
		t.Error("HashPassword() returned the plaintext")
	}

	if !CheckPassword("s3cret-pass", hash) {
		t.Error("CheckPassword(correct) = false, want true")
	}
	if CheckPassword("wrong-pass", hash) {
		t.Error("CheckPassword(wrong) = true, want false")
	}
}
