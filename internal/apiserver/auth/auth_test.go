package auth

import (
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "s3cret-password" {
		t.Fatal("hash equals plaintext")
	}
	if !CheckPassword("s3cret-password", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong-password", hash) {
		t.Error("wrong password accepted")
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	cfg := Config{JWTSecret: "test-secret", TokenTTL: time.Hour}

	token, err := GenerateToken(cfg, "adm-abc123", "admin@example.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Subject != "adm-abc123" {
		t.Errorf("Subject = %q, want adm-abc123", claims.Subject)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("Email = %q, want admin@example.com", claims.Email)
	}

	// 有效期约 7 天（默认）或配置值
	exp := claims.ExpiresAt.Time
	want := time.Now().Add(time.Hour)
	if exp.Before(want.Add(-time.Minute)) || exp.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want ~%v", exp, want)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := GenerateToken(Config{JWTSecret: "secret-a", TokenTTL: time.Hour}, "adm-1", "a@b.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(Config{JWTSecret: "secret-b"}, token); err == nil {
		t.Error("token signed with different secret was accepted")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := Config{JWTSecret: "test-secret", TokenTTL: -time.Minute}
	token, err := GenerateToken(cfg, "adm-1", "a@b.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := ParseToken(cfg, token); err == nil {
		t.Error("expired token was accepted")
	}
}

func TestGenerateTokenDefaultTTL(t *testing.T) {
	cfg := Config{JWTSecret: "test-secret"}
	token, err := GenerateToken(cfg, "adm-1", "a@b.com")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	want := time.Now().Add(TokenTTL)
	exp := claims.ExpiresAt.Time
	if exp.Before(want.Add(-time.Minute)) || exp.After(want.Add(time.Minute)) {
		t.Errorf("ExpiresAt = %v, want ~7d from now", exp)
	}
}

func TestGenerateID(t *testing.T) {
	id1 := generateID("adm")
	id2 := generateID("adm")
	if id1 == id2 {
		t.Error("generateID returned duplicate")
	}
	if len(id1) != len("adm-")+12 {
		t.Errorf("id length = %d, want %d", len(id1), len("adm-")+12)
	}
}
