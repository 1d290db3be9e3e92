package utils

import (
	"testing"
	"time"

	"github.com/FBNTech/ndosiphar/internal/models"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hashed == "s3cret" {
		t.Fatal("password stored in plain text")
	}
	if !CheckPassword("s3cret", hashed) {
		t.Error("correct password rejected")
	}
	if CheckPassword("wrong", hashed) {
		t.Error("wrong password accepted")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := models.JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "ndosiphar",
		Audience:  "ndosiphar-web",
		Algorithm: "HS256",
		Expiry:    time.Hour,
	}
	user := models.JWT{ID: 7, Name: "Amina", Username: "amina", Role: models.ROLE_SELLER}

	token, err := GenerateJWT(user, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ParseJWT(token, cfg)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.ID != 7 || claims.Username != "amina" || claims.Role != models.ROLE_SELLER {
		t.Errorf("claims = %+v, want id 7 / amina / seller", claims)
	}
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	cfg := models.JWTConfig{
		SecretKey: "test-secret",
		Issuer:    "ndosiphar",
		Audience:  "ndosiphar-web",
		Algorithm: "HS256",
		Expiry:    time.Hour,
	}
	token, err := GenerateJWT(models.JWT{ID: 1, Username: "x"}, cfg)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := cfg
	other.SecretKey = "different-secret"
	if _, err := ParseJWT(token, other); err == nil {
		t.Error("token signed with another secret was accepted")
	}
}
