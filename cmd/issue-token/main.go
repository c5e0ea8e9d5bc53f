// Package main issues HS256 bearer tokens for local testing against the API.
// The secret is read from JWT_SECRET_KEY (or a .env file).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/campusdesk/swo-feedback/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

func main() {
	sub := flag.String("sub", "", "User ID placed in the sub claim")
	role := flag.String("role", middleware.RoleStudent, "Role claim: admin, student, faculty, staff or graduate")
	department := flag.String("department", "", "Department ID claim")
	ttl := flag.Duration("ttl", 12*time.Hour, "Token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	secret := os.Getenv("JWT_SECRET_KEY")
	if secret == "" {
		log.Fatal("JWT_SECRET_KEY is not set")
	}

	token, err := issue(secret, *sub, *role, *department, *ttl, time.Now())
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}

func issue(secret, sub, role, department string, ttl time.Duration, now time.Time) (string, error) {
	if sub == "" {
		return "", fmt.Errorf("sub is required")
	}
	if !knownRole(role) {
		return "", fmt.Errorf("unknown role %q", role)
	}

	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	if department != "" {
		claims["department_id"] = department
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func knownRole(role string) bool {
	if role == middleware.RoleAdmin {
		return true
	}
	for _, r := range middleware.RespondentRoles {
		if r == role {
			return true
		}
	}
	return false
}
