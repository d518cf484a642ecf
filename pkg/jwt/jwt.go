package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims incluye los claims estándar JWT más los datos del principal.
// Role viaja en el token para que el middleware RBAC decida sin consultar la DB.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"` // "empresa" | "usuarionormal" | "repartidor"
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// Subject datos del usuario que se firman en el token.
type Subject struct {
	UserID string
	Role   string
	Name   string
	Email  string
}

// Generate genera un token JWT HS256 firmado para el sujeto.
func Generate(secret string, sub Subject, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sub.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID: sub.UserID,
		Role:   sub.Role,
		Name:   sub.Name,
		Email:  sub.Email,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida el token y devuelve el sujeto firmado.
// Retorna error si el token es inválido, expirado o tiene firma incorrecta.
func Parse(secret, tokenString string) (Subject, error) {
	if secret == "" {
		return Subject{}, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Subject{}, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Subject{}, fmt.Errorf("claims inválidos")
	}
	if claims.UserID == "" {
		return Subject{}, fmt.Errorf("claims inválidos: user_id vacío")
	}
	return Subject{
		UserID: claims.UserID,
		Role:   claims.Role,
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}
