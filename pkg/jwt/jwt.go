package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Usos válidos del claim token_use. Separan las dos clases de token para que
// un refresh token nunca sirva como access token ni al revés.
const (
	UseAccess  = "access"
	UseRefresh = "refresh"
)

// Claims incluye los claims estándar JWT más los campos propios de la aplicación.
// Subject es el ID del usuario; Email y Role permiten autorización gruesa sin
// segunda consulta a la DB (los checks finos releen del store).
type Claims struct {
	jwt.RegisteredClaims
	Email    string `json:"email"`
	Role     string `json:"role"`
	TokenUse string `json:"token_use"` // "access" | "refresh"
}

// GenerateAccess genera un access token firmado de vida corta (minutos).
func GenerateAccess(secret, userID, email, role, issuer string, expMinutes int) (string, error) {
	return generate(secret, userID, email, role, issuer, UseAccess, time.Duration(expMinutes)*time.Minute)
}

// GenerateRefresh genera un refresh token firmado de vida larga (días).
// Cada token lleva un JTI aleatorio: dos refresh emitidos en el mismo instante
// nunca son la misma cadena (la rotación exige que el nuevo difiera del viejo).
func GenerateRefresh(secret, userID, email, role, issuer string, expDays int) (string, error) {
	return generate(secret, userID, email, role, issuer, UseRefresh, time.Duration(expDays)*24*time.Hour)
}

func generate(secret, userID, email, role, issuer, use string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:    email,
		Role:     role,
		TokenUse: use,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración y uso esperado, y devuelve los claims.
// Retorna error si el token es inválido, expirado, con firma incorrecta o si
// token_use no coincide con expectedUse.
func Parse(secret, tokenString, expectedUse string) (*Claims, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("claims inválidos")
	}
	if claims.TokenUse != expectedUse {
		return nil, fmt.Errorf("token_use inválido: se esperaba %s", expectedUse)
	}
	return claims, nil
}
