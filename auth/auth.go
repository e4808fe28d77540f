package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Shineselorm/learnlab-api/config"
)

// TokenClaims is what a verified token resolves to.
type TokenClaims struct {
	UserID uint
	JTI    string
}

// HashPassword returns the bcrypt hash of a plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CreateToken mints a signed token for the user. The returned jti must
// be persisted as an AuthToken row; verification checks for it.
func CreateToken(userID uint, expiry time.Duration) (token string, jti string, err error) {
	jti = uuid.NewString()
	claims := jwt.MapClaims{
		"sub": fmt.Sprintf("%d", userID),
		"jti": jti,
		"exp": time.Now().Add(expiry).Unix(),
		"iat": time.Now().Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token, err = t.SignedString([]byte(config.Cfg.SecretKey))
	if err != nil {
		return "", "", err
	}
	return token, jti, nil
}

// VerifyToken validates signature and expiry and extracts the claims.
func VerifyToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.Cfg.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	jti, _ := claims["jti"].(string)
	if jti == "" {
		return nil, fmt.Errorf("token missing jti")
	}

	var userID uint
	if _, err := fmt.Sscanf(sub, "%d", &userID); err != nil {
		return nil, fmt.Errorf("malformed subject: %w", err)
	}
	return &TokenClaims{UserID: userID, JTI: jti}, nil
}
