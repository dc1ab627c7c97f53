package service

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/xela07ax/spaceai-agent-scene/internal/domain"
	"github.com/xela07ax/spaceai-agent-scene/internal/infra"
	"github.com/xela07ax/spaceai-agent-scene/internal/infra/auth"
)

// AuthService выпускает и проверяет RS256-токены операторов консоли.
// Источник правды по пользователям — секция auth.users конфига:
// своей пользовательской БД у дашборда нет, пароли лежат bcrypt-хэшами.
type AuthService struct {
	*auth.BaseValidator // Проверка токенов на защищенном периметре

	users      map[string]domain.User
	privateKey *rsa.PrivateKey
	tokenTTL   time.Duration
}

func NewAuthService(cfg infra.AuthConfig, privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) *AuthService {
	users := make(map[string]domain.User, len(cfg.Users))
	for _, uc := range cfg.Users {
		scopes := make(map[string]bool, len(uc.Scopes))
		for _, s := range uc.Scopes {
			scopes[s] = true
		}
		users[uc.Username] = domain.User{
			ID:           uuid.NewString(),
			Username:     uc.Username,
			PasswordHash: uc.PasswordHash,
			Role:         uc.Role,
			Scopes:       scopes,
			CreatedAt:    time.Now(),
		}
	}

	return &AuthService{
		BaseValidator: auth.NewBaseValidator(publicKey),
		users:         users,
		privateKey:    privateKey,
		tokenTTL:      cfg.TokenTTL,
	}
}

func (s *AuthService) GenerateToken(username, password string) (*domain.TokenResponse, error) {
	// 1. Аутентификация по конфигу
	user, ok := s.users[username]
	if !ok {
		return nil, errors.New("invalid credentials")
	}

	// 2. Проверка пароля (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	// 3. Claims со scopes оператора
	expiresAt := time.Now().Add(s.tokenTTL)
	claims := &domain.CustomClaims{
		UserID: user.ID,
		Scopes: user.Scopes,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "scene-console",
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	// 4. Подпись закрытым ключом (RS256)
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signedToken, err := token.SignedString(s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &domain.TokenResponse{
		AccessToken: signedToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	}, nil
}
