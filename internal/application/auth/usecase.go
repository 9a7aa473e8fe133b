package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/coffeelink/marketplace-api/internal/application/dto"
	"github.com/coffeelink/marketplace-api/internal/domain"
	"github.com/coffeelink/marketplace-api/internal/domain/entity"
	"github.com/coffeelink/marketplace-api/internal/domain/repository"
	"github.com/coffeelink/marketplace-api/pkg/jwt"
)

// TokenConfig configuración para emisión de tokens.
type TokenConfig struct {
	Secret        string
	AccessMinutes int
	RefreshDays   int
	Issuer        string
}

// AuthUseCase ciclo de vida de sesión: signup, login, OAuth, logout y rotación
// de refresh tokens. A lo más un refresh token válido por usuario; la rotación
// invalida el anterior de forma permanente.
type AuthUseCase struct {
	userRepo repository.UserRepository
	mailer   Mailer
	tokens   TokenConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, mailer Mailer, tokens TokenConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, mailer: mailer, tokens: tokens}
}

// Signup crea un usuario consumer: hashea password con bcrypt, crea el perfil
// vacío y emite el par de tokens. El rol es siempre CONSUMER sin importar el
// contenido del email; la promoción a negocio es un flujo aparte.
// Devuelve ErrCredencialDuplicada si el email ya existe.
func (uc *AuthUseCase) Signup(in dto.SignupRequest) (*dto.SessionResponse, error) {
	existing, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrCredencialDuplicada
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Role:         entity.RoleConsumer,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		Profile:      &entity.Profile{AvatarURL: defaultAvatarURL(in.FirstName, in.LastName)},
	}
	user.Profile.UserID = user.ID
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	// Bienvenida best-effort: no bloquea ni hace fallar el registro.
	if uc.mailer != nil {
		go func(email, name string) {
			_ = uc.mailer.SendWelcome(email, name)
		}(user.Email, user.FirstName)
	}

	return uc.issueSession(user)
}

// Login verifica email/password y emite un par fresco de tokens, sobre-
// escribiendo cualquier refresh token anterior (una sesión activa por usuario).
// Email inexistente y password incorrecto devuelven el mismo error para no
// permitir enumeración de cuentas.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.SessionResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrCredencialesInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrCredencialesInvalidas
	}
	if !user.IsActive {
		return nil, domain.ErrCuentaDeshabilitada
	}
	return uc.issueSession(user)
}

// LoginWithOAuth inicia sesión con una identidad externa ya verificada.
// Si no existe cuenta local para ese email, la crea con un password hash
// aleatorio jamás utilizable (la cuenta no admite login por password) y con
// el email marcado como verificado. Si la cuenta ya existe, marca el email
// como verificado. Idempotente para el mismo email.
func (uc *AuthUseCase) LoginWithOAuth(in dto.OAuthIdentity) (*dto.SessionResponse, error) {
	if in.Email == "" {
		return nil, domain.ErrEntradaInvalida
	}
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		if !user.IsActive {
			return nil, domain.ErrCuentaDeshabilitada
		}
		// El proveedor acaba de verificar la propiedad del email.
		if !user.IsEmailVerified {
			user.IsEmailVerified = true
			if err := uc.userRepo.Update(user); err != nil {
				return nil, err
			}
		}
	}
	if user == nil {
		randomSecret := make([]byte, 32)
		if _, err := rand.Read(randomSecret); err != nil {
			return nil, fmt.Errorf("generar password aleatorio: %w", err)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(randomSecret)), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		now := time.Now()
		user = &entity.User{
			ID:              uuid.New().String(),
			Email:           in.Email,
			PasswordHash:    string(hash),
			FirstName:       in.FirstName,
			LastName:        in.LastName,
			Role:            entity.RoleConsumer,
			IsActive:        true,
			IsEmailVerified: true, // el proveedor OAuth ya verificó el email
			CreatedAt:       now,
			UpdatedAt:       now,
			Profile:         &entity.Profile{AvatarURL: in.AvatarURL},
		}
		user.Profile.UserID = user.ID
		if err := uc.userRepo.Create(user); err != nil {
			// Carrera con otro login OAuth del mismo email: reusar la cuenta ya creada.
			if err == domain.ErrCredencialDuplicada {
				user, err = uc.userRepo.GetByEmail(in.Email)
				if err != nil {
					return nil, err
				}
			} else {
				return nil, err
			}
		}
	}
	return uc.issueSession(user)
}

// Logout limpia el hash del refresh token almacenado. Siempre tiene éxito
// (no-op si ya estaba limpio).
func (uc *AuthUseCase) Logout(userID string) error {
	return uc.userRepo.ClearRefreshTokenHash(userID)
}

// Refresh rota el refresh token: valida el presentado contra el hash
// almacenado, emite un par nuevo y sobreescribe el hash con un update
// condicional. El token presentado queda inválido de forma permanente
// (anti-replay): de dos refresh concurrentes con el mismo token solo uno
// commitea, el otro recibe ErrAccesoDenegado.
func (uc *AuthUseCase) Refresh(userID, presented string) (*dto.TokenPairResponse, error) {
	claims, err := jwt.Parse(uc.tokens.Secret, presented, jwt.UseRefresh)
	if err != nil || claims.Subject != userID {
		return nil, domain.ErrAccesoDenegado
	}
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshTokenHash == "" {
		return nil, domain.ErrAccesoDenegado
	}
	if !user.IsActive {
		return nil, domain.ErrCuentaDeshabilitada
	}
	presentedHash := hashRefreshToken(presented)
	if subtle.ConstantTimeCompare([]byte(presentedHash), []byte(user.RefreshTokenHash)) != 1 {
		return nil, domain.ErrAccesoDenegado
	}

	access, refresh, err := uc.generatePair(user)
	if err != nil {
		return nil, err
	}
	swapped, err := uc.userRepo.SwapRefreshTokenHash(userID, hashRefreshToken(refresh), presentedHash)
	if err != nil {
		return nil, err
	}
	if !swapped {
		return nil, domain.ErrAccesoDenegado
	}
	return &dto.TokenPairResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// Validate carga el usuario (con perfil) para adjuntarlo a la sesión.
// Devuelve nil si no existe. Nunca expone hashes.
func (uc *AuthUseCase) Validate(userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByIDWithProfile(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	return toUserResponse(user), nil
}

// issueSession emite el par de tokens y persiste el hash del refresh.
func (uc *AuthUseCase) issueSession(user *entity.User) (*dto.SessionResponse, error) {
	access, refresh, err := uc.generatePair(user)
	if err != nil {
		return nil, err
	}
	if err := uc.userRepo.SetRefreshTokenHash(user.ID, hashRefreshToken(refresh)); err != nil {
		return nil, err
	}
	return &dto.SessionResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         *toUserResponse(user),
	}, nil
}

func (uc *AuthUseCase) generatePair(user *entity.User) (access, refresh string, err error) {
	access, err = jwt.GenerateAccess(uc.tokens.Secret, user.ID, user.Email, user.Role, uc.tokens.Issuer, uc.tokens.AccessMinutes)
	if err != nil {
		return "", "", err
	}
	refresh, err = jwt.GenerateRefresh(uc.tokens.Secret, user.ID, user.Email, user.Role, uc.tokens.Issuer, uc.tokens.RefreshDays)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// hashRefreshToken digest SHA-256 en hex del refresh token firmado.
// Determinístico para que el update condicional de la rotación pueda comparar
// contra el valor almacenado (bcrypt no sirve aquí: trunca a 72 bytes y no es
// comparable por igualdad).
func hashRefreshToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// defaultAvatarURL avatar generado a partir del nombre (mismo proveedor que el frontend).
func defaultAvatarURL(firstName, lastName string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(firstName+" "+lastName) + "&background=random"
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	out := &dto.UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
	if u.Profile != nil {
		out.AvatarURL = u.Profile.AvatarURL
	}
	return out
}
