// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"weeklist_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// registerTokenTTL は登録時に発行するトークンの有効期間です。
	registerTokenTTL = 3 * time.Hour

	// loginTokenTTL はログイン時に発行するトークンの有効期間です。
	// 登録時より短いのはプロダクト上の選択であり、導出値ではありません。
	loginTokenTTL = 2 * time.Hour
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに一致するユーザーを取得します。
	// ユーザーが存在しない場合、ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdateToken は参照用の直近トークンをユーザーに保存します。
	UpdateToken(ctx context.Context, id uint, token string) error
}

// TokenIssuer はJWTトークン発行のインターフェースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/jwt）ではなくコンシューマー（usecase）が定義します。
type TokenIssuer interface {
	// GenerateToken は指定されたTTLで署名済みJWTトークンを生成します。
	// emailが空の場合、emailクレームは含まれません。
	GenerateToken(userID uint, email string, ttl time.Duration) (string, error)
}

// RegisterInput は新規登録に必要な全フィールドを保持します。
type RegisterInput struct {
	Fullname string
	Email    string
	Password string
	Age      int
	Gender   string
	Mobile   string
}

// AuthUsecase は登録・ログインのビジネスロジックを実装します。
type AuthUsecase struct {
	users  UserRepository
	tokens TokenIssuer
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens TokenIssuer) *AuthUsecase {
	return &AuthUsecase{users: users, tokens: tokens}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録し、
// 3時間有効なトークン（id+emailクレーム）を発行して返します。
// 発行したトークンは参照用としてユーザーにも保存されます。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	if err := validatePassword(in.Password); err != nil {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{
		Fullname: in.Fullname,
		Email:    in.Email,
		Password: string(hashed),
		Age:      in.Age,
		Gender:   in.Gender,
		Mobile:   in.Mobile,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := u.tokens.GenerateToken(user.ID, user.Email, registerTokenTTL)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	// 参照用コピー。保存に失敗しても登録自体は成功している。
	if err := u.users.UpdateToken(ctx, user.ID, token); err == nil {
		user.Token = token
	}

	return user, token, nil
}

// Login はユーザーを認証し、成功時に2時間有効なトークン（idクレームのみ）を返します。
// タイミング攻撃を防止するため、ユーザーが存在しない場合でもbcrypt比較を実行します。
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := u.users.FindByEmail(ctx, email)

	// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	if err == nil {
		passwordHash = user.Password
	}

	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// ユーザー未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, tokenErr := u.tokens.GenerateToken(user.ID, "", loginTokenTTL)
	if tokenErr != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", tokenErr)
	}

	if err := u.users.UpdateToken(ctx, user.ID, token); err == nil {
		user.Token = token
	}

	return user, token, nil
}
