package usecase

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"trading_backend/internal/feature/auth/domain/entity"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8
)

// AccountRepository はアカウントエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type AccountRepository interface {
	// Create は新しいアカウントをストレージに永続化します。
	// 同じメールアドレスのアカウントが既に存在する場合、ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, account *entity.Account) error

	// FindByEmail は指定されたメールアドレスに一致するアカウントを取得します。
	// アカウントが存在しない場合、ErrAccountNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
}

// ShareholderRegistry は取引台帳側の株主プロビジョニングを抽象化します。
// tradingフィーチャーが実装を提供します。
type ShareholderRegistry interface {
	// Register は新しい株主を評価額ゼロで登録し、そのIDを返します。
	// メールアドレスが重複する場合、ErrEmailAlreadyExistsを返します。
	Register(ctx context.Context, name, email string) (uint, error)
}

// SignupUnitOfWork は株主プロビジョニングとアカウント作成を
// 単一トランザクションとして実行します。途中で失敗した場合は両方の書き込みが
// ロールバックされ、アカウントを持たない孤立した株主行は残りません。
type SignupUnitOfWork interface {
	Do(ctx context.Context, fn func(accounts AccountRepository, shareholders ShareholderRegistry) error) error
}

// JWTGenerator はJWTトークン生成のインターフェースを定義します。
type JWTGenerator interface {
	// GenerateToken は指定された株主の署名済みJWTトークンを生成します。
	GenerateToken(shareholderID uint, email string) (string, error)
}

// authUsecase は株主アカウントの認証ビジネスロジックを実装します。
type authUsecase struct {
	accounts     AccountRepository
	signup       SignupUnitOfWork
	jwtGenerator JWTGenerator
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(accounts AccountRepository, signup SignupUnitOfWork, jwtGenerator JWTGenerator) *authUsecase {
	return &authUsecase{
		accounts:     accounts,
		signup:       signup,
		jwtGenerator: jwtGenerator,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Signup は新しい株主を登録し、ハッシュ化されたパスワードでアカウントを作成します。
// 株主は評価額ゼロでプロビジョニングされ、取引はBuy/Sellを通じてのみ行われます。
// 株主行とアカウント行は単一トランザクションで書き込まれ、
// どちらかが失敗した場合は何も残りません。
func (u *authUsecase) Signup(ctx context.Context, name, email, password string) error {
	// パスワード強度を検証
	if err := validatePassword(password); err != nil {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return u.signup.Do(ctx, func(accounts AccountRepository, shareholders ShareholderRegistry) error {
		shareholderID, err := shareholders.Register(ctx, name, email)
		if err != nil {
			return err
		}

		account := &entity.Account{ShareholderID: shareholderID, Email: email, Password: string(hashed)}
		return accounts.Create(ctx, account)
	})
}

// Login はアカウントを認証し、成功時に株主IDを含むJWTトークンを返します。
// タイミング攻撃を防止するため、アカウントが存在しない場合でもbcrypt比較を実行します。
func (u *authUsecase) Login(ctx context.Context, email, password string) (string, error) {
	account, err := u.accounts.FindByEmail(ctx, email)

	// アカウント未検出時のタイミング攻撃緩和用ダミーハッシュ
	// bcrypt.CompareHashAndPasswordが常に呼ばれることを保証する
	passwordHash := "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy" // ダミーハッシュ
	if err == nil {
		passwordHash = account.Password
	}

	// タイミング攻撃防止のため、常にパスワードを検証
	compareErr := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password))

	// アカウント未検出またはパスワード不一致の場合、汎用エラーを返す
	if err != nil || compareErr != nil {
		return "", ErrInvalidCredentials
	}

	token, tokenErr := u.jwtGenerator.GenerateToken(account.ShareholderID, account.Email)
	if tokenErr != nil {
		return "", fmt.Errorf("failed to generate token: %w", tokenErr)
	}

	return token, nil
}
