package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/newsbrief/internal/model"
	"github.com/hitoshi/newsbrief/internal/repository"
)

// Service はユーザー登録・ログイン・本人確認のドメインロジックを提供する。
type Service struct {
	users  repository.UserRepository
	tokens *TokenManager
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(users repository.UserRepository, tokens *TokenManager) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

// Register は新規ユーザーを登録する。
// ユーザー名とメールアドレスの重複はそれぞれ別のメッセージのValidationErrorとなる。
// パスワードはbcryptでハッシュ化して保存する。
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return model.NewValidationError("All fields are required.")
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("ユーザー名の重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return model.NewValidationError("Username already taken.")
	}

	existing, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("メールアドレスの重複確認に失敗しました: %w", err)
	}
	if existing != nil {
		return model.NewValidationError("Email already registered.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}
	return nil
}

// Login は認証情報を検証し、トークンペアとユーザー情報を返す。
// ユーザー不在とパスワード不一致は区別せず、同一メッセージのAuthErrorを返す。
func (s *Service) Login(ctx context.Context, username, password string) (*model.User, *model.TokenPair, error) {
	if username == "" || password == "" {
		return nil, nil, model.NewAuthError("Invalid credentials.")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewAuthError("Invalid credentials.")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, model.NewAuthError("Invalid credentials.")
	}

	pair, err := s.tokens.GeneratePair(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// CurrentUser は認証済みユーザーIDからユーザー情報を取得する。
// トークンは有効だがユーザーが削除済みの場合はAuthErrorを返す。
func (s *Service) CurrentUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewAuthError("User not found.")
	}
	return user, nil
}
