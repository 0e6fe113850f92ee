package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rafaelscdev/crocheDaRuiva/internal/auth"
	"github.com/rafaelscdev/crocheDaRuiva/internal/config"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/user"
)

var (
	// ErrEmailCadastrado 邮箱已被占用
	ErrEmailCadastrado = errors.New("este email já está cadastrado")
	// ErrCredenciaisInvalidas 邮箱或密码错误，不区分提示避免探测
	ErrCredenciaisInvalidas = errors.New("email ou senha inválidos")
	// ErrValidacao 请求字段校验失败，HTTP 层映射为 400
	ErrValidacao = errors.New("dados inválidos")
)

type UserService struct {
	repo user.Repository
	jwt  *config.JWTConfig
}

func NewUserService(repo user.Repository, jwt *config.JWTConfig) *UserService {
	return &UserService{repo: repo, jwt: jwt}
}

// Register 注册用户：邮箱统一小写、bcrypt 加密、连续编号由仓储事务内分配
func (s *UserService) Register(ctx context.Context, u *user.User, senha string) (*user.User, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Nome == "" {
		return nil, fmt.Errorf("%w: informe seu nome", ErrValidacao)
	}
	if !strings.Contains(u.Email, "@") || strings.ContainsAny(u.Email, " \t") || u.Email == "" {
		return nil, fmt.Errorf("%w: informe um email válido", ErrValidacao)
	}
	if len(senha) < 6 {
		return nil, fmt.Errorf("%w: a senha deve ter no mínimo 6 caracteres", ErrValidacao)
	}
	if u.Telefone == "" {
		return nil, fmt.Errorf("%w: informe seu telefone", ErrValidacao)
	}

	// 先查一次给出友好错误；真正的唯一性由 email 唯一索引兜底
	if _, err := s.repo.GetByEmail(ctx, u.Email); err == nil {
		return nil, ErrEmailCadastrado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(senha), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u.Senha = string(hash)
	if u.Role == "" {
		u.Role = user.RoleCliente
	}

	if err := s.repo.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailCadastrado
		}
		return nil, err
	}
	return u, nil
}

// Login 校验口令并签发 JWT
func (s *UserService) Login(ctx context.Context, email, senha string) (string, *user.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrCredenciaisInvalidas
		}
		return "", nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Senha), []byte(senha)) != nil {
		return "", nil, ErrCredenciaisInvalidas
	}
	token, err := auth.GenerateToken(s.jwt, u.ID, u.Email)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// GetByID 按主键取用户，鉴权中间件每个请求都会调用以拿到实时角色
func (s *UserService) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListClientes 列出全部客户（后台）
func (s *UserService) ListClientes(ctx context.Context) ([]*user.User, error) {
	return s.repo.ListByRole(ctx, user.RoleCliente)
}
