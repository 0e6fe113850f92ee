package server

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/kataras/iris/v12"
	radix "github.com/mediocregopher/radix/v3"
	"gorm.io/gorm"

	"github.com/rafaelscdev/crocheDaRuiva/internal/auth"
	"github.com/rafaelscdev/crocheDaRuiva/internal/config"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/order"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/product"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/user"
	"github.com/rafaelscdev/crocheDaRuiva/internal/infra/mq"
	"github.com/rafaelscdev/crocheDaRuiva/internal/infra/redis"
	"github.com/rafaelscdev/crocheDaRuiva/internal/middleware"
	"github.com/rafaelscdev/crocheDaRuiva/internal/repository/mysql"
	"github.com/rafaelscdev/crocheDaRuiva/internal/service"
)

// adminRoles 后台路由允许的角色集合
var adminRoles = map[string]struct{}{user.RoleAdmin: {}}

// RegisterRoutes 初始化基础设施并注册所有 HTTP 路由
func RegisterRoutes(app *iris.Application, cfg *config.Config) {
	db := mysql.Init(&cfg.MySQL)
	redisClient := redis.Init(&cfg.Redis)
	mqConn := mq.Init(&cfg.RabbitMQ)

	RegisterAPIRoutes(app, cfg, db, redisClient, service.NewMQNotifier(mqConn))
}

// RegisterAPIRoutes 用注入好的依赖注册路由；测试用内存库也走这里
func RegisterAPIRoutes(app *iris.Application, cfg *config.Config, db *gorm.DB, redisClient radix.Client, notifier service.Notifier) {
	userRepo := mysql.NewUserRepository(db)
	productRepo := mysql.NewProductRepository(db)
	orderRepo := mysql.NewOrderRepository(db)

	userSvc := service.NewUserService(userRepo, &cfg.JWT)
	productSvc := service.NewProductService(productRepo)
	orderSvc := service.NewOrderService(orderRepo, productRepo, userRepo, notifier)

	ring := auth.NewConsistentHashRing(cfg.Auth.Nodes, cfg.Auth.HashReplicas)
	tokenCache := auth.NewTokenCache(redisClient, ring, time.Duration(cfg.Auth.TokenCacheTTLSeconds)*time.Second)

	devMode := cfg.App.Env != "production"

	// fail 统一错误响应；development 环境附带内部错误详情
	fail := func(ctx iris.Context, status int, msg string, err error) {
		body := iris.Map{"message": msg}
		if devMode && err != nil {
			body["error"] = err.Error()
		}
		ctx.StopWithJSON(status, body)
	}

	// svcError 把服务层错误映射为 HTTP 状态码
	svcError := func(ctx iris.Context, err error, fallback string) {
		var missErr *service.MissingMeasurementsError
		var extraErr *service.ExtraMeasurementsError
		var valErr *service.InvalidMeasurementError
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			fail(ctx, 404, "Recurso não encontrado", err)
		case errors.As(err, &missErr):
			ctx.StopWithJSON(400, iris.Map{
				"message":          "Medidas obrigatórias faltando",
				"medidasFaltantes": missErr.Nomes,
			})
		case errors.As(err, &extraErr):
			ctx.StopWithJSON(400, iris.Map{
				"message":       "Medidas fornecidas não são necessárias para este produto",
				"medidasExtras": extraErr.Nomes,
			})
		case errors.As(err, &valErr):
			ctx.StopWithJSON(400, iris.Map{
				"message": valErr.Error(),
				"medida":  valErr.Nome,
				"valor":   valErr.Valor,
			})
		case errors.Is(err, service.ErrValidacao),
			errors.Is(err, service.ErrProdutoIndisponivel),
			errors.Is(err, service.ErrStatusInvalido),
			errors.Is(err, service.ErrTransicaoInvalida):
			fail(ctx, 400, err.Error(), nil)
		case errors.Is(err, service.ErrEmailCadastrado):
			fail(ctx, 409, err.Error(), nil)
		case errors.Is(err, service.ErrCredenciaisInvalidas):
			fail(ctx, 401, err.Error(), nil)
		case errors.Is(err, service.ErrAcessoNegado):
			fail(ctx, 403, err.Error(), nil)
		case errors.Is(err, order.ErrVersionConflict):
			fail(ctx, 409, "Pedido foi atualizado por outra operação, tente novamente", err)
		default:
			service.GetMonitor().RecordDBError()
			fail(ctx, 500, fallback, err)
		}
	}

	// requireAuth 解析 Bearer token 并每次都重查用户，角色取实时值
	requireAuth := func(ctx iris.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			fail(ctx, 401, "Acesso não autorizado", nil)
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))

		claims, hit, err := tokenCache.Get(ctx.Request().Context(), tokenStr)
		if err != nil {
			service.GetMonitor().RecordRedisError()
			hit = false
		}
		if !hit {
			claims, err = auth.ParseToken(&cfg.JWT, tokenStr)
			if err != nil {
				fail(ctx, 401, "Acesso não autorizado", err)
				return
			}
			_ = tokenCache.Set(ctx.Request().Context(), tokenStr, claims)
		}

		u, err := userSvc.GetByID(ctx.Request().Context(), claims.UserID)
		if err != nil {
			fail(ctx, 401, "Usuário não encontrado", nil)
			return
		}
		ctx.Values().Set("user_id", u.ID)
		ctx.Values().Set("role", u.Role)
		ctx.Next()
	}

	adminOnly := func(ctx iris.Context) {
		if !auth.RoleAllowed(ctx.Values().GetString("role"), adminRoles) {
			fail(ctx, 403, "Você não tem permissão para realizar esta ação", nil)
			return
		}
		ctx.Next()
	}

	userPayload := func(u *user.User) iris.Map {
		return iris.Map{
			"id":     u.ID,
			"codigo": u.Codigo,
			"nome":   u.Nome,
			"email":  u.Email,
			"role":   u.Role,
		}
	}

	api := app.Party("/api")

	// 健康检查
	api.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	// ---------- 认证 ----------

	authAPI := api.Party("/auth")

	authAPI.Post("/register", func(ctx iris.Context) {
		var req struct {
			Nome     string        `json:"nome"`
			Email    string        `json:"email"`
			Senha    string        `json:"senha"`
			Telefone string        `json:"telefone"`
			Endereco user.Endereco `json:"endereco"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, "Corpo da requisição inválido", err)
			return
		}
		u := &user.User{
			Nome:     req.Nome,
			Email:    req.Email,
			Telefone: req.Telefone,
			Endereco: req.Endereco,
		}
		u, err := userSvc.Register(ctx.Request().Context(), u, req.Senha)
		if err != nil {
			svcError(ctx, err, "Erro ao cadastrar usuário")
			return
		}
		token, err := auth.GenerateToken(&cfg.JWT, u.ID, u.Email)
		if err != nil {
			fail(ctx, 500, "Erro ao cadastrar usuário", err)
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{
			"message": "Usuário cadastrado com sucesso",
			"user":    userPayload(u),
			"token":   token,
		})
	})

	authAPI.Post("/login", func(ctx iris.Context) {
		var req struct {
			Email string `json:"email"`
			Senha string `json:"senha"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, "Corpo da requisição inválido", err)
			return
		}
		token, u, err := userSvc.Login(ctx.Request().Context(), req.Email, req.Senha)
		if err != nil {
			svcError(ctx, err, "Erro ao realizar login")
			return
		}
		ctx.JSON(iris.Map{
			"message": "Login realizado com sucesso",
			"user":    userPayload(u),
			"token":   token,
		})
	})

	authAPI.Get("/clientes", requireAuth, adminOnly, func(ctx iris.Context) {
		clientes, err := userSvc.ListClientes(ctx.Request().Context())
		if err != nil {
			svcError(ctx, err, "Erro ao buscar clientes")
			return
		}
		ctx.JSON(iris.Map{"count": len(clientes), "clients": clientes})
	})

	// ---------- 商品 ----------

	products := api.Party("/products")

	products.Get("/", func(ctx iris.Context) {
		list, err := productSvc.ListAvailable(ctx.Request().Context())
		if err != nil {
			svcError(ctx, err, "Erro ao buscar produtos")
			return
		}
		ctx.JSON(iris.Map{"count": len(list), "products": list})
	})

	products.Get("/categoria/{categoria:string}", func(ctx iris.Context) {
		list, err := productSvc.ListByCategoria(ctx.Request().Context(), ctx.Params().Get("categoria"))
		if err != nil {
			svcError(ctx, err, "Erro ao buscar produtos")
			return
		}
		ctx.JSON(iris.Map{"count": len(list), "products": list})
	})

	products.Get("/{id:uint64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		p, err := productSvc.GetByID(ctx.Request().Context(), int64(id))
		if err != nil {
			svcError(ctx, err, "Erro ao buscar produto")
			return
		}
		ctx.JSON(p)
	})

	// 创建：接受单个对象或数组（批量录入）
	products.Post("/", requireAuth, adminOnly, func(ctx iris.Context) {
		body, err := ctx.GetBody()
		if err != nil {
			fail(ctx, 400, "Corpo da requisição inválido", err)
			return
		}
		trimmed := strings.TrimSpace(string(body))
		if strings.HasPrefix(trimmed, "[") {
			var list []*product.Product
			if err := json.Unmarshal(body, &list); err != nil {
				fail(ctx, 400, "Corpo da requisição inválido", err)
				return
			}
			if err := productSvc.CreateBatch(ctx.Request().Context(), list); err != nil {
				svcError(ctx, err, "Erro ao criar produtos")
				return
			}
			ctx.StatusCode(201)
			ctx.JSON(iris.Map{
				"message":  "Produtos criados com sucesso",
				"count":    len(list),
				"products": list,
			})
			return
		}

		var p product.Product
		if err := json.Unmarshal(body, &p); err != nil {
			fail(ctx, 400, "Corpo da requisição inválido", err)
			return
		}
		if err := productSvc.Create(ctx.Request().Context(), &p); err != nil {
			svcError(ctx, err, "Erro ao criar produto")
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"message": "Produto criado com sucesso", "product": p})
	})

	products.Put("/{id:uint64}", requireAuth, adminOnly, func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		if _, err := productSvc.GetByID(ctx.Request().Context(), int64(id)); err != nil {
			svcError(ctx, err, "Erro ao atualizar produto")
			return
		}
		var p product.Product
		if err := ctx.ReadJSON(&p); err != nil {
			fail(ctx, 400, "Corpo da requisição inválido", err)
			return
		}
		p.ID = int64(id)
		if err := productSvc.Update(ctx.Request().Context(), &p); err != nil {
			svcError(ctx, err, "Erro ao atualizar produto")
			return
		}
		ctx.JSON(iris.Map{"message": "Produto atualizado com sucesso", "product": p})
	})

	products.Delete("/{id:uint64}", requireAuth, adminOnly, func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		if _, err := productSvc.GetByID(ctx.Request().Context(), int64(id)); err != nil {
			svcError(ctx, err, "Erro ao remover produto")
			return
		}
		if err := productSvc.Delete(ctx.Request().Context(), int64(id)); err != nil {
			svcError(ctx, err, "Erro ao remover produto")
			return
		}
		ctx.JSON(iris.Map{"message": "Produto removido com sucesso"})
	})

	products.Patch("/{id:uint64}/disponibilidade", requireAuth, adminOnly, func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		p, err := productSvc.ToggleDisponibilidade(ctx.Request().Context(), int64(id))
		if err != nil {
			svcError(ctx, err, "Erro ao atualizar disponibilidade")
			return
		}
		ctx.JSON(iris.Map{"message": "Disponibilidade atualizada com sucesso", "product": p})
	})

	// ---------- 订单 ----------

	orders := api.Party("/orders", requireAuth)

	orders.Post("/", middleware.OrderCreateRateLimit(), func(ctx iris.Context) {
		var req struct {
			Produto     int64          `json:"produto"`
			Medidas     []order.Medida `json:"medidas"`
			Observacoes string         `json:"observacoes"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, "Corpo da requisição inválido", err)
			return
		}
		userID := ctx.Values().GetInt64Default("user_id", 0)
		o, err := orderSvc.Create(ctx.Request().Context(), userID, req.Produto, req.Medidas, req.Observacoes)
		if err != nil {
			svcError(ctx, err, "Erro ao criar pedido")
			return
		}
		ctx.StatusCode(201)
		ctx.JSON(iris.Map{"message": "Pedido criado com sucesso", "order": o})
	})

	orders.Get("/meus-pedidos", func(ctx iris.Context) {
		userID := ctx.Values().GetInt64Default("user_id", 0)
		list, err := orderSvc.ListByUser(ctx.Request().Context(), userID)
		if err != nil {
			svcError(ctx, err, "Erro ao buscar pedidos")
			return
		}
		ctx.JSON(iris.Map{"count": len(list), "orders": list})
	})

	orders.Get("/{id:uint64}", func(ctx iris.Context) {
		id, _ := ctx.Params().GetUint64("id")
		userID := ctx.Values().GetInt64Default("user_id", 0)
		role := ctx.Values().GetString("role")
		o, err := orderSvc.GetForRequester(ctx.Request().Context(), int64(id), userID, role)
		if err != nil {
			svcError(ctx, err, "Erro ao buscar pedido")
			return
		}
		ctx.JSON(o)
	})

	orders.Get("/", adminOnly, func(ctx iris.Context) {
		list, err := orderSvc.ListAll(ctx.Request().Context())
		if err != nil {
			svcError(ctx, err, "Erro ao buscar pedidos")
			return
		}
		ctx.JSON(iris.Map{"count": len(list), "orders": list})
	})

	orders.Patch("/{id:uint64}/status", adminOnly, func(ctx iris.Context) {
		var req struct {
			Status     string `json:"status"`
			Comentario string `json:"comentario"`
		}
		if err := ctx.ReadJSON(&req); err != nil {
			fail(ctx, 400, "Corpo da requisição inválido", err)
			return
		}
		id, _ := ctx.Params().GetUint64("id")
		o, err := orderSvc.Transition(ctx.Request().Context(), int64(id), req.Status, req.Comentario)
		if err != nil {
			svcError(ctx, err, "Erro ao atualizar status do pedido")
			return
		}
		ctx.JSON(iris.Map{"message": "Status do pedido atualizado com sucesso", "order": o})
	})

	// ---------- 后台指标 ----------

	api.Get("/admin/stats", requireAuth, adminOnly, func(ctx iris.Context) {
		ctx.JSON(service.GetMonitor().GetStats())
	})
}
