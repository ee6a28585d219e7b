// Package service реализует движок сессий оформления заказа UCP.
package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/ucp-checkout/internal/model"
)

var (
	// ErrProductNotFound возвращается, если товар из запроса отсутствует в каталоге.
	ErrProductNotFound = errors.New("product not found")
	// ErrSessionNotFound возвращается для неизвестного идентификатора сессии.
	ErrSessionNotFound = errors.New("checkout session not found")
	// ErrInvalidState возвращается при попытке изменить завершённую или отменённую сессию.
	ErrInvalidState = errors.New("checkout session is not modifiable")
	// ErrPaymentRequired возвращается, если при завершении нет пригодных платёжных данных.
	ErrPaymentRequired = errors.New("payment is required")
	// ErrNotReady возвращается при включённой проверке готовности, если сессия не готова к завершению.
	ErrNotReady = errors.New("checkout session is not ready for complete")
	// ErrInvalidCard возвращается тестовым токенизатором для неверного номера карты.
	ErrInvalidCard = errors.New("invalid card number")
	// ErrInvalidQuantity возвращается для количества вне допустимого диапазона
	// или если стоимость позиций не помещается в сумму.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// Store описывает хранилище сессий, используемое сервисом.
type Store interface {
	Close() error
	Get(ctx context.Context, id string) (*model.Session, error)
	Insert(ctx context.Context, s *model.Session) error
	Update(ctx context.Context, id string, fn func(*model.Session) error) (*model.Session, error)
}

// Catalog описывает справочник товаров, скидок и способов получения.
type Catalog interface {
	Product(id string) (model.Item, bool)
	Products() []model.Item
	Discount(code string) (model.DiscountRule, bool)
	FulfillmentOptions() []model.FulfillmentOption
}

// Config содержит параметры движка.
type Config struct {
	BaseURL                 string
	BusinessName            string
	RequireReadyForComplete bool
}

const (
	// ProtocolVersion это версия протокола UCP, которую реализует сервис.
	ProtocolVersion = "2026-01-11"

	// MaxQuantity это наибольшее количество одного товара в позиции.
	MaxQuantity = 10000

	// maxSubtotal оставляет запас для налога и доставки в итоговой сумме.
	maxSubtotal = math.MaxInt64 / 2

	sessionTTL = 24 * time.Hour
	tokenTTL   = 15 * time.Minute
)

// Service содержит бизнес-логику сессий оформления заказа.
type Service struct {
	store        Store
	catalog      Catalog
	baseURL      string
	businessName string
	requireReady bool
	now          func() time.Time
}

// NewService создаёт новый сервис с указанными хранилищем и каталогом.
func NewService(store Store, catalog Catalog, cfg Config) *Service {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	name := cfg.BusinessName
	if name == "" {
		name = "Cymbal Coffee Shop"
	}

	return &Service{
		store:        store,
		catalog:      catalog,
		baseURL:      baseURL,
		businessName: name,
		requireReady: cfg.RequireReadyForComplete,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func newID(prefix string, n int) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + hex[:n]
}
