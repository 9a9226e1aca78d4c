package cartview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	pkgerrors "github.com/mgallardo/cartfront-backend/pkg/errors"
	"github.com/mgallardo/cartfront-backend/pkg/graphql"
	"github.com/mgallardo/cartfront-backend/pkg/logger"
)

type graphqlDoer interface {
	Do(ctx context.Context, req graphql.Request, dest any) error
}

// Service fetches carts from the upstream commerce API.
type Service interface {
	GetCartByID(ctx context.Context, cartID string) (*Cart, error)
}

type service struct {
	client graphqlDoer
	logg   *logger.Logger
}

// NewService builds a cart fetch service over the given GraphQL client.
func NewService(client graphqlDoer, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, fmt.Errorf("graphql client required")
	}
	return &service{client: client, logg: logg}, nil
}

// GetCartByID issues exactly one GetCartById operation and returns the
// decoded cart. A null upstream cart comes back as NOT_FOUND.
func (s *service) GetCartByID(ctx context.Context, cartID string) (*Cart, error) {
	trimmed := strings.TrimSpace(cartID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart id is required")
	}

	if s.logg != nil {
		ctx = s.logg.WithCartID(ctx, trimmed)
		ctx = s.logg.WithOperation(ctx, operationName)
	}

	var data struct {
		Cart json.RawMessage `json:"cart"`
	}
	err := s.client.Do(ctx, graphql.Request{
		Query:         getCartByIDQuery,
		OperationName: operationName,
		Variables:     map[string]any{cartIDVariable: trimmed},
	}, &data)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "cart fetch failed", err)
		}
		return nil, err
	}

	cart, err := decodeCart(data.Cart)
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "cart payload rejected", err)
		}
		return nil, err
	}
	if cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("no cart for id %s", trimmed))
	}

	if s.logg != nil {
		s.logg.Info(ctx, "cart fetched")
	}
	return cart, nil
}
