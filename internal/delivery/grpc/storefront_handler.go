package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"catalog_service/internal/domain"
	"catalog_service/internal/usecase"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type StorefrontHandler struct {
	useCase usecase.StorefrontUseCase
	log     *logrus.Logger
}

func NewStorefrontHandler(uc usecase.StorefrontUseCase, logger *logrus.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		useCase: uc,
		log:     logger,
	}
}

// ListProducts accepts the same keys as the HTTP query string: category,
// min_price, max_price, availability (string or list), sort and direction.
func (h *StorefrontHandler) ListProducts(ctx context.Context, query *structpb.Struct) (*structpb.Struct, error) {
	values := structToValues(query)
	h.log.Infof("gRPC Handler: Received ListProducts request: %s", values.Encode())

	criteria, err := usecase.ParseCriteria(values)
	if err != nil {
		return nil, mapDomainErrorToGrpcStatus(err)
	}
	if criteria.Category != "" {
		name, ok, err := h.useCase.ResolveCategory(ctx, criteria.Category)
		if err != nil {
			return nil, mapDomainErrorToGrpcStatus(err)
		}
		if ok {
			criteria.Category = name
		}
	}

	var sort domain.SortState
	if raw := values.Get("sort"); raw != "" {
		if sort.Field, err = usecase.ParseSortField(raw); err != nil {
			return nil, mapDomainErrorToGrpcStatus(err)
		}
		if sort.Direction, err = usecase.ParseSortDirection(values.Get("direction")); err != nil {
			return nil, mapDomainErrorToGrpcStatus(err)
		}
	}

	listing, err := h.useCase.ListProducts(ctx, criteria, sort)
	if err != nil {
		h.log.Errorf("gRPC Handler: ListProducts use case error: %v", err)
		return nil, mapDomainErrorToGrpcStatus(err)
	}
	return toStruct(listing)
}

func (h *StorefrontHandler) GetProduct(ctx context.Context, id *wrapperspb.StringValue) (*structpb.Struct, error) {
	h.log.Infof("gRPC Handler: Received GetProduct request: ID=%s", id.GetValue())
	if strings.TrimSpace(id.GetValue()) == "" {
		return nil, status.Error(codes.InvalidArgument, "Product ID cannot be empty")
	}

	product, err := h.useCase.GetProduct(ctx, id.GetValue())
	if err != nil {
		return nil, mapDomainErrorToGrpcStatus(err)
	}
	return toStruct(product)
}

func (h *StorefrontHandler) GetFeatured(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	section, err := h.useCase.FeaturedSection(ctx)
	if err != nil {
		return nil, mapDomainErrorToGrpcStatus(err)
	}
	return toStruct(section)
}

func structToValues(s *structpb.Struct) url.Values {
	values := url.Values{}
	for key, v := range s.GetFields() {
		switch kind := v.GetKind().(type) {
		case *structpb.Value_StringValue:
			values.Add(key, kind.StringValue)
		case *structpb.Value_NumberValue:
			values.Add(key, fmt.Sprint(kind.NumberValue))
		case *structpb.Value_BoolValue:
			values.Add(key, fmt.Sprint(kind.BoolValue))
		case *structpb.Value_ListValue:
			for _, item := range kind.ListValue.GetValues() {
				values.Add(key, item.GetStringValue())
			}
		}
	}
	return values
}

// toStruct converts a JSON-tagged value into a Struct.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "could not encode response: %v", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "could not encode response: %v", err)
	}
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "could not encode response: %v", err)
	}
	return s, nil
}

func mapDomainErrorToGrpcStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrProductNotFound), errors.Is(err, domain.ErrCategoryNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidFilter),
		errors.Is(err, domain.ErrInvalidSortField),
		errors.Is(err, domain.ErrInvalidDirection):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrCatalogUnavailable):
		return status.Error(codes.Unavailable, err.Error())
	default:
		return status.Errorf(codes.Internal, "Internal server error: %v", err)
	}
}
