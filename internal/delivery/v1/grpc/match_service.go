package grpc

import (
	"context"

	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	matchServiceName    = "roomscan.v1.MatchService"
	MatchItemFullMethod = "/" + matchServiceName + "/MatchItem"
)

// MatchServiceServer подбирает товары для внутренних сервисов.
// Запрос и ответ передаются как google.protobuf.Struct с теми же полями, что и в HTTP API.
type MatchServiceServer interface {
	MatchItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

type MatchService struct {
	matchUC usecase.MatchUC
	logger  logger.Logger
}

func NewMatchService(matchUC usecase.MatchUC, logger logger.Logger) *MatchService {
	return &MatchService{matchUC: matchUC, logger: logger}
}

func (g *MatchService) MatchItem(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.MatchItem"

	fields := req.GetFields()
	matchReq := &usecase.MatchItemReq{
		Category: fields["category"].GetStringValue(),
		Query:    fields["query"].GetStringValue(),
		Limit:    int(fields["limit"].GetNumberValue()),
	}

	res, err := g.matchUC.MatchItem(ctx, matchReq)
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, GRPCErrorResponse(e.Wrap(op, err))
	}

	out, err := structpb.NewStruct(map[string]any{
		"category":   res.Category,
		"candidates": res.Candidates,
		"matches":    toStructMatches(res.Matches),
	})
	if err != nil {
		g.logger.Errorf(e.Wrap(op, err), "%s", op)
		return nil, status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}

	return out, nil
}

func toStructMatch(m *domain.RankedMatch) map[string]any {
	return map[string]any{
		"product_id":            m.Product.ID,
		"name":                  m.Product.Name,
		"brand":                 m.Product.Brand,
		"price":                 m.Product.Price.StringFixed(2),
		"currency":              m.Product.Currency,
		"retailer_name":         m.Product.RetailerName,
		"affiliate_url":         m.Product.AffiliateURL,
		"similarity_score":      m.DisplayScore,
		"rank":                  m.Rank,
		"is_budget_alternative": m.IsBudgetAlternative,
	}
}

func toStructMatches(matches []domain.RankedMatch) []any {
	res := make([]any, len(matches))
	for i := range matches {
		res[i] = toStructMatch(&matches[i])
	}

	return res
}

func matchItemHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MatchServiceServer).MatchItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MatchItemFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(MatchServiceServer).MatchItem(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

var matchServiceDesc = grpc.ServiceDesc{
	ServiceName: matchServiceName,
	HandlerType: (*MatchServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "MatchItem",
			Handler:    matchItemHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "roomscan/v1/match.proto",
}

func RegisterMatchServiceServer(s grpc.ServiceRegistrar, srv MatchServiceServer) {
	s.RegisterService(&matchServiceDesc, srv)
}
