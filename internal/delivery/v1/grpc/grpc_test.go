package grpc

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/DRSN-tech/roomscan-backend/internal/cfg"
	"github.com/DRSN-tech/roomscan-backend/internal/domain"
	"github.com/DRSN-tech/roomscan-backend/internal/usecase"
	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"github.com/DRSN-tech/roomscan-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type fakeMatchUC struct {
	req *usecase.MatchItemReq
	err error
}

func (f *fakeMatchUC) MatchItem(_ context.Context, req *usecase.MatchItemReq) (*usecase.MatchItemRes, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	top := domain.Product{ID: "p1", Name: "Harbor Sofa", Price: decimal.RequireFromString("1299.99"), Currency: "USD"}
	budget := domain.Product{ID: "p2", Name: "Nook Sofa", Price: decimal.RequireFromString("499"), Currency: "USD"}
	return usecase.NewMatchItemRes(req.Category, 2, []domain.RankedMatch{
		domain.NewRankedMatch(domain.NewCandidate(top, 0.95), 1, false),
		domain.NewRankedMatch(domain.NewCandidate(budget, 0.8), 2, true),
	}), nil
}

func dial(t *testing.T, matchUC usecase.MatchUC) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := NewGRPCServer(&cfg.GRPCConfig{}, logger.NewNopLogger())
	srv.RegisterServices(matchUC)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() { _ = srv.Stop(context.Background()) })

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestMatchService_MatchItem(t *testing.T) {
	uc := &fakeMatchUC{}
	conn := dial(t, uc)

	req, err := structpb.NewStruct(map[string]any{"category": "sofa", "limit": 6})
	require.NoError(t, err)

	res := new(structpb.Struct)
	require.NoError(t, conn.Invoke(context.Background(), MatchItemFullMethod, req, res))

	assert.Equal(t, "sofa", uc.req.Category)
	assert.Equal(t, 6, uc.req.Limit)

	got := res.AsMap()
	assert.Equal(t, "sofa", got["category"])
	matches := got["matches"].([]any)
	require.Len(t, matches, 2)
	assert.Equal(t, "1299.99", matches[0].(map[string]any)["price"])
	assert.Equal(t, true, matches[1].(map[string]any)["is_budget_alternative"])
}

func TestMatchService_ErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{e.ErrCategoryRequired, codes.InvalidArgument},
		{fmt.Errorf("%w: %w", e.ErrCatalogUnavailable, fmt.Errorf("timeout")), codes.Unavailable},
		{fmt.Errorf("boom"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			conn := dial(t, &fakeMatchUC{err: tt.err})

			err := conn.Invoke(context.Background(), MatchItemFullMethod, &structpb.Struct{}, new(structpb.Struct))
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestHealth(t *testing.T) {
	conn := dial(t, &fakeMatchUC{})

	res, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: matchServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, res.GetStatus())
}
