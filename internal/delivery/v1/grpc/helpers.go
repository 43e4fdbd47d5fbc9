package grpc

import (
	"errors"

	"github.com/DRSN-tech/roomscan-backend/pkg/e"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrCategoryRequired):
		return status.Error(codes.InvalidArgument, e.ErrCategoryRequired.Error())
	case errors.Is(err, e.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, e.ErrInvalidArgument.Error())
	case errors.Is(err, e.ErrCatalogUnavailable):
		return status.Error(codes.Unavailable, e.ErrCatalogUnavailable.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}
