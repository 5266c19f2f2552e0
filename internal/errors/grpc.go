package errors

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ToGRPCError converts an error to a gRPC status error
func ToGRPCError(err error) error {
	if err == nil {
		return nil
	}

	// Check if it's already a gRPC status error
	if _, ok := status.FromError(err); ok {
		return err
	}

	var customErr *Error
	if As(err, &customErr) {
		return status.New(customErr.Code.GRPCCode(), customErr.Message).Err()
	}

	return status.Error(codes.Internal, err.Error())
}

// GRPCCode returns the corresponding gRPC code.
// Domain codes map onto the closest transport semantics: a failed
// eligibility gate is a permission problem, an inventory shortfall is a
// failed precondition, and an exhausted optimistic retry is an abort
// the caller may safely re-issue.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeOK:
		return codes.OK
	case CodeCanceled:
		return codes.Canceled
	case CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeDeadlineExceeded:
		return codes.DeadlineExceeded
	case CodeNotFound:
		return codes.NotFound
	case CodeAlreadyExists:
		return codes.AlreadyExists
	case CodeInternal:
		return codes.Internal
	case CodeUnavailable:
		return codes.Unavailable
	case CodeNotEligible:
		return codes.PermissionDenied
	case CodeInsufficientResources:
		return codes.FailedPrecondition
	case CodeCycleDetected:
		return codes.FailedPrecondition
	case CodeConcurrentConflict:
		return codes.Aborted
	default:
		return codes.Unknown
	}
}
