package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"math"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/shavaan/team2-Hack/internal/common"
	"github.com/shavaan/team2-Hack/internal/lawchanges"
)

type LawChangesServer struct {
	svc    *lawchanges.Service
	logger *slog.Logger
}

func NewLawChangesServer(svc *lawchanges.Service, logger *slog.Logger) *LawChangesServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LawChangesServer{svc: svc, logger: logger}
}

// ProcessDocument expects {"path": string, "url": string}. Pipeline failures
// are reported in the response status, not as gRPC errors.
func (s *LawChangesServer) ProcessDocument(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	res := s.svc.ProcessDocument(ctx, lawchanges.ProcessRequest{
		Path: stringField(req, "path"),
		URL:  stringField(req, "url"),
	})
	return toStruct(res)
}

// GetLawChanges expects an optional {"limit": number}.
func (s *LawChangesServer) GetLawChanges(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	limit := 0
	if v, ok := req.GetFields()["limit"]; ok {
		n, isNum := v.GetKind().(*structpb.Value_NumberValue)
		if !isNum || n.NumberValue != math.Trunc(n.NumberValue) {
			return nil, status.Error(codes.InvalidArgument, "limit must be an integer")
		}
		limit = int(n.NumberValue)
	}
	return toStruct(s.svc.GetLawChanges(ctx, limit))
}

func (s *LawChangesServer) GetStatistics(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(s.svc.GetStatistics(ctx))
}

// ExportLawChanges expects optional {"from_date","to_date"} in YYYY-MM-DD and
// returns the workbook base64-encoded under "xlsx".
func (s *LawChangesServer) ExportLawChanges(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	from, to := stringField(req, "from_date"), stringField(req, "to_date")
	data, err := s.svc.ExportLawChanges(ctx, from, to)
	if err != nil {
		s.logger.Error("export.xlsx.failed", "from", from, "to", to, "err", err)
		return nil, common.ToStatus(err)
	}
	return structpb.NewStruct(map[string]any{
		"xlsx":  base64.StdEncoding.EncodeToString(data),
		"bytes": len(data),
	})
}

func stringField(s *structpb.Struct, key string) string {
	return strings.TrimSpace(s.GetFields()[key].GetStringValue())
}

// toStruct converts a JSON-tagged result into a protobuf Struct.
func toStruct(v any) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}
