package ingest

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/vietddude/docqueue/internal/metrics"
)

// DefaultGRPCMethod is the unary method invoked when none is configured.
const DefaultGRPCMethod = "/docs.v1.Ingestion/AddDocumentation"

// timeoutReason marks an ErrorInfo detail describing an upstream timeout.
const timeoutReason = "TIMEOUT"

// GRPCProcessor submits items through a unary gRPC call carrying a
// google.protobuf.Struct {"url": item} and expecting google.protobuf.Empty.
type GRPCProcessor struct {
	conn    *grpc.ClientConn
	method  string
	timeout time.Duration
	owned   bool
}

// NewGRPCProcessor dials endpoint and returns a processor invoking method.
func NewGRPCProcessor(endpoint, method string, timeout time.Duration) (*GRPCProcessor, error) {
	target := endpoint
	var opts []grpc.DialOption

	if strings.HasPrefix(endpoint, "https://") || strings.HasSuffix(endpoint, ":443") {
		creds := credentials.NewTLS(&tls.Config{})
		opts = append(opts, grpc.WithTransportCredentials(creds))
		target = strings.TrimPrefix(target, "https://")
	} else {
		opts = append(opts, grpc.WithTransportCredentials(insecure.NewCredentials()))
		target = strings.TrimPrefix(target, "http://")
	}

	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create grpc client for %s: %w", target, err)
	}

	p := NewGRPCProcessorFromConn(conn, method, timeout)
	p.owned = true
	return p, nil
}

// NewGRPCProcessorFromConn wraps an existing connection. The caller keeps
// ownership of conn.
func NewGRPCProcessorFromConn(conn *grpc.ClientConn, method string, timeout time.Duration) *GRPCProcessor {
	if method == "" {
		method = DefaultGRPCMethod
	}
	return &GRPCProcessor{
		conn:    conn,
		method:  method,
		timeout: timeout,
	}
}

// Process invokes the ingestion method for item.
func (p *GRPCProcessor) Process(ctx context.Context, item string) error {
	start := time.Now()
	err := p.process(ctx, item)
	metrics.ProcessLatency.WithLabelValues("grpc", outcome(err)).Observe(time.Since(start).Seconds())
	return err
}

func (p *GRPCProcessor) process(ctx context.Context, item string) error {
	req, err := structpb.NewStruct(map[string]any{"url": item})
	if err != nil {
		return Other(item, fmt.Errorf("build request: %w", err))
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.conn.Invoke(ctx, p.method, req, &emptypb.Empty{}); err != nil {
		return &Error{Kind: classifyStatus(err), Item: item, Err: err}
	}
	return nil
}

// Close releases the connection if the processor dialed it.
func (p *GRPCProcessor) Close() error {
	if !p.owned {
		return nil
	}
	return p.conn.Close()
}

func classifyStatus(err error) Kind {
	st, ok := status.FromError(err)
	if !ok {
		return Classify(err)
	}
	if st.Code() == codes.DeadlineExceeded {
		return KindTimeout
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok && strings.EqualFold(info.GetReason(), timeoutReason) {
			return KindTimeout
		}
	}
	return KindOther
}
