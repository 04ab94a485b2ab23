package rpc

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"

	"cache-service/core/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type stubServer struct {
	UnimplementedCachingServer
	titles map[string]string
}

func (s *stubServer) GetVintageTitleByID(_ context.Context, in *VintageID) (*TitleResponse, error) {
	return &TitleResponse{VintageTitle: s.titles[in.VintageID]}, nil
}

func (s *stubServer) GetVintageTitlesByIDs(_ context.Context, in *VintageIDs) (*TitlesResponse, error) {
	out := make([]string, len(in.VintageIDs))
	for i, id := range in.VintageIDs {
		out[i] = s.titles[id]
	}
	return &TitlesResponse{VintageTitles: out}, nil
}

func (s *stubServer) GetPriceByVintageID(context.Context, *VintageID) (*PriceResponse, error) {
	panic("price table corrupted")
}

func (s *stubServer) GetVintagesByIDs(_ context.Context, in *VintageIDs) (*VintagesResponse, error) {
	// A response this large exceeds grpc's 4 MiB default.
	big := `{"notes":"` + strings.Repeat("x", 5<<20) + `"}`
	return &VintagesResponse{SerializedVintages: []string{big}}, nil
}

func (s *stubServer) StreamVintagesByIDs(in *VintageIDs, stream VintageStream) error {
	for _, id := range in.VintageIDs {
		if _, ok := s.titles[id]; !ok {
			continue
		}
		if err := stream.Send(&VintageResponse{SerializedVintage: `{"id":"` + id + `"}`}); err != nil {
			return err
		}
	}
	return nil
}

func startStub(t *testing.T, log *zap.Logger, metrics *Metrics) *Client {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	cfg := server.Config{MaxMessageBytes: DefaultMaxMessageBytes}
	srv := NewServer(cfg, &stubServer{titles: map[string]string{"7": "Chateau X", "8": "Domaine Y"}}, log, metrics)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	client, err := Dial("passthrough:///bufnet", DefaultMaxMessageBytes, log,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestClientServer_Unary(t *testing.T) {
	client := startStub(t, nil, nil)
	ctx := context.Background()

	title, err := client.GetVintageTitleByID(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, "Chateau X", title)

	titles, err := client.GetVintageTitlesByIDs(ctx, []string{"8", "999", "7"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Domaine Y", "", "Chateau X"}, titles)
}

func TestClientServer_Unimplemented(t *testing.T) {
	client := startStub(t, nil, nil)

	_, err := client.GetBestVintageIDByWineID(context.Background(), "3")
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}

func TestClientServer_PanicBecomesInternal(t *testing.T) {
	client := startStub(t, nil, nil)

	_, err := client.GetPriceByVintageID(context.Background(), "7")
	assert.Equal(t, codes.Internal, status.Code(err))

	title, err := client.GetVintageTitleByID(context.Background(), "7")
	require.NoError(t, err, "the server keeps serving after a panic")
	assert.Equal(t, "Chateau X", title)
}

func TestClientServer_LargeMessages(t *testing.T) {
	client := startStub(t, nil, nil)

	records, err := client.GetVintagesByIDs(context.Background(), []string{"7"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, json.Valid(records[0]))
}

func TestClientServer_Stream(t *testing.T) {
	client := startStub(t, nil, nil)

	var got []string
	err := client.StreamVintagesByIDs(context.Background(), []string{"8", "999", "7"}, func(raw json.RawMessage) error {
		got = append(got, string(raw))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`{"id":"8"}`, `{"id":"7"}`}, got)
}

func TestClientServer_MetricsAndLogs(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	reg := prometheus.NewRegistry()
	metrics := NewMetrics("test", reg)
	client := startStub(t, zap.New(core), metrics)

	_, err := client.GetVintageTitleByID(context.Background(), "7")
	require.NoError(t, err)
	_, _ = client.GetBestVintageIDByWineID(context.Background(), "3")

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(MethodGetVintageTitleByID, codes.OK.String())))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Requests.WithLabelValues(MethodGetBestVintageIDByWineID, codes.Unimplemented.String())))

	assert.NotZero(t, logs.FilterMessage("Call finished").Len(), "client durations are logged")
	assert.Equal(t, 1, logs.FilterMessage("Request failed").Len())
}

func TestDial_Unreachable(t *testing.T) {
	client, err := Dial("127.0.0.1:1", 0, nil)
	require.NoError(t, err, "connections are established lazily")
	defer client.Close()

	_, err = client.GetVintageTitleByID(context.Background(), "7")
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestFullMethod(t *testing.T) {
	assert.Equal(t, "/caching.Caching/get_vintage_by_id", FullMethod(MethodGetVintageByID))
}
