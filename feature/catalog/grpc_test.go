package catalog

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"cache-service/core/database"
	"cache-service/core/rpc"
	"cache-service/core/server"
	"cache-service/feature/catalog/models"
	"cache-service/feature/catalog/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const seedRecords = `[
	{"id":"7","title":"Chateau X 2015","price":42.5,"wine_id":3,"rating":90},
	{"id":"8","title":"Chateau X 2016","price":30,"wine_id":3,"rating":70},
	{"id":"9","title":"Domaine Y 2019","price":18,"wine_id":4,"rating":85}
]`

// startCatalog serves a service backed by an in-memory SQLite catalog and returns a client.
func startCatalog(t *testing.T) *rpc.Client {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	store := upstream.NewSQL(db)
	require.NoError(t, store.Migrate())

	records, err := models.DefaultFields().ParseRecords([]byte(seedRecords))
	require.NoError(t, err)
	require.NoError(t, store.Import(context.Background(), records))

	service := NewService(store, Config{HighRatedThreshold: 80}, testCacheConfig(), nil, nil)

	lis := bufconn.Listen(1 << 20)
	srv := rpc.NewServer(server.Config{MaxMessageBytes: rpc.DefaultMaxMessageBytes}, NewGRPCServer(service), zap.NewNop(), nil)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() { srv.Shutdown(context.Background()) })

	client, err := rpc.Dial("passthrough:///bufnet", rpc.DefaultMaxMessageBytes, zap.NewNop(),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestGRPC_VintageLookups(t *testing.T) {
	client := startCatalog(t)
	ctx := context.Background()

	raw, err := client.GetVintageByID(ctx, "7")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"7","title":"Chateau X 2015","price":42.5,"wine_id":3,"rating":90}`, string(raw))

	raw, err = client.GetVintageByID(ctx, "999")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))

	records, err := client.GetVintagesByIDs(ctx, []string{"9", "999", "7"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Contains(t, string(records[0]), "Domaine Y 2019")
	assert.Contains(t, string(records[1]), "Chateau X 2015")

	var streamed []json.RawMessage
	err = client.StreamVintagesByIDs(ctx, []string{"8", "999", "9"}, func(raw json.RawMessage) error {
		streamed = append(streamed, raw)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, streamed, 2)
	assert.Contains(t, string(streamed[0]), "Chateau X 2016")
	assert.Contains(t, string(streamed[1]), "Domaine Y 2019")
}

func TestGRPC_Projections(t *testing.T) {
	client := startCatalog(t)
	ctx := context.Background()

	title, err := client.GetVintageTitleByID(ctx, "8")
	require.NoError(t, err)
	assert.Equal(t, "Chateau X 2016", title)

	titles, err := client.GetVintageTitlesByIDs(ctx, []string{"7", "999", "7"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Chateau X 2015", "", "Chateau X 2015"}, titles)

	price, err := client.GetPriceByVintageID(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, 0.0, price)

	prices, err := client.GetPricesByVintageIDs(ctx, []string{"9", "7"})
	require.NoError(t, err)
	assert.Equal(t, []float64{18, 42.5}, prices)

	wineID, err := client.GetWineIDByVintageID(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, "4", wineID)

	wineIDs, err := client.GetWineIDsByVintageIDs(ctx, []string{"7", "999", "7"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "0", "3"}, wineIDs)

	wineIDs, err = client.GetUnorderedWineIDsByVintageIDs(ctx, []string{"7", "999", "7"})
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, wineIDs)
}

func TestGRPC_WineLookups(t *testing.T) {
	client := startCatalog(t)
	ctx := context.Background()

	ids, err := client.GetVintageIDsByWineID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "8"}, ids)

	ids, err = client.GetVintageIDsByWineID(ctx, "999")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = client.GetVintageIDsByWineIDs(ctx, []string{"4", "999", "3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "7", "8"}, ids)

	best, err := client.GetBestVintageIDByWineID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "7", best)

	best, err = client.GetBestVintageIDByWineID(ctx, "999")
	require.NoError(t, err)
	assert.Equal(t, "0", best)

	ids, err = client.GetBestVintageIDsByWineIDs(ctx, []string{"4", "999", "3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "0", "7"}, ids)

	ids, err = client.GetUnorderedBestVintageIDsByWineIDs(ctx, []string{"3", "4", "3"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"7", "9"}, ids)

	ids, err = client.GetHighRatedVintageIDsFromWineID(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"7"}, ids)

	ids, err = client.GetHighRatedVintageIDsFromWineIDs(ctx, []string{"3", "4"})
	require.NoError(t, err)
	assert.Equal(t, []string{"7", "9"}, ids)
}
