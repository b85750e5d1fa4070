package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/radiusdt/adpulse/internal/metrics"
	"github.com/radiusdt/adpulse/internal/models"
)

func TestSampleCampaigns(t *testing.T) {
	require := require.New(t)
	campaigns := SampleCampaigns()
	require.Len(campaigns, 7)

	var meta, google int
	for _, c := range campaigns {
		switch c.Platform {
		case models.PlatformMeta:
			meta++
		case models.PlatformGoogle:
			google++
		}
		require.LessOrEqual(c.Clicks, c.Impressions)
		require.LessOrEqual(c.Conversions, c.Clicks)
	}
	require.Equal(4, meta)
	require.Equal(3, google)
}

func TestInMemoryCampaignSourceReturnsCopy(t *testing.T) {
	require := require.New(t)
	src := NewInMemoryCampaignSource(SampleCampaigns())

	first, err := src.ListCampaigns(context.Background())
	require.NoError(err)
	first[0].Name = "mutated"

	second, err := src.ListCampaigns(context.Background())
	require.NoError(err)
	require.Equal("Summer Sale - US", second[0].Name)
	require.Equal("memory", src.Name())
}

func TestInMemoryCampaignSourceReplace(t *testing.T) {
	require := require.New(t)
	src := NewInMemoryCampaignSource(nil)

	got, err := src.ListCampaigns(context.Background())
	require.NoError(err)
	require.Empty(got)

	src.Replace([]models.CampaignMetric{{ID: "x", Platform: models.PlatformGoogle}})
	got, err = src.ListCampaigns(context.Background())
	require.NoError(err)
	require.Len(got, 1)
}

func TestInMemoryCampaignSourceCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewInMemoryCampaignSource(SampleCampaigns()).ListCampaigns(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

type failingSource struct{}

func (failingSource) ListCampaigns(context.Context) ([]models.CampaignMetric, error) {
	return nil, ErrSourceUnavailable
}

func (failingSource) Name() string { return "broken" }

func TestInstrumentedSource(t *testing.T) {
	require := require.New(t)
	m := metrics.NewMetrics("storage_test", prometheus.NewRegistry())

	ok := NewInstrumentedSource(NewInMemoryCampaignSource(SampleCampaigns()), zap.NewNop(), m)
	campaigns, err := ok.ListCampaigns(context.Background())
	require.NoError(err)
	require.Len(campaigns, 7)
	require.Equal("memory", ok.Name())

	bad := NewInstrumentedSource(failingSource{}, zap.NewNop(), m)
	_, err = bad.ListCampaigns(context.Background())
	require.ErrorIs(err, ErrSourceUnavailable)
	require.Equal(1.0, testutil.ToFloat64(m.SourceErrors.WithLabelValues("broken")))
}

// fakeRows serves canned rows through the pgx.Rows interface.
type fakeRows struct {
	data [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Values() ([]any, error) { return r.data[r.pos-1], nil }

func (r *fakeRows) Scan(dest ...any) error {
	row := r.data[r.pos-1]
	if len(dest) != len(row) {
		return errors.New("column count mismatch")
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = row[i].(string)
		case *float64:
			*p = row[i].(float64)
		case *int64:
			*p = row[i].(int64)
		default:
			return errors.New("unsupported destination")
		}
	}
	return nil
}

type fakeQuerier struct {
	rows *fakeRows
	err  error
}

func (q fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if q.err != nil {
		return nil, q.err
	}
	return q.rows, nil
}

func TestPostgresCampaignSource(t *testing.T) {
	require := require.New(t)
	rows := &fakeRows{data: [][]any{
		{"3", "Search - Brand Terms", "Google", "active", "2023-10-03", 4500.0, 28000.0, int64(85000), int64(62000), int64(12000), int64(350)},
	}}

	src := NewPostgresCampaignSource(fakeQuerier{rows: rows})
	got, err := src.ListCampaigns(context.Background())
	require.NoError(err)
	require.Len(got, 1)
	require.Equal(models.PlatformGoogle, got[0].Platform)
	require.Equal(models.CampaignStatusActive, got[0].Status)
	require.Equal(int64(12000), got[0].Clicks)
	require.Equal("postgres", src.Name())
}

func TestPostgresCampaignSourceErrors(t *testing.T) {
	_, err := NewPostgresCampaignSource(fakeQuerier{err: errors.New("conn refused")}).ListCampaigns(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)

	_, err = NewPostgresCampaignSource(fakeQuerier{rows: &fakeRows{err: errors.New("reset")}}).ListCampaigns(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestPostgresCampaignSourceEmptyResult(t *testing.T) {
	got, err := NewPostgresCampaignSource(fakeQuerier{rows: &fakeRows{}}).ListCampaigns(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestPostgresCampaignSourceCanceled(t *testing.T) {
	_, err := NewPostgresCampaignSource(fakeQuerier{err: context.Canceled}).ListCampaigns(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)
	require.ErrorIs(t, err, context.Canceled)
}

type canceledSource struct{}

func (canceledSource) ListCampaigns(ctx context.Context) ([]models.CampaignMetric, error) {
	return nil, context.Canceled
}

func (canceledSource) Name() string { return "gone" }

func TestInstrumentedSourceCanceledIsNotAnError(t *testing.T) {
	require := require.New(t)
	m := metrics.NewMetrics("storage_cancel_test", prometheus.NewRegistry())
	core, logs := observer.New(zapcore.DebugLevel)

	src := NewInstrumentedSource(canceledSource{}, zap.New(core), m)
	_, err := src.ListCampaigns(context.Background())
	require.ErrorIs(err, context.Canceled)
	require.Equal(0.0, testutil.ToFloat64(m.SourceErrors.WithLabelValues("gone")))
	require.Zero(logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	require.Equal(1, logs.FilterMessage("campaign source read canceled").Len())
}

// fakeCHRows serves canned rows through driver.Rows. Unused methods panic.
type fakeCHRows struct {
	driver.Rows
	data [][]any
	pos  int
}

func (r *fakeCHRows) Next() bool {
	if r.pos >= len(r.data) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeCHRows) Scan(dest ...any) error {
	return (&fakeRows{data: r.data, pos: r.pos}).Scan(dest...)
}

func (r *fakeCHRows) Err() error   { return nil }
func (r *fakeCHRows) Close() error { return nil }

type fakeCHConn struct {
	driver.Conn
	rows *fakeCHRows
	err  error
}

func (c fakeCHConn) Query(ctx context.Context, query string, args ...any) (driver.Rows, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.rows, nil
}

func TestClickHouseCampaignSource(t *testing.T) {
	require := require.New(t)
	rows := &fakeCHRows{data: [][]any{
		{"1", "Summer Sale - US", "Meta", "active", "2023-10-01", 12500.0, 38000.0, int64(450000), int64(210000), int64(8500), int64(420)},
	}}

	src := NewClickHouseCampaignSource(fakeCHConn{rows: rows})
	got, err := src.ListCampaigns(context.Background())
	require.NoError(err)
	require.Len(got, 1)
	require.Equal(models.PlatformMeta, got[0].Platform)
	require.Equal(int64(420), got[0].Conversions)
	require.Equal("clickhouse", src.Name())

	empty, err := NewClickHouseCampaignSource(fakeCHConn{rows: &fakeCHRows{}}).ListCampaigns(context.Background())
	require.NoError(err)
	require.NotNil(empty)
	require.Empty(empty)

	_, err = NewClickHouseCampaignSource(fakeCHConn{err: errors.New("dial tcp: refused")}).ListCampaigns(context.Background())
	require.ErrorIs(err, ErrSourceUnavailable)
}
